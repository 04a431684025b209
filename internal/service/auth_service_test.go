package service

import (
	"os"
	"testing"

	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*AuthService, *MockUserRepository, *MockRefreshTokenRepository) {
	t.Helper()
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	userRepo := NewMockUserRepository()
	tokenRepo := NewMockRefreshTokenRepository()
	return NewAuthService(userRepo, tokenRepo), userRepo, tokenRepo
}

func TestRegister(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)

	taken := &models.User{Username: "taken", Email: "taken@example.com"}
	userRepo.Create(taken)

	tests := []struct {
		name      string
		input     RegisterInput
		expectErr bool
	}{
		{"Valid registration", RegisterInput{Username: "newreader", Email: "new@example.com", Password: "longenoughpassword"}, false},
		{"Invalid email", RegisterInput{Username: "reader2", Email: "not-an-email", Password: "longenoughpassword"}, true},
		{"Short password", RegisterInput{Username: "reader3", Email: "r3@example.com", Password: "short"}, true},
		{"Duplicate email", RegisterInput{Username: "reader4", Email: "taken@example.com", Password: "longenoughpassword"}, true},
		{"Duplicate username", RegisterInput{Username: "taken", Email: "r5@example.com", Password: "longenoughpassword"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Register(tt.input)
			if (err != nil) != tt.expectErr {
				t.Fatalf("Register error = %v, wantErr %v", err, tt.expectErr)
			}
			if !tt.expectErr {
				if result.Token == "" {
					t.Error("Register returned empty access token")
				}
				if result.RefreshToken == "" {
					t.Error("Register returned empty refresh token")
				}
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	userRepo.Create(&models.User{
		Username:     "reader",
		Email:        "reader@example.com",
		PasswordHash: string(hash),
	})

	tests := []struct {
		name      string
		email     string
		password  string
		expectErr bool
	}{
		{"Valid credentials", "reader@example.com", "correct-password", false},
		{"Wrong password", "reader@example.com", "wrong-password", true},
		{"Unknown email", "ghost@example.com", "correct-password", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(LoginInput{Email: tt.email, Password: tt.password})
			if (err != nil) != tt.expectErr {
				t.Fatalf("Login error = %v, wantErr %v", err, tt.expectErr)
			}
			if !tt.expectErr && result.Token == "" {
				t.Error("Login returned empty access token")
			}
		})
	}
}

func TestRefreshRotation(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	registered, err := svc.Register(RegisterInput{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "longenoughpassword",
	})
	if err != nil {
		t.Fatalf("Register error = %v", err)
	}

	rotated, err := svc.Refresh(registered.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh error = %v", err)
	}
	if rotated.RefreshToken == registered.RefreshToken {
		t.Error("Refresh did not rotate the token")
	}

	// The presented token is revoked on rotation; replaying it fails.
	if _, err := svc.Refresh(registered.RefreshToken); err == nil {
		t.Error("replayed refresh token accepted, want error")
	}

	// The freshly issued token still works.
	if _, err := svc.Refresh(rotated.RefreshToken); err != nil {
		t.Errorf("Refresh with rotated token error = %v", err)
	}
}

func TestLogout(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	registered, err := svc.Register(RegisterInput{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "longenoughpassword",
	})
	if err != nil {
		t.Fatalf("Register error = %v", err)
	}

	if err := svc.Logout(registered.RefreshToken); err != nil {
		t.Fatalf("Logout error = %v", err)
	}
	if _, err := svc.Refresh(registered.RefreshToken); err == nil {
		t.Error("refresh after logout accepted, want error")
	}

	// Logging out with no token is a no-op.
	if err := svc.Logout(""); err != nil {
		t.Errorf("Logout with empty token error = %v", err)
	}
}
