package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"gorm.io/gorm"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a test user with default values
func (h *TestHelper) CreateTestUser(id uint, username, email string) *models.User {
	if id == 0 {
		id = 1
	}
	if username == "" {
		username = "testuser"
	}
	if email == "" {
		email = "test@example.com"
	}

	return &models.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "hashed_password_123",
		FullName:     "Test User",
		Role:         "user",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// CreateTestGroupBook creates a suggested group book with default values
func (h *TestHelper) CreateTestGroupBook(id, groupID uint, status models.GroupBookStatus) *models.GroupBook {
	if id == 0 {
		id = 1
	}
	if groupID == 0 {
		groupID = 1
	}
	if status == "" {
		status = models.StatusSuggested
	}

	suggestedBy := uint(1)
	return &models.GroupBook{
		ID:            id,
		GroupID:       groupID,
		BookID:        id,
		Status:        status,
		SuggestedByID: &suggestedBy,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
		Book: models.Book{
			ID:     id,
			Title:  "Test Book",
			Author: "Test Author",
		},
	}
}

// SetupTestEnv sets up required environment variables for testing
func (h *TestHelper) SetupTestEnv() {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing-only")
	os.Setenv("DATABASE_URL", "")
	os.Setenv("PASSWORD_MIN_LENGTH", "10")
}

// TeardownTestEnv cleans up environment variables after testing
func (h *TestHelper) TeardownTestEnv() {
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("PASSWORD_MIN_LENGTH")
}

// AssertError checks if an error occurred when it should (or shouldn't)
func (h *TestHelper) AssertError(err error, shouldErr bool, testName string) {
	if (err != nil) != shouldErr {
		if shouldErr {
			h.t.Errorf("%s: expected error but got nil", testName)
		} else {
			h.t.Errorf("%s: unexpected error: %v", testName, err)
		}
	}
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, testName string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", testName, got, want)
	}
}

// GetRecordNotFoundError returns gorm's not-found sentinel for mock repositories
func GetRecordNotFoundError() error {
	return gorm.ErrRecordNotFound
}
