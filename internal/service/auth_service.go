package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"github.com/chaigneaudoryan/shelfy-backend/internal/repository"
	"github.com/chaigneaudoryan/shelfy-backend/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type AuthService struct {
	userRepo         repository.UserRepositoryInterface
	refreshTokenRepo repository.RefreshTokenRepositoryInterface
}

func NewAuthService(
	userRepo repository.UserRepositoryInterface,
	refreshTokenRepo repository.RefreshTokenRepositoryInterface,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token        string              `json:"token"`
	RefreshToken string              `json:"-"`
	User         models.UserResponse `json:"user"`
}

func (s *AuthService) Register(input RegisterInput) (*AuthResponse, error) {
	input.Email = validation.NormalizeEmail(input.Email)
	input.Username = validation.NormalizeUsername(input.Username)

	if !validation.ValidateEmail(input.Email) {
		return nil, errors.New("invalid email")
	}
	if !validation.ValidateUsername(input.Username) {
		return nil, errors.New("invalid username")
	}
	if !validation.ValidatePassword(input.Password) {
		return nil, errors.New("password too short")
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, errors.New("email already exists")
	}
	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		return nil, errors.New("username already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		FullName:     input.FullName,
		Role:         "user",
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(input LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(validation.NormalizeEmail(input.Email))
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	return s.issueTokens(user)
}

// Refresh rotates the refresh token: the presented token is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(refreshToken string) (*AuthResponse, error) {
	hash := hashToken(refreshToken)
	stored, err := s.refreshTokenRepo.FindValidByHash(hash)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	if err := s.refreshTokenRepo.RevokeByHash(hash); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *AuthService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refreshTokenRepo.RevokeByHash(hashToken(refreshToken))
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokenRepo.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:        access,
		RefreshToken: refresh,
		User:         user.ToResponse(),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
