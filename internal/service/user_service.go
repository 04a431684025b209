package service

import (
	"errors"
	"strings"

	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"github.com/chaigneaudoryan/shelfy-backend/internal/repository"
	"github.com/chaigneaudoryan/shelfy-backend/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepositoryInterface
}

func NewUserService(userRepo repository.UserRepositoryInterface) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileInput struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Bio      string `json:"bio"`
}

func (s *UserService) IsUsernameAvailable(username string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, errors.New("username cannot be empty")
	}

	_, err := s.userRepo.FindByUsername(username)
	if err != nil {
		// Username not found = available
		return true, nil
	}
	return false, nil
}

func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if input.Username != "" {
		username := strings.TrimSpace(input.Username)

		if username != user.Username {
			if !validation.ValidateUsername(username) {
				return nil, errors.New("invalid username")
			}
			available, err := s.IsUsernameAvailable(username)
			if err != nil {
				return nil, err
			}
			if !available {
				return nil, errors.New("username already taken")
			}
			user.Username = username
		}
	}

	if input.FullName != "" {
		user.FullName = strings.TrimSpace(input.FullName)
	}
	if input.Bio != "" {
		user.Bio = validation.TrimAndLimit(input.Bio, 500)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	return s.userRepo.FindByID(userID)
}

func (s *UserService) SearchUsers(query string, limit int) ([]models.User, error) {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return []models.User{}, nil
	}
	if limit == 0 || limit > 50 {
		limit = 20
	}
	return s.userRepo.SearchUsers(query, limit)
}
