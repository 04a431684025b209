package service

import (
	"errors"

	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"github.com/chaigneaudoryan/shelfy-backend/internal/repository"
	"github.com/chaigneaudoryan/shelfy-backend/internal/validation"
	"gorm.io/gorm"
)

type ProgressService struct {
	groupRepo     repository.GroupRepositoryInterface
	groupBookRepo repository.GroupBookRepositoryInterface
	progressRepo  repository.ProgressRepositoryInterface
}

func NewProgressService(
	groupRepo repository.GroupRepositoryInterface,
	groupBookRepo repository.GroupBookRepositoryInterface,
	progressRepo repository.ProgressRepositoryInterface,
) *ProgressService {
	return &ProgressService{
		groupRepo:     groupRepo,
		groupBookRepo: groupBookRepo,
		progressRepo:  progressRepo,
	}
}

// UpdateProgress upserts the member's page position. Pages may go backwards;
// members correct their own mistakes.
func (s *ProgressService) UpdateProgress(groupID, userID, groupBookID uint, currentPage int) (*models.ReadingProgress, error) {
	if currentPage < 0 {
		return nil, NewValidationError("current page cannot be negative")
	}

	if err := s.checkMemberAndBook(groupID, userID, groupBookID); err != nil {
		return nil, err
	}

	if err := s.progressRepo.UpsertPage(groupID, groupBookID, userID, currentPage); err != nil {
		return nil, err
	}

	return s.progressRepo.Get(groupBookID, userID)
}

// SetRating upserts a half-star rating into the same progress row; the row is
// created with page 0 when the member rates before reporting progress.
func (s *ProgressService) SetRating(groupID, userID, groupBookID uint, rating float64) (*models.ReadingProgress, error) {
	if !validation.ValidateRating(rating) {
		return nil, NewValidationError("rating must be between 0.5 and 5.0 in steps of 0.5")
	}

	if err := s.checkMemberAndBook(groupID, userID, groupBookID); err != nil {
		return nil, err
	}

	if err := s.progressRepo.UpsertRating(groupID, groupBookID, userID, rating); err != nil {
		return nil, err
	}

	return s.progressRepo.Get(groupBookID, userID)
}

// GetProgress returns the member's progress, zero-valued when never reported.
func (s *ProgressService) GetProgress(groupID, userID, groupBookID uint) (*models.ReadingProgress, error) {
	if err := s.checkMemberAndBook(groupID, userID, groupBookID); err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.Get(groupBookID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.ReadingProgress{GroupBookID: groupBookID, UserID: userID, GroupID: groupID}, nil
		}
		return nil, err
	}
	return progress, nil
}

func (s *ProgressService) checkMemberAndBook(groupID, userID, groupBookID uint) error {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrForbidden
	}

	groupBook, err := s.groupBookRepo.FindByID(groupBookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if groupBook.GroupID != groupID {
		return ErrNotFound
	}
	return nil
}
