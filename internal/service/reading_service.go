package service

import (
	"errors"
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/cache"
	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"github.com/chaigneaudoryan/shelfy-backend/internal/repository"
	"gorm.io/gorm"
)

// ReadingService owns the group reading lifecycle: it turns a closed poll's
// winner into the group's CURRENT book and settles every other status.
type ReadingService struct {
	groupRepo       repository.GroupRepositoryInterface
	groupBookRepo   repository.GroupBookRepositoryInterface
	pollRepo        repository.PollRepositoryInterface
	suggestionCache *cache.SuggestionCache
}

func NewReadingService(
	groupRepo repository.GroupRepositoryInterface,
	groupBookRepo repository.GroupBookRepositoryInterface,
	pollRepo repository.PollRepositoryInterface,
	suggestionCache *cache.SuggestionCache,
) *ReadingService {
	return &ReadingService{
		groupRepo:       groupRepo,
		groupBookRepo:   groupBookRepo,
		pollRepo:        pollRepo,
		suggestionCache: suggestionCache,
	}
}

// PromoteWinner applies the poll outcome. Preconditions: caller is a group
// admin, the poll belongs to the group, the poll has ended, and it has exactly
// one winning option. The status changes run in a single transaction; a tie or
// an empty poll changes nothing.
func (s *ReadingService) PromoteWinner(groupID, adminID, pollID uint, readingEndDate *time.Time) error {
	role, err := s.groupRepo.GetMemberRole(groupID, adminID)
	if err != nil || role != models.RoleAdmin {
		return ErrForbidden
	}

	poll, err := s.pollRepo.FindByID(pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if poll.GroupID != groupID {
		return ErrNotFound
	}

	if !poll.Closed(time.Now()) {
		return ErrPollNotClosed
	}

	winner, ok := poll.Winner()
	if !ok {
		return ErrTieOrNoVotes
	}

	loserIDs := make([]uint, 0, len(poll.Options)-1)
	for _, opt := range poll.Options {
		if opt.GroupBookID != winner.GroupBookID {
			loserIDs = append(loserIDs, opt.GroupBookID)
		}
	}

	if err := s.groupBookRepo.PromoteWinner(groupID, winner.GroupBookID, loserIDs, readingEndDate); err != nil {
		return err
	}

	s.suggestionCache.Invalidate(groupID)

	return nil
}

// CurrentBook returns the group's one CURRENT book.
func (s *ReadingService) CurrentBook(groupID, userID uint) (*models.GroupBook, error) {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}

	current, err := s.groupBookRepo.FindCurrent(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return current, nil
}

// ListGroupBooks returns the group's library, optionally filtered by status.
func (s *ReadingService) ListGroupBooks(groupID, userID uint, status *models.GroupBookStatus) ([]models.GroupBook, error) {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}
	return s.groupBookRepo.ListByGroup(groupID, status)
}
