package service

import (
	"errors"
	"strings"
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/cache"
	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"github.com/chaigneaudoryan/shelfy-backend/internal/repository"
	"gorm.io/gorm"
)

type PollService struct {
	groupRepo       repository.GroupRepositoryInterface
	groupBookRepo   repository.GroupBookRepositoryInterface
	pollRepo        repository.PollRepositoryInterface
	suggestionCache *cache.SuggestionCache
}

func NewPollService(
	groupRepo repository.GroupRepositoryInterface,
	groupBookRepo repository.GroupBookRepositoryInterface,
	pollRepo repository.PollRepositoryInterface,
	suggestionCache *cache.SuggestionCache,
) *PollService {
	return &PollService{
		groupRepo:       groupRepo,
		groupBookRepo:   groupBookRepo,
		pollRepo:        pollRepo,
		suggestionCache: suggestionCache,
	}
}

// PollResponse carries the poll with its lazily computed closure state and,
// once closed, the winning option when one exists.
type PollResponse struct {
	ID             uint               `json:"id"`
	GroupID        uint               `json:"group_id"`
	EndDate        time.Time          `json:"end_date"`
	CreatedAt      time.Time          `json:"created_at"`
	Closed         bool               `json:"closed"`
	WinnerOptionID *uint              `json:"winner_option_id,omitempty"`
	Options        []PollOptionResult `json:"options"`
}

type PollOptionResult struct {
	ID        uint                     `json:"id"`
	GroupBook models.GroupBookResponse `json:"group_book"`
	VoteCount int                      `json:"vote_count"`
	VoterIDs  []uint                   `json:"voter_ids"`
}

// CreatePoll opens a vote round over at least two SUGGESTED books of the
// group. Only admins may create polls. Books stay SUGGESTED while polled.
func (s *PollService) CreatePoll(groupID, adminID uint, groupBookIDs []uint, endDate time.Time) (*models.Poll, error) {
	if err := s.requireAdmin(groupID, adminID); err != nil {
		return nil, err
	}

	if endDate.IsZero() {
		return nil, NewValidationError("end date is required")
	}
	if len(groupBookIDs) < 2 {
		return nil, NewValidationError("a poll needs at least two books")
	}

	seen := make(map[uint]bool, len(groupBookIDs))
	for _, id := range groupBookIDs {
		if seen[id] {
			return nil, NewValidationError("duplicate book in poll options")
		}
		seen[id] = true
	}

	groupBooks, err := s.groupBookRepo.FindByIDs(groupBookIDs)
	if err != nil {
		return nil, err
	}
	if len(groupBooks) != len(groupBookIDs) {
		return nil, NewValidationError("one or more books do not exist")
	}
	for _, gb := range groupBooks {
		if gb.GroupID != groupID {
			return nil, NewValidationError("one or more books do not belong to this group")
		}
		if gb.Status != models.StatusSuggested {
			return nil, NewValidationError("only suggested books can be polled")
		}
	}

	poll := &models.Poll{
		GroupID: groupID,
		EndDate: endDate,
	}
	for _, id := range groupBookIDs {
		poll.Options = append(poll.Options, models.PollOption{GroupBookID: id})
	}

	if err := s.pollRepo.Create(poll); err != nil {
		return nil, err
	}

	return s.pollRepo.FindByID(poll.ID)
}

// Vote records one member's choice. A member gets exactly one vote per poll;
// re-voting and changing a vote are not supported.
func (s *PollService) Vote(groupID, userID, pollID, pollOptionID uint) error {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrForbidden
	}

	poll, err := s.findGroupPoll(groupID, pollID)
	if err != nil {
		return err
	}

	option := poll.OptionByID(pollOptionID)
	if option == nil {
		return NewValidationError("option does not belong to this poll")
	}

	if poll.HasVoted(userID) {
		return ErrAlreadyVoted
	}

	vote := &models.Vote{
		PollID:       poll.ID,
		PollOptionID: option.ID,
		UserID:       userID,
	}
	if err := s.pollRepo.CreateVote(vote); err != nil {
		// The (poll_id, user_id) unique index catches the race two
		// simultaneous requests can slip through the check above.
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") ||
			strings.Contains(strings.ToLower(err.Error()), "unique") {
			return ErrAlreadyVoted
		}
		return err
	}

	s.suggestionCache.Invalidate(groupID)

	return nil
}

// ListPolls returns the group's polls, newest first, with closure evaluated
// against the server clock.
func (s *PollService) ListPolls(groupID, userID uint) ([]PollResponse, error) {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}

	polls, err := s.pollRepo.ListByGroup(groupID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]PollResponse, 0, len(polls))
	for i := range polls {
		responses = append(responses, buildPollResponse(&polls[i], now))
	}
	return responses, nil
}

// GetPoll returns one poll of the group.
func (s *PollService) GetPoll(groupID, userID, pollID uint) (*PollResponse, error) {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}

	poll, err := s.findGroupPoll(groupID, pollID)
	if err != nil {
		return nil, err
	}

	resp := buildPollResponse(poll, time.Now())
	return &resp, nil
}

func (s *PollService) findGroupPoll(groupID, pollID uint) (*models.Poll, error) {
	poll, err := s.pollRepo.FindByID(pollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if poll.GroupID != groupID {
		return nil, ErrNotFound
	}
	return poll, nil
}

func (s *PollService) requireAdmin(groupID, userID uint) error {
	role, err := s.groupRepo.GetMemberRole(groupID, userID)
	if err != nil {
		return ErrForbidden
	}
	if role != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func buildPollResponse(poll *models.Poll, now time.Time) PollResponse {
	resp := PollResponse{
		ID:        poll.ID,
		GroupID:   poll.GroupID,
		EndDate:   poll.EndDate,
		CreatedAt: poll.CreatedAt,
		Closed:    poll.Closed(now),
	}

	for i := range poll.Options {
		opt := &poll.Options[i]
		voterIDs := make([]uint, 0, len(opt.Votes))
		for _, v := range opt.Votes {
			voterIDs = append(voterIDs, v.UserID)
		}
		resp.Options = append(resp.Options, PollOptionResult{
			ID:        opt.ID,
			GroupBook: opt.GroupBook.ToResponse(len(opt.Votes)),
			VoteCount: len(opt.Votes),
			VoterIDs:  voterIDs,
		})
	}

	if resp.Closed {
		if winner, ok := poll.Winner(); ok {
			id := winner.ID
			resp.WinnerOptionID = &id
		}
	}
	return resp
}
