package service

import (
	"errors"
	"testing"
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/cache"
	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
)

type readingFixture struct {
	reading       *ReadingService
	polls         *PollService
	groupRepo     *MockGroupRepository
	groupBookRepo *MockGroupBookRepository
	pollRepo      *MockPollRepository
}

func newReadingFixture() *readingFixture {
	groupRepo := NewMockGroupRepository()
	groupBookRepo := NewMockGroupBookRepository()
	pollRepo := NewMockPollRepository()
	suggestionCache := cache.NewSuggestionCache(nil)
	return &readingFixture{
		reading:       NewReadingService(groupRepo, groupBookRepo, pollRepo, suggestionCache),
		polls:         NewPollService(groupRepo, groupBookRepo, pollRepo, suggestionCache),
		groupRepo:     groupRepo,
		groupBookRepo: groupBookRepo,
		pollRepo:      pollRepo,
	}
}

// closedPoll creates a poll over the given books that ended an hour ago, with
// votes already cast per the votes map (userID -> option index).
func (f *readingFixture) closedPoll(t *testing.T, groupID uint, bookIDs []uint, votes map[uint]int) *models.Poll {
	t.Helper()
	poll := &models.Poll{GroupID: groupID, EndDate: time.Now().Add(-time.Hour)}
	for _, id := range bookIDs {
		poll.Options = append(poll.Options, models.PollOption{GroupBookID: id})
	}
	if err := f.pollRepo.Create(poll); err != nil {
		t.Fatalf("create poll: %v", err)
	}
	for userID, optIdx := range votes {
		vote := &models.Vote{PollID: poll.ID, PollOptionID: poll.Options[optIdx].ID, UserID: userID}
		if err := f.pollRepo.CreateVote(vote); err != nil {
			t.Fatalf("create vote: %v", err)
		}
	}
	return poll
}

func TestPromoteWinner(t *testing.T) {
	f := newReadingFixture()
	f.groupRepo.AddMember(1, 1, models.RoleAdmin)
	f.groupRepo.AddMember(1, 2, models.RoleMember)
	f.groupRepo.AddMember(1, 3, models.RoleMember)
	ids := seedSuggestions(f.groupBookRepo, 1, 3)

	poll := f.closedPoll(t, 1, ids, map[uint]int{2: 0, 3: 0})

	endDate := time.Now().Add(21 * 24 * time.Hour)
	if err := f.reading.PromoteWinner(1, 1, poll.ID, &endDate); err != nil {
		t.Fatalf("PromoteWinner error = %v", err)
	}

	winner, _ := f.groupBookRepo.FindByID(ids[0])
	if winner.Status != models.StatusCurrent {
		t.Errorf("winner status = %s, want CURRENT", winner.Status)
	}
	if winner.ReadingEndDate == nil || !winner.ReadingEndDate.Equal(endDate) {
		t.Errorf("winner reading end date = %v, want %v", winner.ReadingEndDate, endDate)
	}
	for _, loserID := range ids[1:] {
		loser, _ := f.groupBookRepo.FindByID(loserID)
		if loser.Status != models.StatusArchived {
			t.Errorf("loser %d status = %s, want ARCHIVED", loserID, loser.Status)
		}
	}
}

func TestPromoteWinnerDemotesCurrentBook(t *testing.T) {
	f := newReadingFixture()
	f.groupRepo.AddMember(1, 1, models.RoleAdmin)
	f.groupRepo.AddMember(1, 2, models.RoleMember)

	suggestedBy := uint(1)
	previous := &models.GroupBook{GroupID: 1, BookID: 100, Status: models.StatusCurrent, SuggestedByID: &suggestedBy}
	f.groupBookRepo.Create(previous)

	ids := seedSuggestions(f.groupBookRepo, 1, 2)
	poll := f.closedPoll(t, 1, ids, map[uint]int{2: 1})

	if err := f.reading.PromoteWinner(1, 1, poll.ID, nil); err != nil {
		t.Fatalf("PromoteWinner error = %v", err)
	}

	demoted, _ := f.groupBookRepo.FindByID(previous.ID)
	if demoted.Status != models.StatusFinished {
		t.Errorf("previous current status = %s, want FINISHED", demoted.Status)
	}

	// At most one CURRENT book per group survives the transition.
	currentCount := 0
	for _, gb := range f.groupBookRepo.groupBooks {
		if gb.GroupID == 1 && gb.Status == models.StatusCurrent {
			currentCount++
		}
	}
	if currentCount != 1 {
		t.Errorf("CURRENT book count = %d, want 1", currentCount)
	}

	current, err := f.reading.CurrentBook(1, 2)
	if err != nil {
		t.Fatalf("CurrentBook error = %v", err)
	}
	if current.ID != ids[1] {
		t.Errorf("current book = %d, want %d", current.ID, ids[1])
	}
}

func TestPromoteWinnerGuards(t *testing.T) {
	f := newReadingFixture()
	f.groupRepo.AddMember(1, 1, models.RoleAdmin)
	f.groupRepo.AddMember(1, 2, models.RoleMember)
	f.groupRepo.AddMember(1, 3, models.RoleMember)
	ids := seedSuggestions(f.groupBookRepo, 1, 2)

	openPoll := &models.Poll{GroupID: 1, EndDate: time.Now().Add(time.Hour)}
	for _, id := range ids {
		openPoll.Options = append(openPoll.Options, models.PollOption{GroupBookID: id})
	}
	f.pollRepo.Create(openPoll)

	tiedPoll := f.closedPoll(t, 1, ids, map[uint]int{2: 0, 3: 1})
	emptyPoll := f.closedPoll(t, 1, ids, nil)
	wonPoll := f.closedPoll(t, 1, ids, map[uint]int{2: 0})

	tests := []struct {
		name    string
		adminID uint
		pollID  uint
		wantErr error
	}{
		{"Regular member cannot promote", 2, wonPoll.ID, ErrForbidden},
		{"Open poll cannot be promoted", 1, openPoll.ID, ErrPollNotClosed},
		{"Tie blocks promotion", 1, tiedPoll.ID, ErrTieOrNoVotes},
		{"Empty poll blocks promotion", 1, emptyPoll.ID, ErrTieOrNoVotes},
		{"Unknown poll", 1, 999, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.reading.PromoteWinner(1, tt.adminID, tt.pollID, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("PromoteWinner error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// A blocked promotion leaves every status untouched.
	for _, id := range ids {
		gb, _ := f.groupBookRepo.FindByID(id)
		if gb.Status != models.StatusSuggested {
			t.Errorf("book %d status = %s, want SUGGESTED after blocked promotions", id, gb.Status)
		}
	}
}

func TestPromoteWinnerPollFromAnotherGroup(t *testing.T) {
	f := newReadingFixture()
	f.groupRepo.AddMember(1, 1, models.RoleAdmin)
	f.groupRepo.AddMember(2, 2, models.RoleMember)
	ids := seedSuggestions(f.groupBookRepo, 2, 2)

	foreign := f.closedPoll(t, 2, ids, map[uint]int{2: 0})

	if err := f.reading.PromoteWinner(1, 1, foreign.ID, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("PromoteWinner on foreign poll error = %v, want ErrNotFound", err)
	}
}

func TestCurrentBook(t *testing.T) {
	f := newReadingFixture()
	f.groupRepo.AddMember(1, 2, models.RoleMember)

	if _, err := f.reading.CurrentBook(1, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("CurrentBook with no reading error = %v, want ErrNotFound", err)
	}
	if _, err := f.reading.CurrentBook(1, 99); !errors.Is(err, ErrForbidden) {
		t.Errorf("CurrentBook for non-member error = %v, want ErrForbidden", err)
	}
}

func TestListGroupBooks(t *testing.T) {
	f := newReadingFixture()
	f.groupRepo.AddMember(1, 2, models.RoleMember)
	seedSuggestions(f.groupBookRepo, 1, 2)

	suggestedBy := uint(1)
	f.groupBookRepo.Create(&models.GroupBook{GroupID: 1, BookID: 50, Status: models.StatusFinished, SuggestedByID: &suggestedBy})

	all, err := f.reading.ListGroupBooks(1, 2, nil)
	if err != nil {
		t.Fatalf("ListGroupBooks error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListGroupBooks returned %d books, want 3", len(all))
	}

	finished := models.StatusFinished
	only, err := f.reading.ListGroupBooks(1, 2, &finished)
	if err != nil {
		t.Fatalf("ListGroupBooks error = %v", err)
	}
	if len(only) != 1 {
		t.Errorf("filtered ListGroupBooks returned %d books, want 1", len(only))
	}
}
