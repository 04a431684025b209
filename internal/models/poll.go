package models

import (
	"time"
)

type Poll struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	GroupID uint      `gorm:"not null;index" json:"group_id"`
	EndDate time.Time `gorm:"not null" json:"end_date"`

	// Associations
	Group   Group        `gorm:"foreignKey:GroupID" json:"-"`
	Options []PollOption `gorm:"foreignKey:PollID" json:"options"`
}

type PollOption struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PollID      uint `gorm:"not null;index" json:"poll_id"`
	GroupBookID uint `gorm:"not null;index" json:"group_book_id"`

	GroupBook GroupBook `gorm:"foreignKey:GroupBookID" json:"group_book"`
	Votes     []Vote    `gorm:"foreignKey:PollOptionID" json:"votes"`
}

// Vote records one member's choice in one poll. PollID is denormalized from
// the option so the (poll_id, user_id) unique index can hold the one-vote-per-
// poll invariant at the store level, not just in the pre-insert check.
type Vote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PollID       uint `gorm:"not null;uniqueIndex:idx_votes_poll_user" json:"poll_id"`
	PollOptionID uint `gorm:"not null;index" json:"poll_option_id"`
	UserID       uint `gorm:"not null;uniqueIndex:idx_votes_poll_user" json:"user_id"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Closed reports whether the poll has ended. There is no close action or
// background job; closure is inferred from the clock at read time.
func (p *Poll) Closed(now time.Time) bool {
	return now.After(p.EndDate)
}

// Tally returns the vote count per option ID.
func (p *Poll) Tally() map[uint]int {
	counts := make(map[uint]int, len(p.Options))
	for _, opt := range p.Options {
		counts[opt.ID] = len(opt.Votes)
	}
	return counts
}

// Winner returns the option holding strictly the highest vote count.
// ok is false when the poll has no votes at all or the top count is shared,
// in which case promotion must not proceed.
func (p *Poll) Winner() (*PollOption, bool) {
	var winner *PollOption
	best := 0
	tied := false
	for i := range p.Options {
		n := len(p.Options[i].Votes)
		switch {
		case n > best:
			winner = &p.Options[i]
			best = n
			tied = false
		case n == best && n > 0:
			tied = true
		}
	}
	if winner == nil || tied {
		return nil, false
	}
	return winner, true
}

// HasVoted reports whether the user already holds a vote on any option.
func (p *Poll) HasVoted(userID uint) bool {
	for _, opt := range p.Options {
		for _, v := range opt.Votes {
			if v.UserID == userID {
				return true
			}
		}
	}
	return false
}

// OptionByID returns the option with the given ID, or nil.
func (p *Poll) OptionByID(optionID uint) *PollOption {
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			return &p.Options[i]
		}
	}
	return nil
}
