package models

import (
	"time"

	"gorm.io/gorm"
)

type GroupBookStatus string

const (
	StatusSuggested GroupBookStatus = "SUGGESTED"
	StatusCurrent   GroupBookStatus = "CURRENT"
	StatusFinished  GroupBookStatus = "FINISHED"
	StatusArchived  GroupBookStatus = "ARCHIVED"
)

// GroupBook ties one book to one group and carries its lifecycle status there.
// At most one GroupBook per group is CURRENT at any time.
type GroupBook struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	GroupID uint            `gorm:"not null;index" json:"group_id"`
	BookID  uint            `gorm:"not null;index" json:"book_id"`
	Status  GroupBookStatus `gorm:"type:varchar(20);not null;default:'SUGGESTED';index" json:"status"`

	SuggestedByID  *uint      `gorm:"index" json:"suggested_by_id"`
	ReadingEndDate *time.Time `json:"reading_end_date"`

	// Associations
	Group       Group `gorm:"foreignKey:GroupID" json:"-"`
	Book        Book  `gorm:"foreignKey:BookID" json:"book"`
	SuggestedBy *User `gorm:"foreignKey:SuggestedByID" json:"suggested_by,omitempty"`
}

// CanTransitionTo reports whether moving to next is a legal lifecycle step.
// Legal steps: SUGGESTED->CURRENT (poll winner), SUGGESTED->ARCHIVED (poll
// loser), CURRENT->FINISHED (superseded by a new winner).
func (s GroupBookStatus) CanTransitionTo(next GroupBookStatus) bool {
	switch s {
	case StatusSuggested:
		return next == StatusCurrent || next == StatusArchived
	case StatusCurrent:
		return next == StatusFinished
	default:
		return false
	}
}

// GroupBookResponse is the list shape for suggestions, carrying the total
// number of poll votes the book has collected in its group.
type GroupBookResponse struct {
	ID             uint            `json:"id"`
	GroupID        uint            `json:"group_id"`
	Status         GroupBookStatus `json:"status"`
	Book           Book            `json:"book"`
	SuggestedBy    *UserResponse   `json:"suggested_by,omitempty"`
	ReadingEndDate *time.Time      `json:"reading_end_date"`
	VoteCount      int             `json:"vote_count"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (gb *GroupBook) ToResponse(voteCount int) GroupBookResponse {
	resp := GroupBookResponse{
		ID:             gb.ID,
		GroupID:        gb.GroupID,
		Status:         gb.Status,
		Book:           gb.Book,
		ReadingEndDate: gb.ReadingEndDate,
		VoteCount:      voteCount,
		CreatedAt:      gb.CreatedAt,
	}
	if gb.SuggestedBy != nil {
		u := gb.SuggestedBy.ToResponse()
		resp.SuggestedBy = &u
	}
	return resp
}
