package models

import (
	"time"
)

// ReadingProgress tracks one member's self-reported page position against one
// group book, plus an optional rating. Rows are created lazily on the first
// progress update or rating. current_page may go backwards; members are
// allowed to correct themselves.
type ReadingProgress struct {
	GroupBookID uint      `gorm:"primaryKey" json:"group_book_id"`
	UserID      uint      `gorm:"primaryKey" json:"user_id"`
	GroupID     uint      `gorm:"not null;index" json:"group_id"`
	CurrentPage int       `gorm:"not null;default:0" json:"current_page"`
	Rating      *float64  `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
