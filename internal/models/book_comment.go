package models

import (
	"time"

	"gorm.io/gorm"
)

// BookComment is a page-anchored discussion entry on a group book. Writes are
// gated by the author's own reading progress; the display layer decides what
// other readers get to see.
type BookComment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	GroupBookID uint   `gorm:"not null;index" json:"group_book_id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	PageNumber  int    `gorm:"not null" json:"page_number"`
	Content     string `gorm:"type:text;not null" json:"content"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

type BookCommentResponse struct {
	ID          uint         `json:"id"`
	GroupBookID uint         `json:"group_book_id"`
	PageNumber  int          `json:"page_number"`
	Content     string       `json:"content"`
	Author      UserResponse `json:"author"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (c *BookComment) ToResponse() BookCommentResponse {
	return BookCommentResponse{
		ID:          c.ID,
		GroupBookID: c.GroupBookID,
		PageNumber:  c.PageNumber,
		Content:     c.Content,
		Author:      c.User.ToResponse(),
		CreatedAt:   c.CreatedAt,
	}
}
