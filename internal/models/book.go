package models

import (
	"time"

	"gorm.io/datatypes"
)

// Book is the canonical catalog record shared by every group.
// Deduplication key is the external catalog volume ID, falling back to ISBN-13.
type Book struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	GoogleVolumeID *string `gorm:"uniqueIndex" json:"google_volume_id"`
	ISBN13         *string `gorm:"index" json:"isbn13"`

	Title         string         `gorm:"size:500;not null" json:"title"`
	Author        string         `gorm:"size:255;not null" json:"author"`
	Description   string         `gorm:"type:text" json:"description"`
	CoverURL      string         `json:"cover_url"`
	PageCount     int            `json:"page_count"`
	PublishedDate string         `gorm:"size:20" json:"published_date"`
	Categories    datatypes.JSON `json:"categories"`
}
