package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FullName     string `json:"full_name"`
	Bio          string `gorm:"size:500" json:"bio"`
	Role         string `gorm:"not null;default:user" json:"role"`

	Avatar            string     `json:"avatar"`
	AvatarKey         string     `json:"-"`
	AvatarContentType string     `json:"-"`
	AvatarSizeBytes   int64      `json:"-"`
	AvatarETag        string     `json:"-"`
	AvatarUpdatedAt   *time.Time `json:"-"`

	Suggestions []GroupBook `gorm:"foreignKey:SuggestedByID" json:"-"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Bio:      u.Bio,
		Avatar:   u.Avatar,
		Role:     u.Role,
	}
}
