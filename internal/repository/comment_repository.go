package repository

import (
	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *models.BookComment) error {
	return r.db.Create(comment).Error
}

// ListByGroupBook returns every comment for the book, page order first so the
// timeline reads front-to-back. Spoiler hiding is the display layer's job.
func (r *CommentRepository) ListByGroupBook(groupBookID uint) ([]models.BookComment, error) {
	var comments []models.BookComment
	err := r.db.Where("group_book_id = ?", groupBookID).
		Preload("User").
		Order("page_number ASC, created_at ASC").
		Find(&comments).Error
	return comments, err
}
