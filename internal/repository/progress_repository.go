package repository

import (
	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"gorm.io/gorm"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// UpsertPage overwrites current_page unconditionally; regressions are allowed.
func (r *ProgressRepository) UpsertPage(groupID, groupBookID, userID uint, currentPage int) error {
	return r.db.Exec(`
		INSERT INTO reading_progresses (group_book_id, user_id, group_id, current_page, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())
		ON CONFLICT (group_book_id, user_id) DO UPDATE
		SET current_page = EXCLUDED.current_page,
			updated_at = NOW()
	`, groupBookID, userID, groupID, currentPage).Error
}

// UpsertRating sets the rating, creating the row with page 0 when absent.
func (r *ProgressRepository) UpsertRating(groupID, groupBookID, userID uint, rating float64) error {
	return r.db.Exec(`
		INSERT INTO reading_progresses (group_book_id, user_id, group_id, current_page, rating, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, NOW(), NOW())
		ON CONFLICT (group_book_id, user_id) DO UPDATE
		SET rating = EXCLUDED.rating,
			updated_at = NOW()
	`, groupBookID, userID, groupID, rating).Error
}

func (r *ProgressRepository) Get(groupBookID, userID uint) (*models.ReadingProgress, error) {
	var progress models.ReadingProgress
	err := r.db.Where("group_book_id = ? AND user_id = ?", groupBookID, userID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) ListByGroupBook(groupBookID uint) ([]models.ReadingProgress, error) {
	var progresses []models.ReadingProgress
	err := r.db.Where("group_book_id = ?", groupBookID).Find(&progresses).Error
	return progresses, err
}
