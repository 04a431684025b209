package repository

import (
	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"gorm.io/gorm"
)

type PollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{db: db}
}

// Create persists the poll together with its options in one insert.
func (r *PollRepository) Create(poll *models.Poll) error {
	return r.db.Create(poll).Error
}

func (r *PollRepository) FindByID(id uint) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.Preload("Options.Votes").
		Preload("Options.GroupBook.Book").
		First(&poll, id).Error
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *PollRepository) ListByGroup(groupID uint) ([]models.Poll, error) {
	var polls []models.Poll
	err := r.db.Where("group_id = ?", groupID).
		Preload("Options.Votes").
		Preload("Options.GroupBook.Book").
		Order("created_at DESC").
		Find(&polls).Error
	return polls, err
}

// CreateVote inserts the vote row. The (poll_id, user_id) unique index backs
// the one-vote-per-poll invariant; a duplicate insert fails here even if two
// requests pass the service pre-check simultaneously.
func (r *PollRepository) CreateVote(vote *models.Vote) error {
	return r.db.Create(vote).Error
}
