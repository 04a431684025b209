package repository

import (
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"gorm.io/gorm"
)

type GroupBookRepository struct {
	db *gorm.DB
}

func NewGroupBookRepository(db *gorm.DB) *GroupBookRepository {
	return &GroupBookRepository{db: db}
}

func (r *GroupBookRepository) Create(groupBook *models.GroupBook) error {
	return r.db.Create(groupBook).Error
}

func (r *GroupBookRepository) FindByID(id uint) (*models.GroupBook, error) {
	var groupBook models.GroupBook
	if err := r.db.Preload("Book").Preload("SuggestedBy").First(&groupBook, id).Error; err != nil {
		return nil, err
	}
	return &groupBook, nil
}

func (r *GroupBookRepository) FindByIDs(ids []uint) ([]models.GroupBook, error) {
	var groupBooks []models.GroupBook
	err := r.db.Where("id IN ?", ids).Preload("Book").Find(&groupBooks).Error
	return groupBooks, err
}

func (r *GroupBookRepository) ListByGroup(groupID uint, status *models.GroupBookStatus) ([]models.GroupBook, error) {
	q := r.db.Where("group_id = ?", groupID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var groupBooks []models.GroupBook
	err := q.Preload("Book").Preload("SuggestedBy").
		Order("created_at ASC").
		Find(&groupBooks).Error
	return groupBooks, err
}

// ListSuggestionsWithVotes returns the group's SUGGESTED books with the total
// number of poll votes each one has collected across all polls of the group.
func (r *GroupBookRepository) ListSuggestionsWithVotes(groupID uint) ([]SuggestionRow, error) {
	suggested := models.StatusSuggested
	groupBooks, err := r.ListByGroup(groupID, &suggested)
	if err != nil {
		return nil, err
	}

	type countRow struct {
		GroupBookID uint
		Count       int
	}
	var counts []countRow
	err = r.db.Model(&models.Vote{}).
		Select("poll_options.group_book_id AS group_book_id, COUNT(votes.id) AS count").
		Joins("JOIN poll_options ON poll_options.id = votes.poll_option_id").
		Joins("JOIN group_books ON group_books.id = poll_options.group_book_id").
		Where("group_books.group_id = ?", groupID).
		Group("poll_options.group_book_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]int, len(counts))
	for _, c := range counts {
		byID[c.GroupBookID] = c.Count
	}

	rows := make([]SuggestionRow, 0, len(groupBooks))
	for _, gb := range groupBooks {
		rows = append(rows, SuggestionRow{GroupBook: gb, VoteCount: byID[gb.ID]})
	}
	return rows, nil
}

func (r *GroupBookRepository) CountSuggestedBy(groupID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GroupBook{}).
		Where("group_id = ? AND suggested_by_id = ? AND status = ?", groupID, userID, models.StatusSuggested).
		Count(&count).Error
	return count, err
}

func (r *GroupBookRepository) FindCurrent(groupID uint) (*models.GroupBook, error) {
	var groupBook models.GroupBook
	err := r.db.Where("group_id = ? AND status = ?", groupID, models.StatusCurrent).
		Preload("Book").Preload("SuggestedBy").
		First(&groupBook).Error
	if err != nil {
		return nil, err
	}
	return &groupBook, nil
}

// PromoteWinner runs the whole reading-state transition in one transaction so
// no reader ever observes zero or two CURRENT books past the commit point:
//  1. any CURRENT book other than the winner becomes FINISHED
//  2. the winner becomes CURRENT, reading_end_date set (or cleared)
//  3. losing options still SUGGESTED become ARCHIVED
//
// The status guards make a concurrent second promotion a net no-op.
func (r *GroupBookRepository) PromoteWinner(groupID, winnerID uint, loserIDs []uint, readingEndDate *time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GroupBook{}).
			Where("group_id = ? AND status = ? AND id <> ?", groupID, models.StatusCurrent, winnerID).
			Update("status", models.StatusFinished).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.GroupBook{}).
			Where("id = ? AND group_id = ?", winnerID, groupID).
			Updates(map[string]interface{}{
				"status":           models.StatusCurrent,
				"reading_end_date": readingEndDate,
			}).Error; err != nil {
			return err
		}

		if len(loserIDs) > 0 {
			if err := tx.Model(&models.GroupBook{}).
				Where("id IN ? AND group_id = ? AND status = ?", loserIDs, groupID, models.StatusSuggested).
				Update("status", models.StatusArchived).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
