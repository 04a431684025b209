package repository

import (
	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"gorm.io/gorm"
)

type BookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(book *models.Book) error {
	return r.db.Create(book).Error
}

func (r *BookRepository) FindByID(id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *BookRepository) FindByGoogleVolumeID(volumeID string) (*models.Book, error) {
	var book models.Book
	if err := r.db.Where("google_volume_id = ?", volumeID).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *BookRepository) FindByISBN13(isbn string) (*models.Book, error) {
	var book models.Book
	if err := r.db.Where("isbn13 = ?", isbn).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}
