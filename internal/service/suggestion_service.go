package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/chaigneaudoryan/shelfy-backend/internal/cache"
	"github.com/chaigneaudoryan/shelfy-backend/internal/catalog"
	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"github.com/chaigneaudoryan/shelfy-backend/internal/repository"
	"github.com/chaigneaudoryan/shelfy-backend/internal/validation"
	"gorm.io/gorm"
)

// MaxActiveSuggestions caps concurrent SUGGESTED books per member per group.
const MaxActiveSuggestions = 3

type SuggestionService struct {
	groupRepo       repository.GroupRepositoryInterface
	groupBookRepo   repository.GroupBookRepositoryInterface
	bookRepo        repository.BookRepositoryInterface
	catalog         catalog.Client
	suggestionCache *cache.SuggestionCache
}

func NewSuggestionService(
	groupRepo repository.GroupRepositoryInterface,
	groupBookRepo repository.GroupBookRepositoryInterface,
	bookRepo repository.BookRepositoryInterface,
	catalogClient catalog.Client,
	suggestionCache *cache.SuggestionCache,
) *SuggestionService {
	return &SuggestionService{
		groupRepo:       groupRepo,
		groupBookRepo:   groupBookRepo,
		bookRepo:        bookRepo,
		catalog:         catalogClient,
		suggestionCache: suggestionCache,
	}
}

type BookInput struct {
	GoogleVolumeID string   `json:"google_volume_id" validate:"required"`
	Title          string   `json:"title" validate:"required,max=500"`
	Author         string   `json:"author" validate:"required,max=255"`
	Description    string   `json:"description"`
	CoverURL       string   `json:"cover_url"`
	ISBN13         string   `json:"isbn13"`
	PageCount      int      `json:"page_count" validate:"gte=0"`
	PublishedDate  string   `json:"published_date"`
	Categories     []string `json:"categories"`
}

// SuggestBook records a member's book suggestion: resolves the canonical book
// (dedup by catalog volume ID, falling back to ISBN-13), enriches it from the
// external catalog best-effort, and creates a SUGGESTED group book.
func (s *SuggestionService) SuggestBook(ctx context.Context, groupID, userID uint, input BookInput) (*models.GroupBook, error) {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Author = strings.TrimSpace(input.Author)
	input.GoogleVolumeID = strings.TrimSpace(input.GoogleVolumeID)
	if input.Title == "" || input.Author == "" || input.GoogleVolumeID == "" {
		return nil, NewValidationError("title, author and google_volume_id are required")
	}

	count, err := s.groupBookRepo.CountSuggestedBy(groupID, userID)
	if err != nil {
		return nil, err
	}
	if count >= MaxActiveSuggestions {
		return nil, ErrQuotaExceeded
	}

	book, err := s.resolveBook(ctx, input)
	if err != nil {
		return nil, err
	}

	groupBook := &models.GroupBook{
		GroupID:       groupID,
		BookID:        book.ID,
		Status:        models.StatusSuggested,
		SuggestedByID: &userID,
	}
	if err := s.groupBookRepo.Create(groupBook); err != nil {
		return nil, err
	}

	s.suggestionCache.Invalidate(groupID)

	return s.groupBookRepo.FindByID(groupBook.ID)
}

// ListSuggestions returns the group's SUGGESTED books with vote counts.
func (s *SuggestionService) ListSuggestions(groupID, userID uint) ([]models.GroupBookResponse, error) {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}

	if cached, ok := s.suggestionCache.Get(groupID); ok {
		return cached, nil
	}

	rows, err := s.groupBookRepo.ListSuggestionsWithVotes(groupID)
	if err != nil {
		return nil, err
	}

	responses := make([]models.GroupBookResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, row.GroupBook.ToResponse(row.VoteCount))
	}

	s.suggestionCache.Set(groupID, responses)

	return responses, nil
}

// resolveBook finds or creates the canonical book record for the payload.
func (s *SuggestionService) resolveBook(ctx context.Context, input BookInput) (*models.Book, error) {
	if book, err := s.bookRepo.FindByGoogleVolumeID(input.GoogleVolumeID); err == nil {
		return book, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	isbn := validation.NormalizeISBN(input.ISBN13)
	if validation.ValidateISBN13(isbn) {
		if book, err := s.bookRepo.FindByISBN13(isbn); err == nil {
			return book, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	book := &models.Book{
		GoogleVolumeID: &input.GoogleVolumeID,
		Title:          input.Title,
		Author:         input.Author,
		Description:    input.Description,
		CoverURL:       input.CoverURL,
		PageCount:      input.PageCount,
		PublishedDate:  input.PublishedDate,
	}
	if validation.ValidateISBN13(isbn) {
		book.ISBN13 = &isbn
	}
	if len(input.Categories) > 0 {
		if data, err := json.Marshal(input.Categories); err == nil {
			book.Categories = data
		}
	}

	// Catalog enrichment is best-effort; a catalog outage never blocks the
	// suggestion itself.
	s.enrichFromCatalog(ctx, book)

	if err := s.bookRepo.Create(book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *SuggestionService) enrichFromCatalog(ctx context.Context, book *models.Book) {
	if s.catalog == nil || book.GoogleVolumeID == nil {
		return
	}
	volume, err := s.catalog.Lookup(ctx, *book.GoogleVolumeID)
	if err != nil {
		log.Printf("catalog lookup failed for volume %s: %v", *book.GoogleVolumeID, err)
		return
	}

	if book.Description == "" {
		book.Description = volume.Description
	}
	if book.CoverURL == "" {
		book.CoverURL = volume.CoverURL
	}
	if book.PageCount == 0 {
		book.PageCount = volume.PageCount
	}
	if book.PublishedDate == "" {
		book.PublishedDate = volume.PublishedDate
	}
	if book.ISBN13 == nil && validation.ValidateISBN13(volume.ISBN13) {
		isbn := validation.NormalizeISBN(volume.ISBN13)
		book.ISBN13 = &isbn
	}
	if book.Categories == nil && len(volume.Categories) > 0 {
		if data, err := json.Marshal(volume.Categories); err == nil {
			book.Categories = data
		}
	}
}
