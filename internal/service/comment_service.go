package service

import (
	"errors"

	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"github.com/chaigneaudoryan/shelfy-backend/internal/repository"
	"github.com/chaigneaudoryan/shelfy-backend/internal/validation"
	"gorm.io/gorm"
)

type CommentService struct {
	groupRepo     repository.GroupRepositoryInterface
	groupBookRepo repository.GroupBookRepositoryInterface
	progressRepo  repository.ProgressRepositoryInterface
	commentRepo   repository.CommentRepositoryInterface
	userRepo      repository.UserRepositoryInterface
}

func NewCommentService(
	groupRepo repository.GroupRepositoryInterface,
	groupBookRepo repository.GroupBookRepositoryInterface,
	progressRepo repository.ProgressRepositoryInterface,
	commentRepo repository.CommentRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
) *CommentService {
	return &CommentService{
		groupRepo:     groupRepo,
		groupBookRepo: groupBookRepo,
		progressRepo:  progressRepo,
		commentRepo:   commentRepo,
		userRepo:      userRepo,
	}
}

// AddComment posts a page-anchored comment. The page must not sit past the
// author's own recorded progress; that gate applies only at write time and
// only against the author.
func (s *CommentService) AddComment(groupID, userID, groupBookID uint, pageNumber int, content string) (*models.BookComment, error) {
	content = validation.TrimAndLimit(content, validation.MaxCommentLength())
	if content == "" {
		return nil, NewValidationError("comment content is required")
	}
	if pageNumber < 1 {
		return nil, NewValidationError("page number must be a positive integer")
	}

	if err := s.checkMemberAndBook(groupID, userID, groupBookID); err != nil {
		return nil, err
	}

	currentPage := 0
	progress, err := s.progressRepo.Get(groupBookID, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else {
		currentPage = progress.CurrentPage
	}
	if pageNumber > currentPage {
		return nil, ErrAheadOfProgress
	}

	comment := &models.BookComment{
		GroupBookID: groupBookID,
		UserID:      userID,
		PageNumber:  pageNumber,
		Content:     content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	if author, err := s.userRepo.FindByID(userID); err == nil {
		comment.User = *author
	}

	return comment, nil
}

// ListComments returns every comment for the book ordered by page, then time.
// The core never filters on read; spoiler blurring is a display concern.
func (s *CommentService) ListComments(groupID, userID, groupBookID uint) ([]models.BookCommentResponse, error) {
	if err := s.checkMemberAndBook(groupID, userID, groupBookID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByGroupBook(groupBookID)
	if err != nil {
		return nil, err
	}

	responses := make([]models.BookCommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, comments[i].ToResponse())
	}
	return responses, nil
}

func (s *CommentService) checkMemberAndBook(groupID, userID, groupBookID uint) error {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrForbidden
	}

	groupBook, err := s.groupBookRepo.FindByID(groupBookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if groupBook.GroupID != groupID {
		return ErrNotFound
	}
	return nil
}
