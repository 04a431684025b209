package repository

import (
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	Update(user *models.User) error
	SearchUsers(query string, limit int) ([]models.User, error)
}

// RefreshTokenRepositoryInterface defines the contract for refresh token repository operations
type RefreshTokenRepositoryInterface interface {
	Create(token *models.RefreshToken) error
	FindValidByHash(tokenHash string) (*models.RefreshToken, error)
	RevokeByHash(tokenHash string) error
}

// GroupRepositoryInterface defines the contract for group repository operations
type GroupRepositoryInterface interface {
	Create(group *models.Group) error
	FindByID(id uint) (*models.Group, error)
	AddMember(groupID, userID uint, role models.GroupRole) error
	RemoveMember(groupID, userID uint) error
	GetMembers(groupID uint) ([]models.GroupMember, error)
	IsMember(groupID, userID uint) (bool, error)
	GetMemberRole(groupID, userID uint) (models.GroupRole, error)
	GetUserGroups(userID uint) ([]models.Group, error)
}

// GroupInviteRepositoryInterface defines the contract for group invite link operations
type GroupInviteRepositoryInterface interface {
	Create(link *models.GroupInviteLink) error
	FindByToken(token string) (*models.GroupInviteLink, error)
	IncrementUse(id uint) error
	Revoke(id uint, revokedAt time.Time) error
}

// BookRepositoryInterface defines the contract for canonical book records
type BookRepositoryInterface interface {
	Create(book *models.Book) error
	FindByID(id uint) (*models.Book, error)
	FindByGoogleVolumeID(volumeID string) (*models.Book, error)
	FindByISBN13(isbn string) (*models.Book, error)
}

// GroupBookRepositoryInterface defines the contract for a book's lifecycle inside a group
type GroupBookRepositoryInterface interface {
	Create(groupBook *models.GroupBook) error
	FindByID(id uint) (*models.GroupBook, error)
	FindByIDs(ids []uint) ([]models.GroupBook, error)
	ListByGroup(groupID uint, status *models.GroupBookStatus) ([]models.GroupBook, error)
	ListSuggestionsWithVotes(groupID uint) ([]SuggestionRow, error)
	CountSuggestedBy(groupID, userID uint) (int64, error)
	FindCurrent(groupID uint) (*models.GroupBook, error)
	// PromoteWinner applies the whole reading-state transition in one
	// transaction: demote any CURRENT book to FINISHED, set the winner
	// CURRENT with the given end date, archive losers still SUGGESTED.
	PromoteWinner(groupID, winnerID uint, loserIDs []uint, readingEndDate *time.Time) error
}

// SuggestionRow pairs a suggested group book with its accumulated vote count.
type SuggestionRow struct {
	GroupBook models.GroupBook
	VoteCount int
}

// PollRepositoryInterface defines the contract for polls, options and votes
type PollRepositoryInterface interface {
	Create(poll *models.Poll) error
	FindByID(id uint) (*models.Poll, error)
	ListByGroup(groupID uint) ([]models.Poll, error)
	CreateVote(vote *models.Vote) error
}

// ProgressRepositoryInterface defines the contract for per-member reading progress
type ProgressRepositoryInterface interface {
	UpsertPage(groupID, groupBookID, userID uint, currentPage int) error
	UpsertRating(groupID, groupBookID, userID uint, rating float64) error
	Get(groupBookID, userID uint) (*models.ReadingProgress, error)
	ListByGroupBook(groupBookID uint) ([]models.ReadingProgress, error)
}

// CommentRepositoryInterface defines the contract for page-anchored comments
type CommentRepositoryInterface interface {
	Create(comment *models.BookComment) error
	ListByGroupBook(groupBookID uint) ([]models.BookComment, error)
}
