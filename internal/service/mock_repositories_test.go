package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"github.com/chaigneaudoryan/shelfy-backend/internal/repository"
	"gorm.io/gorm"
)

// MockGroupRepository is an in-memory GroupRepositoryInterface for tests
type MockGroupRepository struct {
	groups  map[uint]*models.Group
	members map[uint]map[uint]models.GroupRole
	nextID  uint
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups:  make(map[uint]*models.Group),
		members: make(map[uint]map[uint]models.GroupRole),
		nextID:  1,
	}
}

func (m *MockGroupRepository) Create(group *models.Group) error {
	if group.ID == 0 {
		group.ID = m.nextID
		m.nextID++
	}
	m.groups[group.ID] = group
	return nil
}

func (m *MockGroupRepository) FindByID(id uint) (*models.Group, error) {
	if group, ok := m.groups[id]; ok {
		return group, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockGroupRepository) AddMember(groupID, userID uint, role models.GroupRole) error {
	if m.members[groupID] == nil {
		m.members[groupID] = make(map[uint]models.GroupRole)
	}
	m.members[groupID][userID] = role
	return nil
}

func (m *MockGroupRepository) RemoveMember(groupID, userID uint) error {
	delete(m.members[groupID], userID)
	return nil
}

func (m *MockGroupRepository) GetMembers(groupID uint) ([]models.GroupMember, error) {
	var result []models.GroupMember
	for userID, role := range m.members[groupID] {
		result = append(result, models.GroupMember{GroupID: groupID, UserID: userID, Role: role})
	}
	return result, nil
}

func (m *MockGroupRepository) IsMember(groupID, userID uint) (bool, error) {
	_, ok := m.members[groupID][userID]
	return ok, nil
}

func (m *MockGroupRepository) GetMemberRole(groupID, userID uint) (models.GroupRole, error) {
	if role, ok := m.members[groupID][userID]; ok {
		return role, nil
	}
	return "", gorm.ErrRecordNotFound
}

func (m *MockGroupRepository) GetUserGroups(userID uint) ([]models.Group, error) {
	var result []models.Group
	for groupID, members := range m.members {
		if _, ok := members[userID]; ok {
			if group, found := m.groups[groupID]; found {
				result = append(result, *group)
			}
		}
	}
	return result, nil
}

// MockGroupBookRepository is an in-memory GroupBookRepositoryInterface. Its
// PromoteWinner mirrors the real transaction's status arithmetic so lifecycle
// tests can assert the end state.
type MockGroupBookRepository struct {
	groupBooks map[uint]*models.GroupBook
	nextID     uint
}

func NewMockGroupBookRepository() *MockGroupBookRepository {
	return &MockGroupBookRepository{
		groupBooks: make(map[uint]*models.GroupBook),
		nextID:     1,
	}
}

func (m *MockGroupBookRepository) Create(groupBook *models.GroupBook) error {
	if groupBook.ID == 0 {
		groupBook.ID = m.nextID
		m.nextID++
	}
	m.groupBooks[groupBook.ID] = groupBook
	return nil
}

func (m *MockGroupBookRepository) FindByID(id uint) (*models.GroupBook, error) {
	if gb, ok := m.groupBooks[id]; ok {
		return gb, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockGroupBookRepository) FindByIDs(ids []uint) ([]models.GroupBook, error) {
	var result []models.GroupBook
	for _, id := range ids {
		if gb, ok := m.groupBooks[id]; ok {
			result = append(result, *gb)
		}
	}
	return result, nil
}

func (m *MockGroupBookRepository) ListByGroup(groupID uint, status *models.GroupBookStatus) ([]models.GroupBook, error) {
	var result []models.GroupBook
	for _, gb := range m.groupBooks {
		if gb.GroupID != groupID {
			continue
		}
		if status != nil && gb.Status != *status {
			continue
		}
		result = append(result, *gb)
	}
	return result, nil
}

func (m *MockGroupBookRepository) ListSuggestionsWithVotes(groupID uint) ([]repository.SuggestionRow, error) {
	var result []repository.SuggestionRow
	for _, gb := range m.groupBooks {
		if gb.GroupID == groupID && gb.Status == models.StatusSuggested {
			result = append(result, repository.SuggestionRow{GroupBook: *gb})
		}
	}
	return result, nil
}

func (m *MockGroupBookRepository) CountSuggestedBy(groupID, userID uint) (int64, error) {
	var count int64
	for _, gb := range m.groupBooks {
		if gb.GroupID == groupID && gb.Status == models.StatusSuggested &&
			gb.SuggestedByID != nil && *gb.SuggestedByID == userID {
			count++
		}
	}
	return count, nil
}

func (m *MockGroupBookRepository) FindCurrent(groupID uint) (*models.GroupBook, error) {
	for _, gb := range m.groupBooks {
		if gb.GroupID == groupID && gb.Status == models.StatusCurrent {
			return gb, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockGroupBookRepository) PromoteWinner(groupID, winnerID uint, loserIDs []uint, readingEndDate *time.Time) error {
	for _, gb := range m.groupBooks {
		if gb.GroupID == groupID && gb.Status == models.StatusCurrent && gb.ID != winnerID {
			gb.Status = models.StatusFinished
		}
	}

	winner, ok := m.groupBooks[winnerID]
	if !ok || winner.GroupID != groupID {
		return gorm.ErrRecordNotFound
	}
	winner.Status = models.StatusCurrent
	winner.ReadingEndDate = readingEndDate

	for _, id := range loserIDs {
		if gb, found := m.groupBooks[id]; found && gb.GroupID == groupID && gb.Status == models.StatusSuggested {
			gb.Status = models.StatusArchived
		}
	}
	return nil
}

// MockPollRepository is an in-memory PollRepositoryInterface. CreateVote
// enforces the (poll_id, user_id) unique index the way postgres would.
type MockPollRepository struct {
	polls      map[uint]*models.Poll
	nextPollID uint
	nextOptID  uint
	nextVoteID uint
}

func NewMockPollRepository() *MockPollRepository {
	return &MockPollRepository{
		polls:      make(map[uint]*models.Poll),
		nextPollID: 1,
		nextOptID:  1,
		nextVoteID: 1,
	}
}

func (m *MockPollRepository) Create(poll *models.Poll) error {
	if poll.ID == 0 {
		poll.ID = m.nextPollID
		m.nextPollID++
	}
	for i := range poll.Options {
		if poll.Options[i].ID == 0 {
			poll.Options[i].ID = m.nextOptID
			m.nextOptID++
		}
		poll.Options[i].PollID = poll.ID
	}
	m.polls[poll.ID] = poll
	return nil
}

func (m *MockPollRepository) FindByID(id uint) (*models.Poll, error) {
	if poll, ok := m.polls[id]; ok {
		return poll, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockPollRepository) ListByGroup(groupID uint) ([]models.Poll, error) {
	var result []models.Poll
	for _, poll := range m.polls {
		if poll.GroupID == groupID {
			result = append(result, *poll)
		}
	}
	return result, nil
}

func (m *MockPollRepository) CreateVote(vote *models.Vote) error {
	poll, ok := m.polls[vote.PollID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range poll.Options {
		for _, v := range poll.Options[i].Votes {
			if v.UserID == vote.UserID {
				return fmt.Errorf("duplicate key value violates unique constraint %q", "idx_votes_poll_user")
			}
		}
	}
	for i := range poll.Options {
		if poll.Options[i].ID == vote.PollOptionID {
			vote.ID = m.nextVoteID
			m.nextVoteID++
			poll.Options[i].Votes = append(poll.Options[i].Votes, *vote)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// MockBookRepository is an in-memory BookRepositoryInterface
type MockBookRepository struct {
	books  map[uint]*models.Book
	nextID uint
}

func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{
		books:  make(map[uint]*models.Book),
		nextID: 1,
	}
}

func (m *MockBookRepository) Create(book *models.Book) error {
	if book.ID == 0 {
		book.ID = m.nextID
		m.nextID++
	}
	m.books[book.ID] = book
	return nil
}

func (m *MockBookRepository) FindByID(id uint) (*models.Book, error) {
	if book, ok := m.books[id]; ok {
		return book, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockBookRepository) FindByGoogleVolumeID(volumeID string) (*models.Book, error) {
	for _, book := range m.books {
		if book.GoogleVolumeID != nil && *book.GoogleVolumeID == volumeID {
			return book, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockBookRepository) FindByISBN13(isbn string) (*models.Book, error) {
	for _, book := range m.books {
		if book.ISBN13 != nil && *book.ISBN13 == isbn {
			return book, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// MockProgressRepository is an in-memory ProgressRepositoryInterface
type MockProgressRepository struct {
	rows map[string]*models.ReadingProgress
}

func NewMockProgressRepository() *MockProgressRepository {
	return &MockProgressRepository{rows: make(map[string]*models.ReadingProgress)}
}

func progressKey(groupBookID, userID uint) string {
	return fmt.Sprintf("%d:%d", groupBookID, userID)
}

func (m *MockProgressRepository) UpsertPage(groupID, groupBookID, userID uint, currentPage int) error {
	key := progressKey(groupBookID, userID)
	if row, ok := m.rows[key]; ok {
		row.CurrentPage = currentPage
		return nil
	}
	m.rows[key] = &models.ReadingProgress{
		GroupBookID: groupBookID,
		UserID:      userID,
		GroupID:     groupID,
		CurrentPage: currentPage,
	}
	return nil
}

func (m *MockProgressRepository) UpsertRating(groupID, groupBookID, userID uint, rating float64) error {
	key := progressKey(groupBookID, userID)
	if row, ok := m.rows[key]; ok {
		row.Rating = &rating
		return nil
	}
	m.rows[key] = &models.ReadingProgress{
		GroupBookID: groupBookID,
		UserID:      userID,
		GroupID:     groupID,
		Rating:      &rating,
	}
	return nil
}

func (m *MockProgressRepository) Get(groupBookID, userID uint) (*models.ReadingProgress, error) {
	if row, ok := m.rows[progressKey(groupBookID, userID)]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockProgressRepository) ListByGroupBook(groupBookID uint) ([]models.ReadingProgress, error) {
	var result []models.ReadingProgress
	for _, row := range m.rows {
		if row.GroupBookID == groupBookID {
			result = append(result, *row)
		}
	}
	return result, nil
}

// MockCommentRepository is an in-memory CommentRepositoryInterface
type MockCommentRepository struct {
	comments []*models.BookComment
	nextID   uint
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{nextID: 1}
}

func (m *MockCommentRepository) Create(comment *models.BookComment) error {
	if comment.ID == 0 {
		comment.ID = m.nextID
		m.nextID++
	}
	m.comments = append(m.comments, comment)
	return nil
}

func (m *MockCommentRepository) ListByGroupBook(groupBookID uint) ([]models.BookComment, error) {
	var result []models.BookComment
	for _, c := range m.comments {
		if c.GroupBookID == groupBookID {
			result = append(result, *c)
		}
	}
	return result, nil
}

// MockInviteRepository is an in-memory GroupInviteRepositoryInterface
type MockInviteRepository struct {
	links  map[uint]*models.GroupInviteLink
	nextID uint
}

func NewMockInviteRepository() *MockInviteRepository {
	return &MockInviteRepository{
		links:  make(map[uint]*models.GroupInviteLink),
		nextID: 1,
	}
}

func (m *MockInviteRepository) Create(link *models.GroupInviteLink) error {
	if link.ID == 0 {
		link.ID = m.nextID
		m.nextID++
	}
	m.links[link.ID] = link
	return nil
}

func (m *MockInviteRepository) FindByToken(token string) (*models.GroupInviteLink, error) {
	for _, link := range m.links {
		if link.Token == token {
			return link, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockInviteRepository) IncrementUse(id uint) error {
	if link, ok := m.links[id]; ok {
		link.UsedCount++
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *MockInviteRepository) Revoke(id uint, revokedAt time.Time) error {
	if link, ok := m.links[id]; ok {
		link.RevokedAt = &revokedAt
		return nil
	}
	return gorm.ErrRecordNotFound
}

// MockRefreshTokenRepository is an in-memory RefreshTokenRepositoryInterface
type MockRefreshTokenRepository struct {
	tokens map[string]*models.RefreshToken
	nextID uint
}

func NewMockRefreshTokenRepository() *MockRefreshTokenRepository {
	return &MockRefreshTokenRepository{
		tokens: make(map[string]*models.RefreshToken),
		nextID: 1,
	}
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	if token.ID == 0 {
		token.ID = m.nextID
		m.nextID++
	}
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *MockRefreshTokenRepository) FindValidByHash(tokenHash string) (*models.RefreshToken, error) {
	token, ok := m.tokens[tokenHash]
	if !ok || token.IsRevoked() || time.Now().After(token.ExpiresAt) {
		return nil, errors.New("record not found")
	}
	return token, nil
}

func (m *MockRefreshTokenRepository) RevokeByHash(tokenHash string) error {
	if token, ok := m.tokens[tokenHash]; ok {
		now := time.Now()
		token.RevokedAt = &now
	}
	return nil
}
