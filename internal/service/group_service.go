package service

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"github.com/chaigneaudoryan/shelfy-backend/internal/repository"
)

type GroupService struct {
	groupRepo  repository.GroupRepositoryInterface
	inviteRepo repository.GroupInviteRepositoryInterface
}

func NewGroupService(
	groupRepo repository.GroupRepositoryInterface,
	inviteRepo repository.GroupInviteRepositoryInterface,
) *GroupService {
	return &GroupService{
		groupRepo:  groupRepo,
		inviteRepo: inviteRepo,
	}
}

func (s *GroupService) CreateGroup(name, description string, creatorID uint) (*models.Group, error) {
	group := &models.Group{
		Name:        name,
		Description: description,
		CreatorID:   creatorID,
	}

	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}

	// Creator starts as admin.
	if err := s.groupRepo.AddMember(group.ID, creatorID, models.RoleAdmin); err != nil {
		return nil, err
	}

	return s.groupRepo.FindByID(group.ID)
}

func (s *GroupService) GetGroup(groupID, userID uint) (*models.Group, error) {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}
	return s.groupRepo.FindByID(groupID)
}

func (s *GroupService) GetUserGroups(userID uint) ([]models.Group, error) {
	return s.groupRepo.GetUserGroups(userID)
}

func (s *GroupService) GetGroupMembers(groupID, userID uint) ([]models.GroupMember, error) {
	isMember, err := s.groupRepo.IsMember(groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}
	return s.groupRepo.GetMembers(groupID)
}

func (s *GroupService) LeaveGroup(groupID, userID uint) error {
	return s.groupRepo.RemoveMember(groupID, userID)
}

func (s *GroupService) IsMember(groupID, userID uint) (bool, error) {
	return s.groupRepo.IsMember(groupID, userID)
}

func (s *GroupService) IsAdmin(groupID, userID uint) (bool, error) {
	role, err := s.groupRepo.GetMemberRole(groupID, userID)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

func (s *GroupService) CreateInviteLink(groupID, creatorID uint, singleUse bool, expiresAt *time.Time) (*models.GroupInviteLink, error) {
	// Only admins can create invite links
	isAdmin, err := s.IsAdmin(groupID, creatorID)
	if err != nil || !isAdmin {
		return nil, ErrForbidden
	}

	maxUses := (*int)(nil)
	if singleUse {
		v := 1
		maxUses = &v
	}

	link := &models.GroupInviteLink{
		GroupID:   groupID,
		Token:     generateInviteToken(),
		CreatedBy: creatorID,
		ExpiresAt: expiresAt,
		MaxUses:   maxUses,
		UsedCount: 0,
	}

	if err := s.inviteRepo.Create(link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *GroupService) JoinGroupByInvite(token string, userID uint) (*models.Group, error) {
	link, err := s.validInviteByToken(token)
	if err != nil {
		return nil, err
	}

	group, err := s.groupRepo.FindByID(link.GroupID)
	if err != nil {
		return nil, err
	}

	// Check if already a member
	isMember, err := s.groupRepo.IsMember(group.ID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		if err := s.groupRepo.AddMember(group.ID, userID, models.RoleMember); err != nil {
			return nil, err
		}
		if err := s.inviteRepo.IncrementUse(link.ID); err != nil {
			return nil, err
		}
	}
	return group, nil
}

func (s *GroupService) GetInvitePreview(token string) (*models.GroupInviteLink, *models.Group, error) {
	link, err := s.validInviteByToken(token)
	if err != nil {
		return nil, nil, err
	}

	group, err := s.groupRepo.FindByID(link.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return link, group, nil
}

func (s *GroupService) validInviteByToken(token string) (*models.GroupInviteLink, error) {
	link, err := s.inviteRepo.FindByToken(token)
	if err != nil {
		return nil, ErrNotFound
	}
	if link.RevokedAt != nil {
		return nil, NewValidationError("invite link revoked")
	}
	if link.ExpiresAt != nil && time.Now().After(*link.ExpiresAt) {
		return nil, NewValidationError("invite link expired")
	}
	if link.MaxUses != nil && link.UsedCount >= *link.MaxUses {
		return nil, NewValidationError("invite link exhausted")
	}
	return link, nil
}

func generateInviteToken() string {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().String()))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
