package service

import (
	"errors"
	"testing"
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
)

func newGroupFixture() (*GroupService, *MockGroupRepository, *MockInviteRepository) {
	groupRepo := NewMockGroupRepository()
	inviteRepo := NewMockInviteRepository()
	return NewGroupService(groupRepo, inviteRepo), groupRepo, inviteRepo
}

func TestCreateGroup(t *testing.T) {
	svc, groupRepo, _ := newGroupFixture()

	group, err := svc.CreateGroup("Sci-fi circle", "One book a month", 7)
	if err != nil {
		t.Fatalf("CreateGroup error = %v", err)
	}
	if group.Name != "Sci-fi circle" {
		t.Errorf("Name = %q, want Sci-fi circle", group.Name)
	}

	role, err := groupRepo.GetMemberRole(group.ID, 7)
	if err != nil {
		t.Fatalf("creator is not a member: %v", err)
	}
	if role != models.RoleAdmin {
		t.Errorf("creator role = %s, want admin", role)
	}
}

func TestGetGroupMembership(t *testing.T) {
	svc, _, _ := newGroupFixture()

	group, err := svc.CreateGroup("Sci-fi circle", "", 7)
	if err != nil {
		t.Fatalf("CreateGroup error = %v", err)
	}

	if _, err := svc.GetGroup(group.ID, 7); err != nil {
		t.Errorf("GetGroup for member error = %v", err)
	}
	if _, err := svc.GetGroup(group.ID, 99); !errors.Is(err, ErrForbidden) {
		t.Errorf("GetGroup for outsider error = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetGroupMembers(group.ID, 99); !errors.Is(err, ErrForbidden) {
		t.Errorf("GetGroupMembers for outsider error = %v, want ErrForbidden", err)
	}
}

func TestInviteLinkFlow(t *testing.T) {
	svc, groupRepo, _ := newGroupFixture()

	group, err := svc.CreateGroup("Sci-fi circle", "", 7)
	if err != nil {
		t.Fatalf("CreateGroup error = %v", err)
	}
	groupRepo.AddMember(group.ID, 8, models.RoleMember)

	// Only admins mint invites.
	if _, err := svc.CreateInviteLink(group.ID, 8, false, nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member CreateInviteLink error = %v, want ErrForbidden", err)
	}

	link, err := svc.CreateInviteLink(group.ID, 7, false, nil)
	if err != nil {
		t.Fatalf("CreateInviteLink error = %v", err)
	}
	if link.Token == "" {
		t.Fatal("invite token is empty")
	}

	joined, err := svc.JoinGroupByInvite(link.Token, 20)
	if err != nil {
		t.Fatalf("JoinGroupByInvite error = %v", err)
	}
	if joined.ID != group.ID {
		t.Errorf("joined group = %d, want %d", joined.ID, group.ID)
	}
	if isMember, _ := svc.IsMember(group.ID, 20); !isMember {
		t.Error("joined user is not a member")
	}

	// Joining twice is idempotent.
	if _, err := svc.JoinGroupByInvite(link.Token, 20); err != nil {
		t.Errorf("repeat join error = %v", err)
	}

	if _, err := svc.JoinGroupByInvite("no-such-token", 21); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown token error = %v, want ErrNotFound", err)
	}
}

func TestInviteLinkLimits(t *testing.T) {
	svc, _, inviteRepo := newGroupFixture()

	group, err := svc.CreateGroup("Sci-fi circle", "", 7)
	if err != nil {
		t.Fatalf("CreateGroup error = %v", err)
	}

	single, err := svc.CreateInviteLink(group.ID, 7, true, nil)
	if err != nil {
		t.Fatalf("CreateInviteLink error = %v", err)
	}
	if _, err := svc.JoinGroupByInvite(single.Token, 20); err != nil {
		t.Fatalf("first use error = %v", err)
	}
	if _, err := svc.JoinGroupByInvite(single.Token, 21); !IsValidationError(err) {
		t.Errorf("exhausted link error = %v, want validation error", err)
	}

	past := time.Now().Add(-time.Hour)
	expired, err := svc.CreateInviteLink(group.ID, 7, false, &past)
	if err != nil {
		t.Fatalf("CreateInviteLink error = %v", err)
	}
	if _, err := svc.JoinGroupByInvite(expired.Token, 22); !IsValidationError(err) {
		t.Errorf("expired link error = %v, want validation error", err)
	}

	revocable, err := svc.CreateInviteLink(group.ID, 7, false, nil)
	if err != nil {
		t.Fatalf("CreateInviteLink error = %v", err)
	}
	inviteRepo.Revoke(revocable.ID, time.Now())
	if _, err := svc.JoinGroupByInvite(revocable.Token, 23); !IsValidationError(err) {
		t.Errorf("revoked link error = %v, want validation error", err)
	}
}

func TestLeaveGroup(t *testing.T) {
	svc, groupRepo, _ := newGroupFixture()

	group, err := svc.CreateGroup("Sci-fi circle", "", 7)
	if err != nil {
		t.Fatalf("CreateGroup error = %v", err)
	}
	groupRepo.AddMember(group.ID, 8, models.RoleMember)

	if err := svc.LeaveGroup(group.ID, 8); err != nil {
		t.Fatalf("LeaveGroup error = %v", err)
	}
	if isMember, _ := svc.IsMember(group.ID, 8); isMember {
		t.Error("user still a member after leaving")
	}
}
