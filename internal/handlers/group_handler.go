package handlers

import (
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/chaigneaudoryan/shelfy-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (h *GroupHandler) CreateGroup(c *fiber.Ctx) error {
	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_error", "Group name is required")
	}

	userID := c.Locals("userID").(uint)
	group, err := h.groupService.CreateGroup(req.Name, req.Description, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

func (h *GroupHandler) GetMyGroups(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	groups, err := h.groupService.GetUserGroups(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(groups)
}

func (h *GroupHandler) GetGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	group, err := h.groupService.GetGroup(groupID, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(group)
}

func (h *GroupHandler) GetGroupMembers(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	members, err := h.groupService.GetGroupMembers(groupID, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(members)
}

func (h *GroupHandler) LeaveGroup(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	if err := h.groupService.LeaveGroup(groupID, userID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Left group successfully"})
}

type CreateInviteLinkRequest struct {
	SingleUse bool   `json:"single_use"`
	ExpiresAt string `json:"expires_at"`
}

func (h *GroupHandler) CreateInviteLink(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	var req CreateInviteLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return httpx.BadRequest(c, "invalid_expires_at", "expires_at must be an ISO 8601 timestamp")
		}
		expiresAt = &parsed
	}

	userID := c.Locals("userID").(uint)
	link, err := h.groupService.CreateInviteLink(groupID, userID, req.SingleUse, expiresAt)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(link)
}

func (h *GroupHandler) JoinByInviteLink(c *fiber.Ctx) error {
	token := c.Params("token")
	userID := c.Locals("userID").(uint)

	group, err := h.groupService.JoinGroupByInvite(token, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(group)
}

func (h *GroupHandler) GetInvitePreview(c *fiber.Ctx) error {
	token := c.Params("token")

	link, group, err := h.groupService.GetInvitePreview(token)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"group":      group,
		"expires_at": link.ExpiresAt,
	})
}
