package handlers

import (
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/chaigneaudoryan/shelfy-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type PollHandler struct {
	pollService *service.PollService
}

func NewPollHandler(pollService *service.PollService) *PollHandler {
	return &PollHandler{pollService: pollService}
}

type CreatePollRequest struct {
	GroupBookIDs []uint `json:"groupBookIds" validate:"required,min=2"`
	EndDate      string `json:"endDate" validate:"required"`
}

func (h *PollHandler) CreatePoll(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	var req CreatePollRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_error", "A poll needs at least two books and an end date")
	}

	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return httpx.BadRequest(c, "invalid_end_date", "endDate must be an ISO 8601 timestamp")
	}

	userID := c.Locals("userID").(uint)
	poll, err := h.pollService.CreatePoll(groupID, userID, req.GroupBookIDs, endDate)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(poll)
}

func (h *PollHandler) ListPolls(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	polls, err := h.pollService.ListPolls(groupID, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(polls)
}

func (h *PollHandler) GetPoll(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	pollID, err := paramUint(c, "pollId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_poll_id", "Invalid poll ID")
	}

	userID := c.Locals("userID").(uint)
	poll, err := h.pollService.GetPoll(groupID, userID, pollID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(poll)
}

type VoteRequest struct {
	PollOptionID uint `json:"pollOptionId" validate:"required"`
}

func (h *PollHandler) Vote(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	pollID, err := paramUint(c, "pollId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_poll_id", "Invalid poll ID")
	}

	var req VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_error", "pollOptionId is required")
	}

	userID := c.Locals("userID").(uint)
	if err := h.pollService.Vote(groupID, userID, pollID, req.PollOptionID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Vote recorded"})
}
