package handlers

import (
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"github.com/chaigneaudoryan/shelfy-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type ReadingHandler struct {
	readingService *service.ReadingService
}

func NewReadingHandler(readingService *service.ReadingService) *ReadingHandler {
	return &ReadingHandler{readingService: readingService}
}

type SetCurrentReadingRequest struct {
	ReadingEndDate string `json:"readingEndDate"`
}

// SetCurrentReading promotes the winner of a closed poll to CURRENT.
func (h *ReadingHandler) SetCurrentReading(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	pollID, err := paramUint(c, "pollId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_poll_id", "Invalid poll ID")
	}

	var req SetCurrentReadingRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	var readingEndDate *time.Time
	if req.ReadingEndDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.ReadingEndDate)
		if err != nil {
			return httpx.BadRequest(c, "invalid_end_date", "readingEndDate must be an ISO 8601 timestamp")
		}
		readingEndDate = &parsed
	}

	userID := c.Locals("userID").(uint)
	if err := h.readingService.PromoteWinner(groupID, userID, pollID, readingEndDate); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Current reading updated"})
}

func (h *ReadingHandler) ListGroupBooks(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	var status *models.GroupBookStatus
	if raw := c.Query("status"); raw != "" {
		s := models.GroupBookStatus(raw)
		switch s {
		case models.StatusSuggested, models.StatusCurrent, models.StatusFinished, models.StatusArchived:
			status = &s
		default:
			return httpx.BadRequest(c, "invalid_status", "Unknown status filter")
		}
	}

	userID := c.Locals("userID").(uint)
	books, err := h.readingService.ListGroupBooks(groupID, userID, status)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(books)
}

func (h *ReadingHandler) GetCurrentBook(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	current, err := h.readingService.CurrentBook(groupID, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(current)
}
