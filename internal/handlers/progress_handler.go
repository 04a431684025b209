package handlers

import (
	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/chaigneaudoryan/shelfy-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

type UpdateProgressRequest struct {
	CurrentPage *int `json:"currentPage" validate:"required"`
}

func (h *ProgressHandler) UpdateProgress(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	groupBookID, err := paramUint(c, "groupBookId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_book_id", "Invalid group book ID")
	}

	var req UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.CurrentPage == nil {
		return httpx.BadRequest(c, "validation_error", "currentPage is required")
	}

	userID := c.Locals("userID").(uint)
	progress, err := h.progressService.UpdateProgress(groupID, userID, groupBookID, *req.CurrentPage)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(progress)
}

type SetRatingRequest struct {
	Rating *float64 `json:"rating" validate:"required"`
}

func (h *ProgressHandler) SetRating(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	groupBookID, err := paramUint(c, "groupBookId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_book_id", "Invalid group book ID")
	}

	var req SetRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if req.Rating == nil {
		return httpx.BadRequest(c, "validation_error", "rating is required")
	}

	userID := c.Locals("userID").(uint)
	progress, err := h.progressService.SetRating(groupID, userID, groupBookID, *req.Rating)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(progress)
}

func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	groupBookID, err := paramUint(c, "groupBookId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_book_id", "Invalid group book ID")
	}

	userID := c.Locals("userID").(uint)
	progress, err := h.progressService.GetProgress(groupID, userID, groupBookID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(progress)
}
