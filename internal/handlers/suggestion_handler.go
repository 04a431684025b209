package handlers

import (
	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/chaigneaudoryan/shelfy-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type SuggestionHandler struct {
	suggestionService *service.SuggestionService
}

func NewSuggestionHandler(suggestionService *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

type SuggestBookRequest struct {
	BookData service.BookInput `json:"bookData"`
}

func (h *SuggestionHandler) SuggestBook(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	var req SuggestBookRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req.BookData); err != nil {
		return httpx.BadRequest(c, "validation_error", "title, author and google_volume_id are required")
	}

	userID := c.Locals("userID").(uint)
	groupBook, err := h.suggestionService.SuggestBook(c.Context(), groupID, userID, req.BookData)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(groupBook)
}

func (h *SuggestionHandler) ListSuggestions(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}

	userID := c.Locals("userID").(uint)
	suggestions, err := h.suggestionService.ListSuggestions(groupID, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(suggestions)
}
