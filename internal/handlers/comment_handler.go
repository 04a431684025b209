package handlers

import (
	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/chaigneaudoryan/shelfy-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type AddCommentRequest struct {
	PageNumber int    `json:"pageNumber" validate:"required,gte=1"`
	Content    string `json:"content" validate:"required"`
}

func (h *CommentHandler) AddComment(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	groupBookID, err := paramUint(c, "groupBookId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_book_id", "Invalid group book ID")
	}

	var req AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httpx.BadRequest(c, "validation_error", "pageNumber (positive) and content are required")
	}

	userID := c.Locals("userID").(uint)
	comment, err := h.commentService.AddComment(groupID, userID, groupBookID, req.PageNumber, req.Content)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment.ToResponse())
}

func (h *CommentHandler) ListComments(c *fiber.Ctx) error {
	groupID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_id", "Invalid group ID")
	}
	groupBookID, err := paramUint(c, "groupBookId")
	if err != nil {
		return httpx.BadRequest(c, "invalid_group_book_id", "Invalid group book ID")
	}

	userID := c.Locals("userID").(uint)
	comments, err := h.commentService.ListComments(groupID, userID, groupBookID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"comments": comments})
}
