package handlers

import (
	"strconv"

	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/chaigneaudoryan/shelfy-backend/internal/models"
	"github.com/chaigneaudoryan/shelfy-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetCurrentUser(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		return httpx.NotFound(c, "user_not_found", "User not found")
	}
	return c.JSON(user.ToResponse())
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(userID, input)
	if err != nil {
		return httpx.BadRequest(c, "update_failed", err.Error())
	}
	return c.JSON(user.ToResponse())
}

func (h *UserHandler) CheckUsername(c *fiber.Ctx) error {
	username := c.Query("username")
	available, err := h.userService.IsUsernameAvailable(username)
	if err != nil {
		return httpx.BadRequest(c, "invalid_username", err.Error())
	}
	return c.JSON(fiber.Map{"available": available})
}

func (h *UserHandler) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	users, err := h.userService.SearchUsers(query, limit)
	if err != nil {
		return httpx.Internal(c, "search_failed")
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	return c.JSON(fiber.Map{"users": responses})
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_id", "Invalid user id")
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		return httpx.NotFound(c, "user_not_found", "User not found")
	}
	return c.JSON(user.ToResponse())
}
