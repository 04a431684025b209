package handlers

import (
	"os"
	"strings"

	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/chaigneaudoryan/shelfy-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type AvatarHandler struct {
	avatarService *service.AvatarService
}

func NewAvatarHandler(avatarService *service.AvatarService) *AvatarHandler {
	return &AvatarHandler{avatarService: avatarService}
}

func (h *AvatarHandler) UploadMyAvatar(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return httpx.BadRequest(c, "missing_file", "Avatar file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return httpx.BadRequest(c, "invalid_file", "Could not read uploaded file")
	}
	defer file.Close()

	user, err := h.avatarService.UploadAvatar(c.Context(), userID, file, publicAPIBaseURL(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user.ToResponse())
}

func (h *AvatarHandler) DeleteMyAvatar(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	user, err := h.avatarService.DeleteAvatar(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user.ToResponse())
}

func publicAPIBaseURL(c *fiber.Ctx) string {
	if v := strings.TrimSpace(os.Getenv("PUBLIC_API_BASE_URL")); v != "" {
		return v
	}
	return c.Protocol() + "://" + c.Hostname()
}
