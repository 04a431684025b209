package handlers

import (
	"strings"

	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/chaigneaudoryan/shelfy-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

type MediaHandler struct {
	s3 *storage.S3Storage
}

func NewMediaHandler(s3 *storage.S3Storage) *MediaHandler {
	return &MediaHandler{s3: s3}
}

// ServeMedia streams a stored object. Only avatar keys are reachable.
func (h *MediaHandler) ServeMedia(c *fiber.Ctx) error {
	if h.s3 == nil {
		return httpx.Error(c, fiber.StatusServiceUnavailable, "storage_unavailable", "Media storage is not configured")
	}

	key, err := storage.SafeJoinMediaPath("", c.Params("*"))
	if err != nil {
		return httpx.BadRequest(c, "invalid_key", "Invalid media key")
	}
	if !strings.HasPrefix(key, "avatars/") {
		return httpx.NotFound(c, "not_found", "Media not found")
	}

	obj, stat, err := h.s3.GetObject(c.Context(), key)
	if err != nil {
		return httpx.NotFound(c, "not_found", "Media not found")
	}

	if stat.ContentType != "" {
		c.Set(fiber.HeaderContentType, stat.ContentType)
	}
	if stat.ETag != "" {
		c.Set(fiber.HeaderETag, `"`+stat.ETag+`"`)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")

	return c.SendStream(obj)
}
