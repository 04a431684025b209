package handlers

import (
	"strconv"
	"strings"

	"github.com/chaigneaudoryan/shelfy-backend/internal/catalog"
	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	client catalog.Client
}

func NewCatalogHandler(client catalog.Client) *CatalogHandler {
	return &CatalogHandler{client: client}
}

// SearchBooks proxies catalog search so the frontend never talks to
// the upstream API directly.
func (h *CatalogHandler) SearchBooks(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return httpx.BadRequest(c, "missing_query", "Query parameter q is required")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit <= 0 || limit > 40 {
		limit = 10
	}

	volumes, err := h.client.Search(c.Context(), query, limit)
	if err != nil {
		return httpx.Error(c, fiber.StatusBadGateway, "catalog_unavailable", "Book catalog is unavailable")
	}
	return c.JSON(fiber.Map{"results": volumes})
}

// GetVolume returns catalog metadata for a single volume.
func (h *CatalogHandler) GetVolume(c *fiber.Ctx) error {
	volumeID := strings.TrimSpace(c.Params("volumeId"))
	if volumeID == "" {
		return httpx.BadRequest(c, "missing_volume_id", "Volume id is required")
	}

	volume, err := h.client.Lookup(c.Context(), volumeID)
	if err != nil {
		if err == catalog.ErrNotFound {
			return httpx.NotFound(c, "volume_not_found", "Volume not found")
		}
		return httpx.Error(c, fiber.StatusBadGateway, "catalog_unavailable", "Book catalog is unavailable")
	}
	return c.JSON(volume)
}
