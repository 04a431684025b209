package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/chaigneaudoryan/shelfy-backend/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// serviceError maps business-rule failures onto the HTTP error taxonomy.
// Anything unrecognized is logged and surfaced as a bare 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAheadOfProgress):
		return httpx.Forbidden(c, "ahead_of_progress", err.Error())
	case errors.Is(err, service.ErrForbidden):
		return httpx.Forbidden(c, "forbidden", "You do not have permission to do that")
	case errors.Is(err, service.ErrNotFound):
		return httpx.NotFound(c, "not_found", "Resource not found")
	case errors.Is(err, service.ErrQuotaExceeded):
		return httpx.BadRequest(c, "quota_exceeded", err.Error())
	case errors.Is(err, service.ErrAlreadyVoted):
		return httpx.Conflict(c, "already_voted", err.Error())
	case errors.Is(err, service.ErrPollNotClosed):
		return httpx.BadRequest(c, "poll_not_closed", err.Error())
	case errors.Is(err, service.ErrTieOrNoVotes):
		return httpx.BadRequest(c, "tie_or_no_votes", err.Error())
	case errors.Is(err, service.ErrStorageNotConfigured):
		return httpx.Error(c, fiber.StatusServiceUnavailable, "storage_unavailable", "Storage is not configured")
	case service.IsValidationError(err):
		return httpx.BadRequest(c, "validation_error", err.Error())
	default:
		log.Printf("unhandled service error: %v", err)
		return httpx.Internal(c, "internal_error")
	}
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
