package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"strings"
	"time"

	"github.com/chaigneaudoryan/shelfy-backend/internal/httpx"
	"github.com/chaigneaudoryan/shelfy-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CSRF mints the double-submit token for cookie-authenticated browsers.
func (h *AuthHandler) CSRF(c *fiber.Ctx) error {
	token, err := randomToken()
	if err != nil {
		return httpx.Internal(c, "csrf_generation_failed")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "shelfy_csrf",
		Value:    token,
		Path:     "/",
		Secure:   cookieSecure(),
		HTTPOnly: false, // the SPA reads it to echo in X-Shelfy-CSRF
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"csrf": token})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	if input.Email == "" || input.Password == "" || input.Username == "" {
		return httpx.BadRequest(c, "missing_fields", "Email, username, and password are required")
	}

	result, err := h.authService.Register(input)
	if err != nil {
		return httpx.BadRequest(c, "registration_failed", err.Error())
	}

	h.setAuthCookies(c, result)
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	if input.Email == "" || input.Password == "" {
		return httpx.BadRequest(c, "missing_fields", "Email and password are required")
	}

	result, err := h.authService.Login(input)
	if err != nil {
		return httpx.Unauthorized(c, "invalid_credentials", err.Error())
	}

	h.setAuthCookies(c, result)
	return c.JSON(result)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies("shelfy_refresh")
	if refreshToken == "" {
		return httpx.Unauthorized(c, "missing_refresh_token", "Missing refresh token")
	}

	result, err := h.authService.Refresh(refreshToken)
	if err != nil {
		h.clearAuthCookies(c)
		return httpx.Unauthorized(c, "invalid_refresh_token", err.Error())
	}

	h.setAuthCookies(c, result)
	return c.JSON(result)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := c.Cookies("shelfy_refresh"); token != "" {
		_ = h.authService.Logout(token)
	}
	h.clearAuthCookies(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, result *service.AuthResponse) {
	secure := cookieSecure()
	c.Cookie(&fiber.Cookie{
		Name:     "shelfy_access",
		Value:    result.Token,
		Path:     "/",
		Secure:   secure,
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(15 * time.Minute),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "shelfy_refresh",
		Value:    result.RefreshToken,
		Path:     "/api/auth",
		Secure:   secure,
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	c.Cookie(&fiber.Cookie{Name: "shelfy_access", Value: "", Path: "/", Expires: expired, HTTPOnly: true})
	c.Cookie(&fiber.Cookie{Name: "shelfy_refresh", Value: "", Path: "/api/auth", Expires: expired, HTTPOnly: true})
}

func cookieSecure() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("COOKIE_SECURE")), "true")
}

func randomToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
