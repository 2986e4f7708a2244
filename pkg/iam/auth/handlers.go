package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jelajahid/jelajah/pkg/errx"
)

// Handlers exposes the auth surface as Fiber routes.
type Handlers struct {
	service *Service
}

// NewHandlers creates the auth HTTP handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes binds the auth routes. The profile routes sit behind the
// token middleware; registration, login, logout, and reset are open.
func (h *Handlers) RegisterRoutes(app fiber.Router, mw *TokenMiddleware) {
	api := app.Group("/api")

	api.Post("/register", h.Register)
	api.Post("/login", h.Login)
	api.Post("/logout", h.Logout)
	api.Post("/reset-password", h.ResetPassword)
	api.Post("/complete-profile", mw.Authenticate(), h.CompleteProfile)
	api.Get("/profile", mw.Authenticate(), h.Profile)
}

// Register handles POST /api/register.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("Invalid request body")
	}

	result, err := h.service.Register(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Verification email sent! User created successfully!",
		"data":    result,
	})
}

// Login handles POST /api/login. On success the session credential is set as
// an http-only cookie; an unverified account gets a 403 and no cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("Invalid request body")
	}

	result, err := h.service.Login(c.Context(), req)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    result.Token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	message := "User logged in successfully"
	if result.ProfileIncomplete {
		message = "User logged in successfully, please complete your profile"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":           message,
		"profileIncomplete": result.ProfileIncomplete,
	})
}

// Logout handles POST /api/logout. The cookie is cleared regardless of
// whether a revocable session was presented.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.Context(), c.Cookies(SessionCookie)); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Logout successful",
	})
}

// ResetPassword handles POST /api/reset-password.
func (h *Handlers) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("Invalid request body")
	}

	if err := h.service.ResetPassword(c.Context(), req); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password reset email sent",
	})
}

// CompleteProfile handles POST /api/complete-profile.
func (h *Handlers) CompleteProfile(c *fiber.Ctx) error {
	var req CompleteProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.Validation("Invalid request body")
	}

	if err := h.service.CompleteProfile(c.Context(), AuthFromContext(c), req); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Profile updated successfully",
	})
}

// Profile handles GET /api/profile.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	result, err := h.service.Profile(c.Context(), AuthFromContext(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
