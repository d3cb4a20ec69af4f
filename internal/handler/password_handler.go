package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Matheus-Bassini/viralcut/internal/service"
	"github.com/Matheus-Bassini/viralcut/pkg/validator"
)

type PasswordHandler struct {
	authService *service.AuthService
	userService *service.UserService
	validator   *validator.Validator
}

func NewPasswordHandler(authService *service.AuthService, userService *service.UserService, validator *validator.Validator) *PasswordHandler {
	return &PasswordHandler{
		authService: authService,
		userService: userService,
		validator:   validator,
	}
}

// ChangePassword updates the password for an authenticated user
// POST /api/v1/auth/change-password
func (h *PasswordHandler) ChangePassword(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.authService.ChangePassword(c.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Password changed successfully. Please log in again.",
	})
}

// ForgotPassword starts the reset flow. The response is the same whether or
// not the email exists.
// POST /api/v1/auth/forgot-password
func (h *PasswordHandler) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.userService.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "If an account exists for that email, a password reset link has been sent",
	})
}

// ResetPassword consumes a reset token and sets a new password
// POST /api/v1/auth/reset-password
func (h *PasswordHandler) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.userService.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Password reset successfully. Please log in with your new password.",
	})
}
