package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Matheus-Bassini/viralcut/internal/service"
	"github.com/Matheus-Bassini/viralcut/pkg/jwt"
)

// respondError maps service sentinel errors to transport status codes.
// Unknown errors collapse into a generic 500 so no internal detail leaks.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, service.ErrEmailTaken):
		status = fiber.StatusConflict
		message = err.Error()
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidTwoFactorCode),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrExpiredToken),
		errors.Is(err, jwt.ErrWrongTokenType):
		status = fiber.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, service.ErrAccountLocked):
		status = fiber.StatusLocked
		message = err.Error()
	case errors.Is(err, service.ErrAccountDisabled):
		status = fiber.StatusForbidden
		message = err.Error()
	case errors.Is(err, service.ErrInvalidResetToken),
		errors.Is(err, service.ErrInvalidVerificationToken),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrTwoFactorAlreadyEnabled),
		errors.Is(err, service.ErrTwoFactorNotEnabled),
		errors.Is(err, service.ErrTwoFactorSetupRequired):
		status = fiber.StatusBadRequest
		message = err.Error()
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// currentUserID reads the user id placed in locals by the auth middleware.
func currentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals("user_id").(uuid.UUID)
	return id, ok
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Unauthorized",
	})
}
