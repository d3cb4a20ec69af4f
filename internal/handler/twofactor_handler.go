package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Matheus-Bassini/viralcut/internal/service"
	"github.com/Matheus-Bassini/viralcut/pkg/validator"
)

type TwoFactorHandler struct {
	twoFactorService *service.TwoFactorService
	validator        *validator.Validator
}

func NewTwoFactorHandler(twoFactorService *service.TwoFactorService, validator *validator.Validator) *TwoFactorHandler {
	return &TwoFactorHandler{
		twoFactorService: twoFactorService,
		validator:        validator,
	}
}

// Setup generates a pending TOTP secret
// POST /api/v1/auth/2fa/setup
func (h *TwoFactorHandler) Setup(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	setup, err := h.twoFactorService.Setup(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Scan the QR code with your authenticator app, then verify with a code",
		"data":    setup,
	})
}

// Verify enables two-factor after the user proves possession of the secret
// POST /api/v1/auth/2fa/verify
func (h *TwoFactorHandler) Verify(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req struct {
		Token string `json:"token" validate:"required,len=6"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	backupCodes, err := h.twoFactorService.Enable(c.Context(), userID, req.Token)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Two-factor authentication enabled. Store your backup codes in a safe place; they will not be shown again.",
		"data": fiber.Map{
			"backup_codes": backupCodes,
		},
	})
}

// Disable turns off two-factor with a TOTP code or an unused backup code
// POST /api/v1/auth/2fa/disable
func (h *TwoFactorHandler) Disable(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.twoFactorService.Disable(c.Context(), userID, req.Token); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Two-factor authentication disabled",
	})
}

// BackupCodes lists the codes that are still usable
// GET /api/v1/auth/2fa/backup-codes
func (h *TwoFactorHandler) BackupCodes(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	status, err := h.twoFactorService.BackupCodes(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    status,
	})
}

// RegenerateBackupCodes replaces the whole batch
// POST /api/v1/auth/2fa/regenerate-backup-codes
func (h *TwoFactorHandler) RegenerateBackupCodes(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	backupCodes, err := h.twoFactorService.RegenerateBackupCodes(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Backup codes regenerated. Previously issued codes no longer work.",
		"data": fiber.Map{
			"backup_codes": backupCodes,
		},
	})
}
