package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Matheus-Bassini/viralcut/internal/service"
)

type SessionHandler struct {
	authService *service.AuthService
}

func NewSessionHandler(authService *service.AuthService) *SessionHandler {
	return &SessionHandler{authService: authService}
}

// List returns the active sessions for the authenticated user
// GET /api/v1/auth/sessions
func (h *SessionHandler) List(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	sessions, err := h.authService.Sessions(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"sessions": sessions,
		},
	})
}

// Revoke removes a single session by its identifier
// DELETE /api/v1/auth/sessions/:sessionId
func (h *SessionHandler) Revoke(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return badRequest(c, "Invalid session id")
	}

	if err := h.authService.RevokeSession(c.Context(), userID, sessionID); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Session revoked successfully",
	})
}
