package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Matheus-Bassini/viralcut/internal/domain"
	"github.com/Matheus-Bassini/viralcut/internal/service"
	"github.com/Matheus-Bassini/viralcut/pkg/validator"
)

type UserHandler struct {
	userService *service.UserService
	validator   *validator.Validator
}

func NewUserHandler(userService *service.UserService, validator *validator.Validator) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator,
	}
}

// profileResponse is the full self-view of an account. Sensitive columns
// (password hash, token columns, session list) never leave the service layer.
type profileResponse struct {
	ID                 uuid.UUID                 `json:"id"`
	Email              string                    `json:"email"`
	FirstName          string                    `json:"first_name"`
	LastName           string                    `json:"last_name"`
	Avatar             *string                   `json:"avatar"`
	Bio                *string                   `json:"bio"`
	Language           string                    `json:"language"`
	Timezone           string                    `json:"timezone"`
	EmailNotifications bool                      `json:"email_notifications"`
	SubscriptionPlan   domain.SubscriptionPlan   `json:"subscription_plan"`
	SubscriptionStatus domain.SubscriptionStatus `json:"subscription_status"`
	VideosThisMonth    int                       `json:"videos_processed_this_month"`
	RemainingQuota     int                       `json:"remaining_quota"`
	StorageUsed        int64                     `json:"storage_used"`
	IsEmailVerified    bool                      `json:"is_email_verified"`
	TwoFactorEnabled   bool                      `json:"two_factor_enabled"`
	CreatedAt          time.Time                 `json:"created_at"`
}

func newProfileResponse(user *domain.User) profileResponse {
	return profileResponse{
		ID:                 user.ID,
		Email:              user.Email,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Avatar:             user.Avatar,
		Bio:                user.Bio,
		Language:           user.Language,
		Timezone:           user.Timezone,
		EmailNotifications: user.EmailNotifications,
		SubscriptionPlan:   user.SubscriptionPlan,
		SubscriptionStatus: user.SubscriptionStatus,
		VideosThisMonth:    user.VideosProcessedThisMonth,
		RemainingQuota:     user.RemainingQuota(),
		StorageUsed:        user.StorageUsed,
		IsEmailVerified:    user.IsEmailVerified,
		TwoFactorEnabled:   user.TwoFactorEnabled,
		CreatedAt:          user.CreatedAt,
	}
}

// Register creates a new account
// POST /api/v1/auth/register
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.userService.Register(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration successful. Please check your email to verify your account.",
		"data": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// Me returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.userService.GetByID(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    newProfileResponse(user),
	})
}

// UpdateProfile applies a partial profile update
// PUT /api/v1/auth/me
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var patch domain.ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(patch); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Context(), userID, patch)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"data":    newProfileResponse(user),
	})
}

// VerifyEmail consumes a verification token
// GET /api/v1/auth/verify-email/:token
func (h *UserHandler) VerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return badRequest(c, "Verification token is required")
	}

	if err := h.userService.VerifyEmail(c.Context(), token); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Email verified successfully",
	})
}

// ResendVerification issues a fresh verification token
// POST /api/v1/auth/resend-verification
func (h *UserHandler) ResendVerification(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.userService.ResendVerification(c.Context(), req.Email); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "If an account exists for that email, a verification link has been sent",
	})
}

// DeleteAccount permanently removes the account after password reauth
// DELETE /api/v1/auth/account
func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req struct {
		Password string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.validator.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.userService.DeleteAccount(c.Context(), userID, req.Password); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Account deleted successfully",
	})
}
