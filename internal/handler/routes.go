package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Matheus-Bassini/viralcut/internal/handler/middleware"
)

func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	passwordHandler *PasswordHandler,
	twoFactorHandler *TwoFactorHandler,
	sessionHandler *SessionHandler,
	healthHandler *HealthHandler,
	authMiddleware fiber.Handler,
	rateLimiter *middleware.RateLimiter,
) {
	// Health checks (public)
	app.Get("/health", healthHandler.Health)
	app.Get("/ready", healthHandler.Ready)

	// API v1
	api := app.Group("/api/v1")
	auth := api.Group("/auth")

	// Public routes. The heavier limits sit on the endpoints that probe
	// credentials or trigger outbound email.
	auth.Post("/register", rateLimiter.Limit("register", 10, 15*time.Minute), userHandler.Register)
	auth.Post("/login", rateLimiter.Limit("login", 10, 15*time.Minute), authHandler.Login)
	auth.Post("/refresh-token", authHandler.Refresh)
	auth.Post("/forgot-password", rateLimiter.Limit("forgot-password", 5, time.Hour), passwordHandler.ForgotPassword)
	auth.Post("/reset-password", passwordHandler.ResetPassword)
	auth.Get("/verify-email/:token", userHandler.VerifyEmail)
	auth.Post("/resend-verification", rateLimiter.Limit("resend-verification", 5, time.Hour), userHandler.ResendVerification)

	// Protected routes
	protected := auth.Group("", authMiddleware)
	protected.Post("/logout", authHandler.Logout)
	protected.Post("/logout-all", authHandler.LogoutAll)
	protected.Get("/me", userHandler.Me)
	protected.Put("/me", userHandler.UpdateProfile)
	protected.Delete("/account", userHandler.DeleteAccount)
	protected.Post("/change-password", passwordHandler.ChangePassword)

	// Session management
	protected.Get("/sessions", sessionHandler.List)
	protected.Delete("/sessions/:sessionId", sessionHandler.Revoke)

	// Two-factor authentication
	twoFactor := protected.Group("/2fa")
	twoFactor.Post("/setup", twoFactorHandler.Setup)
	twoFactor.Post("/verify", twoFactorHandler.Verify)
	twoFactor.Post("/disable", twoFactorHandler.Disable)
	twoFactor.Get("/backup-codes", twoFactorHandler.BackupCodes)
	twoFactor.Post("/regenerate-backup-codes", twoFactorHandler.RegenerateBackupCodes)
}
