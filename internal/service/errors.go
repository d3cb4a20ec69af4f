package service

import "errors"

// Sentinel errors translated by the HTTP layer. Unknown email and wrong
// password share ErrInvalidCredentials on purpose.
var (
	ErrEmailTaken               = errors.New("user already exists with this email")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrAccountLocked            = errors.New("account is temporarily locked due to too many failed login attempts")
	ErrAccountDisabled          = errors.New("account is deactivated")
	ErrInvalidTwoFactorCode     = errors.New("invalid two-factor authentication token")
	ErrTwoFactorAlreadyEnabled  = errors.New("two-factor authentication is already enabled")
	ErrTwoFactorNotEnabled      = errors.New("two-factor authentication is not enabled")
	ErrTwoFactorSetupRequired   = errors.New("two-factor authentication setup not initiated")
	ErrUserNotFound             = errors.New("user not found")
	ErrInvalidRefreshToken      = errors.New("invalid or expired refresh token")
	ErrInvalidResetToken        = errors.New("invalid or expired reset token")
	ErrInvalidVerificationToken = errors.New("invalid or expired verification token")
	ErrAlreadyVerified          = errors.New("email is already verified")
)
