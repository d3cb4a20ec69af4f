package email

import (
	"context"
)

// Service is the delivery collaborator. The auth core decides when to send
// and which token to embed; rendering, delivery and retry belong here.
type Service interface {
	// SendVerificationEmail sends an email verification link to the user
	SendVerificationEmail(ctx context.Context, to, name, token string) error

	// SendPasswordResetEmail sends a password reset link to the user
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error

	// SendWelcomeEmail sends a welcome email to newly verified users
	SendWelcomeEmail(ctx context.Context, to, name string) error

	// SendPasswordChangedEmail sends a notification when the password changes
	SendPasswordChangedEmail(ctx context.Context, to, name string) error

	// SendProcessingNotification tells the user a video finished (or failed)
	// processing. Called by the video pipeline, not the auth flows.
	SendProcessingNotification(ctx context.Context, to, name, videoTitle, status string) error
}

// Config holds sender identity and the frontend base URL used to build
// verification and reset links.
type Config struct {
	FromName    string
	FromEmail   string
	FrontendURL string
}
