package email

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// ResendService implements Service using Resend.
type ResendService struct {
	client *resend.Client
	config *Config
}

func NewResendService(apiKey string, config *Config) (*ResendService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	return &ResendService{
		client: resend.NewClient(apiKey),
		config: config,
	}, nil
}

func (s *ResendService) send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("[EMAIL] Failed to send %q to %s: %v", subject, to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("[EMAIL] Sent %q to %s (ID: %s)", subject, to, sent.Id)
	return nil
}

func (s *ResendService) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	url := fmt.Sprintf("%s/verify-email?token=%s", s.config.FrontendURL, token)
	return s.send(ctx, to, "Verify Your Email Address", VerificationEmailTemplate(name, url))
}

func (s *ResendService) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	url := fmt.Sprintf("%s/reset-password?token=%s", s.config.FrontendURL, token)
	return s.send(ctx, to, "Reset Your Password", PasswordResetEmailTemplate(name, url))
}

func (s *ResendService) SendWelcomeEmail(ctx context.Context, to, name string) error {
	return s.send(ctx, to, "Welcome to ViralCut Pro", WelcomeEmailTemplate(name, s.config.FrontendURL))
}

func (s *ResendService) SendPasswordChangedEmail(ctx context.Context, to, name string) error {
	return s.send(ctx, to, "Your Password Was Changed", PasswordChangedEmailTemplate(name))
}

func (s *ResendService) SendProcessingNotification(ctx context.Context, to, name, videoTitle, status string) error {
	return s.send(ctx, to, "Video Processing Update", ProcessingNotificationTemplate(name, videoTitle, status, s.config.FrontendURL))
}
