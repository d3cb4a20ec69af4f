package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Matheus-Bassini/viralcut/internal/config"
	"github.com/Matheus-Bassini/viralcut/internal/domain"
	"github.com/Matheus-Bassini/viralcut/internal/repository"
	"github.com/Matheus-Bassini/viralcut/pkg/email"
	"github.com/Matheus-Bassini/viralcut/pkg/hash"
)

const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = 1 * time.Hour
)

// UserService covers registration, email verification, password recovery
// and profile maintenance.
type UserService struct {
	userRepo     repository.UserRepository
	emailService email.Service
	cfg          *config.Config
}

func NewUserService(userRepo repository.UserRepository, emailService email.Service, cfg *config.Config) *UserService {
	return &UserService{
		userRepo:     userRepo,
		emailService: emailService,
		cfg:          cfg,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password  string `json:"password" form:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" form:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,min=2,max=100"`
	Language  string `json:"language,omitempty" form:"language" validate:"omitempty,oneof=pt-BR en es"`
}

// Register creates a new credential with a 24-hour verification token and
// triggers the verification email. Email delivery is fire-and-forget.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	normalized := domain.NormalizeEmail(req.Email)

	existing, err := s.userRepo.GetByEmail(ctx, normalized)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := hash.HashPasswordWithCost(req.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	tokenExpiry := time.Now().Add(verificationTokenTTL)

	language := req.Language
	if language == "" {
		language = "pt-BR"
	}

	now := time.Now()
	user := &domain.User{
		ID:                       uuid.New(),
		Email:                    normalized,
		PasswordHash:             passwordHash,
		FirstName:                req.FirstName,
		LastName:                 req.LastName,
		IsActive:                 true,
		IsEmailVerified:          false,
		SubscriptionPlan:         domain.PlanFree,
		SubscriptionStatus:       domain.SubscriptionActive,
		Language:                 language,
		Timezone:                 "America/Sao_Paulo",
		EmailNotifications:       true,
		EmailVerificationToken:   &token,
		EmailVerificationExpires: &tokenExpiry,
		TwoFactorBackupCodes:     domain.BackupCodeList{},
		RefreshTokens:            domain.RefreshTokenList{},
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.sendAsync(user.Email, func(ctx context.Context) error {
		return s.emailService.SendVerificationEmail(ctx, user.Email, user.FirstName, token)
	})

	log.Printf("[USER] New user registered: %s", user.Email)
	return user, nil
}

// VerifyEmail redeems a verification token. The repository lookup only
// matches unexpired tokens; redemption clears the pair so a second call
// with the same token fails.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		return ErrInvalidVerificationToken
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpires = nil

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}

	s.sendAsync(user.Email, func(ctx context.Context) error {
		return s.emailService.SendWelcomeEmail(ctx, user.Email, user.FirstName)
	})

	log.Printf("[USER] Email verified for: %s", user.Email)
	return nil
}

// ResendVerification issues a fresh 24-hour token. An unknown email gets a
// silent success; an already verified one gets a distinguishable error,
// which reveals nothing beyond what registration already implies.
func (s *UserService) ResendVerification(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}
	tokenExpiry := time.Now().Add(verificationTokenTTL)

	user.EmailVerificationToken = &token
	user.EmailVerificationExpires = &tokenExpiry

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update verification token: %w", err)
	}

	s.sendAsync(user.Email, func(ctx context.Context) error {
		return s.emailService.SendVerificationEmail(ctx, user.Email, user.FirstName, token)
	})

	return nil
}

// RequestPasswordReset stores a 1-hour reset token and triggers the reset
// email. It always reports success so the response shape never reveals
// whether the email is on file.
func (s *UserService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	tokenExpiry := time.Now().Add(resetTokenTTL)

	user.PasswordResetToken = &token
	user.PasswordResetExpires = &tokenExpiry

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	s.sendAsync(user.Email, func(ctx context.Context) error {
		return s.emailService.SendPasswordResetEmail(ctx, user.Email, user.FirstName, token)
	})

	log.Printf("[USER] Password reset requested for: %s", user.Email)
	return nil
}

// ResetPassword redeems a reset token: new password, token pair cleared,
// every session revoked.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.userRepo.GetByPasswordResetToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	passwordHash, err := hash.HashPasswordWithCost(newPassword, s.cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	user.RefreshTokens = domain.RefreshTokenList{}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.sendAsync(user.Email, func(ctx context.Context) error {
		return s.emailService.SendPasswordChangedEmail(ctx, user.Email, user.FirstName)
	})

	log.Printf("[USER] Password reset completed for: %s", user.Email)
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies a typed patch of the mutable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	patch.Apply(user)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// DeleteAccount removes the credential after password re-authentication.
func (s *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	valid, err := hash.VerifyPassword(password, user.PasswordHash)
	if err != nil || !valid {
		return ErrInvalidCredentials
	}

	// TODO: cascade cleanup of the user's videos and stored clips once the
	// processing pipeline lands.
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	log.Printf("[USER] Account deleted for: %s", user.Email)
	return nil
}

// sendAsync fires an email without blocking the response; delivery and
// retry are the email collaborator's concern.
func (s *UserService) sendAsync(recipient string, send func(ctx context.Context) error) {
	if s.emailService == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			log.Printf("[USER] Failed to send email to %s: %v", recipient, err)
		}
	}()
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
