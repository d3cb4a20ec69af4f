package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Matheus-Bassini/viralcut/internal/config"
	"github.com/Matheus-Bassini/viralcut/internal/domain"
	"github.com/Matheus-Bassini/viralcut/internal/repository"
	"github.com/Matheus-Bassini/viralcut/pkg/hash"
	"github.com/Matheus-Bassini/viralcut/pkg/jwt"
)

// AuthService orchestrates login, logout, refresh and password change. It
// is the only writer of the per-user refresh-token list.
type AuthService struct {
	userRepo     repository.UserRepository
	tokenService *jwt.TokenService
	twoFactor    *TwoFactorService
	lockout      *LockoutPolicy
	cfg          *config.Config
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenService *jwt.TokenService,
	twoFactor *TwoFactorService,
	lockout *LockoutPolicy,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenService: tokenService,
		twoFactor:    twoFactor,
		lockout:      lockout,
		cfg:          cfg,
	}
}

type LoginRequest struct {
	Email          string `json:"email" form:"email" validate:"required,email"`
	Password       string `json:"password" form:"password" validate:"required,min=8"`
	TwoFactorToken string `json:"two_factor_token,omitempty" form:"two_factor_token"`
	RememberMe     bool   `json:"remember_me" form:"remember_me"`
	DeviceInfo     string `json:"-"`
}

type LoginResponse struct {
	RequiresTwoFactor bool              `json:"requires_two_factor,omitempty"`
	User              *UserDTO          `json:"user,omitempty"`
	Tokens            *domain.TokenPair `json:"tokens,omitempty"`
}

type UserDTO struct {
	ID                 uuid.UUID                 `json:"id"`
	Email              string                    `json:"email"`
	FirstName          string                    `json:"first_name"`
	LastName           string                    `json:"last_name"`
	SubscriptionPlan   domain.SubscriptionPlan   `json:"subscription_plan"`
	SubscriptionStatus domain.SubscriptionStatus `json:"subscription_status"`
	Language           string                    `json:"language"`
	IsEmailVerified    bool                      `json:"is_email_verified"`
	TwoFactorEnabled   bool                      `json:"two_factor_enabled"`
}

func newUserDTO(user *domain.User) *UserDTO {
	return &UserDTO{
		ID:                 user.ID,
		Email:              user.Email,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		SubscriptionPlan:   user.SubscriptionPlan,
		SubscriptionStatus: user.SubscriptionStatus,
		Language:           user.Language,
		IsEmailVerified:    user.IsEmailVerified,
		TwoFactorEnabled:   user.TwoFactorEnabled,
	}
}

// Login runs the full gate sequence: lookup, lockout, active flag, password,
// optional second factor. The lockout check comes before password
// verification so a locked account answers identically for right and wrong
// passwords.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	now := time.Now()

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same error as a wrong password; no existence leak.
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if s.lockout.IsLocked(user, now) {
		return nil, ErrAccountLocked
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	valid, err := hash.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !valid {
		s.recordFailure(ctx, user, now)
		return nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if req.TwoFactorToken == "" {
			// Success-shaped sentinel: the caller resubmits with a code.
			return &LoginResponse{RequiresTwoFactor: true}, nil
		}
		if !s.twoFactor.VerifyCode(user, req.TwoFactorToken) {
			s.recordFailure(ctx, user, now)
			return nil, ErrInvalidTwoFactorCode
		}
		// A consumed backup code was flagged on the record; the update
		// below persists it together with the rest of the login state.
	}

	s.lockout.OnSuccess(user)
	user.LastLogin = &now
	user.LastActiveAt = &now

	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokenService.GenerateRefreshToken(user, req.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	deviceInfo := req.DeviceInfo
	if deviceInfo == "" {
		deviceInfo = "Unknown device"
	}

	user.RefreshTokens = user.RefreshTokens.Append(domain.RefreshTokenEntry{
		ID:         uuid.New(),
		Token:      refreshToken,
		ExpiresAt:  now.Add(s.tokenService.RefreshExpiry(req.RememberMe)),
		DeviceInfo: deviceInfo,
		CreatedAt:  now,
	}, s.cfg.Auth.MaxSessions)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	log.Printf("[AUTH] User logged in: %s", user.Email)

	return &LoginResponse{
		User: newUserDTO(user),
		Tokens: &domain.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    now.Add(s.tokenService.AccessExpiry()),
			TokenType:    "Bearer",
		},
	}, nil
}

// recordFailure advances the lockout policy and persists the counters.
// Best effort: two concurrent failures may undercount by one.
func (s *AuthService) recordFailure(ctx context.Context, user *domain.User, now time.Time) {
	s.lockout.OnFailure(user, now)
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("[AUTH] Failed to persist login attempts for %s: %v", user.Email, err)
	}
}

// Refresh exchanges a refresh token for a new access token. The token must
// verify cryptographically AND still be present and unexpired in the stored
// session list, so a token revoked by logout stays dead. Refresh tokens are
// not rotated on use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", ErrUserNotFound
	}

	entry := user.RefreshTokens.Find(refreshToken)
	if entry == nil || entry.ExpiresAt.Before(time.Now()) {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout removes the given refresh token from the session list. Without a
// token it is a no-op.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	user.RefreshTokens = user.RefreshTokens.Remove(refreshToken)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}

	return nil
}

// LogoutAll clears the entire session list unconditionally.
func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	user.RefreshTokens = domain.RefreshTokenList{}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to logout all sessions: %w", err)
	}

	return nil
}

// ChangePassword re-hashes the password after verifying the current one and
// wipes every session, forcing re-authentication on all devices.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	valid, err := hash.VerifyPassword(currentPassword, user.PasswordHash)
	if err != nil || !valid {
		return ErrInvalidCredentials
	}

	newHash, err := hash.HashPasswordWithCost(newPassword, s.cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = newHash
	user.RefreshTokens = domain.RefreshTokenList{}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	log.Printf("[AUTH] Password changed for user: %s", user.Email)
	return nil
}

// SessionInfo is the caller-visible view of one stored refresh token.
type SessionInfo struct {
	ID         uuid.UUID `json:"id"`
	DeviceInfo string    `json:"device_info"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	IsExpired  bool      `json:"is_expired"`
}

// Sessions lists the stored refresh-token entries for the user.
func (s *AuthService) Sessions(ctx context.Context, userID uuid.UUID) ([]SessionInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	now := time.Now()
	sessions := make([]SessionInfo, 0, len(user.RefreshTokens))
	for _, entry := range user.RefreshTokens {
		sessions = append(sessions, SessionInfo{
			ID:         entry.ID,
			DeviceInfo: entry.DeviceInfo,
			CreatedAt:  entry.CreatedAt,
			ExpiresAt:  entry.ExpiresAt,
			IsExpired:  entry.ExpiresAt.Before(now),
		})
	}

	return sessions, nil
}

// RevokeSession drops a single session by its entry id.
func (s *AuthService) RevokeSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	user.RefreshTokens = user.RefreshTokens.RemoveByID(sessionID)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}
