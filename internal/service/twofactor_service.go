package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/Matheus-Bassini/viralcut/internal/domain"
	"github.com/Matheus-Bassini/viralcut/internal/repository"
	"github.com/Matheus-Bassini/viralcut/pkg/totp"
)

const backupCodeCount = 10

// TwoFactorService owns the second-factor lifecycle: a generated secret is
// pending until the user proves possession with one valid code, at which
// point backup codes are issued and the factor is enabled.
type TwoFactorService struct {
	userRepo repository.UserRepository
	issuer   string
}

func NewTwoFactorService(userRepo repository.UserRepository, issuer string) *TwoFactorService {
	return &TwoFactorService{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

type TwoFactorSetup struct {
	Secret     string `json:"secret"`
	OtpauthURL string `json:"otpauth_url"`
}

// Setup generates a new TOTP secret and stores it on the record without
// enabling the factor. Repeating setup before verification replaces the
// pending secret.
func (s *TwoFactorService) Setup(ctx context.Context, userID uuid.UUID) (*TwoFactorSetup, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if user.TwoFactorEnabled {
		return nil, ErrTwoFactorAlreadyEnabled
	}

	secret, url, err := totp.GenerateSecret(s.issuer, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate totp secret: %w", err)
	}

	user.TwoFactorSecret = &secret
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store totp secret: %w", err)
	}

	return &TwoFactorSetup{Secret: secret, OtpauthURL: url}, nil
}

// Enable turns the pending secret into an active second factor after the
// caller proves possession with one valid code. The returned backup codes
// are shown exactly once.
func (s *TwoFactorService) Enable(ctx context.Context, userID uuid.UUID, code string) ([]string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if user.TwoFactorEnabled {
		return nil, ErrTwoFactorAlreadyEnabled
	}
	if user.TwoFactorSecret == nil {
		return nil, ErrTwoFactorSetupRequired
	}

	if !totp.Verify(*user.TwoFactorSecret, code) {
		return nil, ErrInvalidTwoFactorCode
	}

	codes, err := generateBackupCodes(backupCodeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate backup codes: %w", err)
	}

	user.TwoFactorEnabled = true
	user.TwoFactorBackupCodes = codes
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to enable two-factor: %w", err)
	}

	log.Printf("[2FA] Enabled for user: %s", user.Email)

	plain := make([]string, len(codes))
	for i, c := range codes {
		plain[i] = c.Code
	}
	return plain, nil
}

// Disable removes the second factor. Proof of possession is a valid TOTP
// code or any unused backup code.
func (s *TwoFactorService) Disable(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if !user.TwoFactorEnabled {
		return ErrTwoFactorNotEnabled
	}

	if !s.VerifyCode(user, code) {
		return ErrInvalidTwoFactorCode
	}

	user.TwoFactorEnabled = false
	user.TwoFactorSecret = nil
	user.TwoFactorBackupCodes = domain.BackupCodeList{}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to disable two-factor: %w", err)
	}

	log.Printf("[2FA] Disabled for user: %s", user.Email)
	return nil
}

// VerifyCode checks a login-time second factor: TOTP first, then an unused
// backup code as fallback. A consumed backup code is flagged on the record;
// the caller must persist the user.
func (s *TwoFactorService) VerifyCode(user *domain.User, code string) bool {
	if user.TwoFactorSecret != nil && totp.Verify(*user.TwoFactorSecret, code) {
		return true
	}
	return user.TwoFactorBackupCodes.Consume(strings.ToUpper(code))
}

type BackupCodeStatus struct {
	BackupCodes []string `json:"backup_codes"`
	TotalCodes  int      `json:"total_codes"`
	UsedCodes   int      `json:"used_codes"`
}

// BackupCodes returns the codes that are still usable plus usage counts.
func (s *TwoFactorService) BackupCodes(ctx context.Context, userID uuid.UUID) (*BackupCodeStatus, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !user.TwoFactorEnabled {
		return nil, ErrTwoFactorNotEnabled
	}

	return &BackupCodeStatus{
		BackupCodes: user.TwoFactorBackupCodes.Unused(),
		TotalCodes:  len(user.TwoFactorBackupCodes),
		UsedCodes:   user.TwoFactorBackupCodes.UsedCount(),
	}, nil
}

// RegenerateBackupCodes replaces the whole batch; previously issued codes
// stop working immediately.
func (s *TwoFactorService) RegenerateBackupCodes(ctx context.Context, userID uuid.UUID) ([]string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !user.TwoFactorEnabled {
		return nil, ErrTwoFactorNotEnabled
	}

	codes, err := generateBackupCodes(backupCodeCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate backup codes: %w", err)
	}

	user.TwoFactorBackupCodes = codes
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to store backup codes: %w", err)
	}

	log.Printf("[2FA] Backup codes regenerated for user: %s", user.Email)

	plain := make([]string, len(codes))
	for i, c := range codes {
		plain[i] = c.Code
	}
	return plain, nil
}

// generateBackupCodes makes n single-use codes of 4 random bytes each,
// rendered as 8 uppercased hex characters.
func generateBackupCodes(n int) (domain.BackupCodeList, error) {
	codes := make(domain.BackupCodeList, 0, n)
	for i := 0; i < n; i++ {
		raw := make([]byte, 4)
		if _, err := rand.Read(raw); err != nil {
			return nil, err
		}
		codes = append(codes, domain.BackupCode{
			Code: strings.ToUpper(hex.EncodeToString(raw)),
		})
	}
	return codes, nil
}
