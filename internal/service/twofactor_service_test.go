package service

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwoFactor_SetupEnableDisable(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(repo, "maria@example.com", "correct-horse1")
	svc := NewTwoFactorService(repo, "ViralCut Test")

	setup, err := svc.Setup(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, setup.Secret)
	assert.Contains(t, setup.OtpauthURL, "otpauth://totp/")
	assert.Contains(t, setup.OtpauthURL, "ViralCut")

	// The factor is pending until the user proves possession.
	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.TwoFactorEnabled)
	require.NotNil(t, stored.TwoFactorSecret)

	// A wrong code does not enable anything.
	_, err = svc.Enable(context.Background(), user.ID, "000000")
	require.ErrorIs(t, err, ErrInvalidTwoFactorCode)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	backupCodes, err := svc.Enable(context.Background(), user.ID, code)
	require.NoError(t, err)
	require.Len(t, backupCodes, 10)
	for _, c := range backupCodes {
		assert.Len(t, c, 8)
	}

	stored, err = repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, stored.TwoFactorEnabled)

	// Enabling twice is rejected.
	_, err = svc.Setup(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrTwoFactorAlreadyEnabled)

	code, err = totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Disable(context.Background(), user.ID, code))

	stored, err = repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.TwoFactorEnabled)
	assert.Nil(t, stored.TwoFactorSecret)
	assert.Empty(t, stored.TwoFactorBackupCodes)
}

func TestTwoFactor_EnableWithoutSetup(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(repo, "maria@example.com", "correct-horse1")
	svc := NewTwoFactorService(repo, "ViralCut Test")

	_, err := svc.Enable(context.Background(), user.ID, "123456")
	require.ErrorIs(t, err, ErrTwoFactorSetupRequired)
}

func TestTwoFactor_DisableWithBackupCode(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(repo, "maria@example.com", "correct-horse1")
	enableTwoFactor(t, repo, user)
	svc := NewTwoFactorService(repo, "ViralCut Test")

	require.NoError(t, svc.Disable(context.Background(), user.ID, "AABB1122"))

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.TwoFactorEnabled)
}

func TestTwoFactor_DisableWhenNotEnabled(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(repo, "maria@example.com", "correct-horse1")
	svc := NewTwoFactorService(repo, "ViralCut Test")

	err := svc.Disable(context.Background(), user.ID, "123456")
	require.ErrorIs(t, err, ErrTwoFactorNotEnabled)
}

func TestTwoFactor_BackupCodeStatus(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(repo, "maria@example.com", "correct-horse1")
	enableTwoFactor(t, repo, user)
	svc := NewTwoFactorService(repo, "ViralCut Test")

	status, err := svc.BackupCodes(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalCodes)
	assert.Equal(t, 0, status.UsedCodes)
	assert.Len(t, status.BackupCodes, 2)

	// Consume one code through the record and re-check.
	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, stored.TwoFactorBackupCodes.Consume("AABB1122"))
	require.NoError(t, repo.Update(context.Background(), stored))

	status, err = svc.BackupCodes(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.UsedCodes)
	assert.Equal(t, []string{"CCDD3344"}, status.BackupCodes)
}

func TestTwoFactor_RegenerateInvalidatesOldCodes(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(repo, "maria@example.com", "correct-horse1")
	enableTwoFactor(t, repo, user)
	svc := NewTwoFactorService(repo, "ViralCut Test")

	codes, err := svc.RegenerateBackupCodes(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, codes, 10)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.TwoFactorBackupCodes.Consume("AABB1122"), "old code must be gone")
	assert.True(t, stored.TwoFactorBackupCodes.Consume(codes[0]))
}
