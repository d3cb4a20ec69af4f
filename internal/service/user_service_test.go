package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matheus-Bassini/viralcut/internal/domain"
	"github.com/Matheus-Bassini/viralcut/pkg/hash"
)

func newUserService(repo *memUserRepo) *UserService {
	// Email delivery disabled; sendAsync is a no-op with a nil service.
	return NewUserService(repo, nil, testConfig())
}

func TestRegister_Success(t *testing.T) {
	repo := newMemUserRepo()
	svc := newUserService(repo)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "  New.User@Example.COM ",
		Password:  "super-secret1",
		FirstName: "Nova",
		LastName:  "Pessoa",
	})
	require.NoError(t, err)

	assert.Equal(t, "new.user@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsEmailVerified)
	assert.Equal(t, domain.PlanFree, user.SubscriptionPlan)
	assert.Equal(t, "pt-BR", user.Language)
	assert.Equal(t, "America/Sao_Paulo", user.Timezone)
	assert.True(t, user.EmailNotifications)

	require.NotNil(t, user.EmailVerificationToken)
	assert.Len(t, *user.EmailVerificationToken, 64)
	require.NotNil(t, user.EmailVerificationExpires)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *user.EmailVerificationExpires, time.Minute)

	// Password is stored hashed.
	assert.NotEqual(t, "super-secret1", user.PasswordHash)
	ok, err := hash.VerifyPassword("super-secret1", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(repo, "maria@example.com", "correct-horse1")
	svc := newUserService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "MARIA@example.com",
		Password:  "super-secret1",
		FirstName: "Maria",
		LastName:  "Souza",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestVerifyEmail_Success(t *testing.T) {
	repo := newMemUserRepo()
	svc := newUserService(repo)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "nova@example.com",
		Password:  "super-secret1",
		FirstName: "Nova",
		LastName:  "Pessoa",
	})
	require.NoError(t, err)
	token := *user.EmailVerificationToken

	require.NoError(t, svc.VerifyEmail(context.Background(), token))

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsEmailVerified)
	assert.Nil(t, stored.EmailVerificationToken)

	// The token is single use.
	err = svc.VerifyEmail(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidVerificationToken)
}

func TestVerifyEmail_ExpiredToken(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(repo, "maria@example.com", "correct-horse1")
	svc := newUserService(repo)

	token := "expired-token"
	past := time.Now().Add(-time.Minute)
	user.IsEmailVerified = false
	user.EmailVerificationToken = &token
	user.EmailVerificationExpires = &past
	require.NoError(t, repo.Update(context.Background(), user))

	err := svc.VerifyEmail(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidVerificationToken)
}

func TestResendVerification_UnknownEmailIsSilent(t *testing.T) {
	repo := newMemUserRepo()
	svc := newUserService(repo)

	require.NoError(t, svc.ResendVerification(context.Background(), "ghost@example.com"))
}

func TestResendVerification_AlreadyVerified(t *testing.T) {
	repo := newMemUserRepo()
	seedUser(repo, "maria@example.com", "correct-horse1")
	svc := newUserService(repo)

	err := svc.ResendVerification(context.Background(), "maria@example.com")
	require.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestResendVerification_IssuesFreshToken(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(repo, "maria@example.com", "correct-horse1")
	svc := newUserService(repo)

	user.IsEmailVerified = false
	require.NoError(t, repo.Update(context.Background(), user))

	require.NoError(t, svc.ResendVerification(context.Background(), "maria@example.com"))

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EmailVerificationToken)
	require.NotNil(t, stored.EmailVerificationExpires)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *stored.EmailVerificationExpires, time.Minute)
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	repo := newMemUserRepo()
	svc := newUserService(repo)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
}

func TestResetPassword_Success(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(repo, "maria@example.com", "correct-horse1")
	svc := newUserService(repo)
	authSvc := newAuthService(repo)

	// An open session that must be revoked by the reset.
	loginResp, err := authSvc.Login(context.Background(), LoginRequest{
		Email:    "maria@example.com",
		Password: "correct-horse1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "maria@example.com"))

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordResetToken)
	token := *stored.PasswordResetToken
	assert.WithinDuration(t, time.Now().Add(time.Hour), *stored.PasswordResetExpires, time.Minute)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "brand-new-pw1"))

	stored, err = repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PasswordResetToken)
	assert.Empty(t, stored.RefreshTokens)

	ok, err := hash.VerifyPassword("brand-new-pw1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	// The revoked session cannot refresh anymore.
	_, err = authSvc.Refresh(context.Background(), loginResp.Tokens.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The token is single use.
	err = svc.ResetPassword(context.Background(), token, "another-pw12")
	require.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	repo := newMemUserRepo()
	svc := newUserService(repo)

	err := svc.ResetPassword(context.Background(), "bogus", "brand-new-pw1")
	require.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestUpdateProfile_AppliesPatch(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(repo, "maria@example.com", "correct-horse1")
	svc := newUserService(repo)

	firstName := "Mariana"
	language := "en"
	notifications := false
	updated, err := svc.UpdateProfile(context.Background(), user.ID, domain.ProfilePatch{
		FirstName:          &firstName,
		Language:           &language,
		EmailNotifications: &notifications,
	})
	require.NoError(t, err)

	assert.Equal(t, "Mariana", updated.FirstName)
	assert.Equal(t, "Silva", updated.LastName) // untouched
	assert.Equal(t, "en", updated.Language)
	assert.False(t, updated.EmailNotifications)
}

func TestDeleteAccount_WrongPassword(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(repo, "maria@example.com", "correct-horse1")
	svc := newUserService(repo)

	err := svc.DeleteAccount(context.Background(), user.ID, "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
}

func TestDeleteAccount_Success(t *testing.T) {
	repo := newMemUserRepo()
	user := seedUser(repo, "maria@example.com", "correct-horse1")
	svc := newUserService(repo)

	require.NoError(t, svc.DeleteAccount(context.Background(), user.ID, "correct-horse1"))

	_, err := svc.GetByID(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}
