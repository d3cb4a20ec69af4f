package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Matheus-Bassini/viralcut/internal/config"
	"github.com/Matheus-Bassini/viralcut/internal/domain"
	"github.com/Matheus-Bassini/viralcut/internal/repository"
	"github.com/Matheus-Bassini/viralcut/pkg/hash"
)

// memUserRepo is an in-memory UserRepository with the same matching rules as
// the Postgres implementation: email lookups are keyed on the normalized
// address and token lookups only match unexpired tokens.
type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func cloneUser(u domain.User) *domain.User {
	c := u
	c.RefreshTokens = append(domain.RefreshTokenList(nil), u.RefreshTokens...)
	c.TwoFactorBackupCodes = append(domain.BackupCodeList(nil), u.TwoFactorBackupCodes...)
	return &c
}

func (r *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return errors.New("email already registered")
		}
	}
	r.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	normalized := domain.NormalizeEmail(email)
	for _, u := range r.users {
		if u.Email == normalized {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByPasswordResetToken(ctx context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, u := range r.users {
		if u.PasswordResetToken != nil && *u.PasswordResetToken == token &&
			u.PasswordResetExpires != nil && u.PasswordResetExpires.After(now) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, u := range r.users {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == token &&
			u.EmailVerificationExpires != nil && u.EmailVerificationExpires.After(now) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[user.ID] = *cloneUser(*user)
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// testConfig uses the minimum bcrypt cost to keep the suite fast.
func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:     "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessExpiry:     15 * time.Minute,
			RefreshExpiry:    7 * 24 * time.Hour,
			RememberMeExpiry: 30 * 24 * time.Hour,
			Issuer:           "viralcut-test",
		},
		Auth: config.AuthConfig{
			MaxFailedLogins: 5,
			LockDuration:    2 * time.Hour,
			BcryptCost:      4,
			MaxSessions:     5,
		},
	}
}

func seedUser(repo *memUserRepo, email, password string) *domain.User {
	passwordHash, err := hash.HashPasswordWithCost(password, 4)
	if err != nil {
		panic(err)
	}

	now := time.Now()
	user := &domain.User{
		ID:                 uuid.New(),
		Email:              domain.NormalizeEmail(email),
		PasswordHash:       passwordHash,
		FirstName:          "Maria",
		LastName:           "Silva",
		IsActive:           true,
		IsEmailVerified:    true,
		SubscriptionPlan:   domain.PlanFree,
		SubscriptionStatus: domain.SubscriptionActive,
		Language:           "pt-BR",
		Timezone:           "America/Sao_Paulo",
		EmailNotifications: true,
		RefreshTokens:      domain.RefreshTokenList{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}
