package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Matheus-Bassini/viralcut/internal/domain"
	"github.com/Matheus-Bassini/viralcut/internal/repository"
)

const userColumns = `
	id, email, password_hash, first_name, last_name,
	is_active, is_email_verified,
	subscription_plan, subscription_status, subscription_end_date,
	videos_processed_this_month, total_videos_processed, storage_used,
	two_factor_enabled, two_factor_secret, two_factor_backup_codes,
	language, timezone, email_notifications, avatar, bio,
	login_attempts, lock_until,
	password_reset_token, password_reset_expires,
	email_verification_token, email_verification_expires,
	refresh_tokens,
	last_login, last_active_at, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			is_active, is_email_verified,
			subscription_plan, subscription_status, subscription_end_date,
			videos_processed_this_month, total_videos_processed, storage_used,
			two_factor_enabled, two_factor_secret, two_factor_backup_codes,
			language, timezone, email_notifications, avatar, bio,
			login_attempts, lock_until,
			password_reset_token, password_reset_expires,
			email_verification_token, email_verification_expires,
			refresh_tokens,
			last_login, last_active_at, created_at, updated_at
		) VALUES (
			:id, :email, :password_hash, :first_name, :last_name,
			:is_active, :is_email_verified,
			:subscription_plan, :subscription_status, :subscription_end_date,
			:videos_processed_this_month, :total_videos_processed, :storage_used,
			:two_factor_enabled, :two_factor_secret, :two_factor_backup_codes,
			:language, :timezone, :email_notifications, :avatar, :bio,
			:login_attempts, :lock_until,
			:password_reset_token, :password_reset_expires,
			:email_verification_token, :email_verification_expires,
			:refresh_tokens,
			:last_login, :last_active_at, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		var pqErr *pq.Error
		// unique_violation on the email index
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("email already registered: %w", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by their normalized email address
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email = $1`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// GetByPasswordResetToken retrieves a user whose reset token matches and
// has not expired yet
func (r *userRepository) GetByPasswordResetToken(ctx context.Context, token string) (*domain.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE password_reset_token = $1 AND password_reset_expires > NOW()`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by password reset token: %w", err)
	}

	return &user, nil
}

// GetByVerificationToken retrieves a user whose email verification token
// matches and has not expired yet
func (r *userRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE email_verification_token = $1 AND email_verification_expires > NOW()`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by verification token: %w", err)
	}

	return &user, nil
}

// Update writes the full user record back to the database
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET email = :email,
			password_hash = :password_hash,
			first_name = :first_name,
			last_name = :last_name,
			is_active = :is_active,
			is_email_verified = :is_email_verified,
			subscription_plan = :subscription_plan,
			subscription_status = :subscription_status,
			subscription_end_date = :subscription_end_date,
			videos_processed_this_month = :videos_processed_this_month,
			total_videos_processed = :total_videos_processed,
			storage_used = :storage_used,
			two_factor_enabled = :two_factor_enabled,
			two_factor_secret = :two_factor_secret,
			two_factor_backup_codes = :two_factor_backup_codes,
			language = :language,
			timezone = :timezone,
			email_notifications = :email_notifications,
			avatar = :avatar,
			bio = :bio,
			login_attempts = :login_attempts,
			lock_until = :lock_until,
			password_reset_token = :password_reset_token,
			password_reset_expires = :password_reset_expires,
			email_verification_token = :email_verification_token,
			email_verification_expires = :email_verification_expires,
			refresh_tokens = :refresh_tokens,
			last_login = :last_login,
			last_active_at = :last_active_at,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a user from the database
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
