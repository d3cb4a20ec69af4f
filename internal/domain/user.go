package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SubscriptionPlan string

const (
	PlanFree     SubscriptionPlan = "free"
	PlanPro      SubscriptionPlan = "pro"
	PlanBusiness SubscriptionPlan = "business"
	PlanSacred   SubscriptionPlan = "sacred"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// monthlyVideoLimits maps each plan to its monthly processing quota.
// A negative limit means unlimited.
var monthlyVideoLimits = map[SubscriptionPlan]int{
	PlanFree:     5,
	PlanPro:      50,
	PlanBusiness: 200,
	PlanSacred:   -1,
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`

	IsActive        bool `json:"is_active" db:"is_active"`
	IsEmailVerified bool `json:"is_email_verified" db:"is_email_verified"`

	SubscriptionPlan    SubscriptionPlan   `json:"subscription_plan" db:"subscription_plan"`
	SubscriptionStatus  SubscriptionStatus `json:"subscription_status" db:"subscription_status"`
	SubscriptionEndDate *time.Time         `json:"subscription_end_date" db:"subscription_end_date"`

	VideosProcessedThisMonth int   `json:"videos_processed_this_month" db:"videos_processed_this_month"`
	TotalVideosProcessed     int   `json:"total_videos_processed" db:"total_videos_processed"`
	StorageUsed              int64 `json:"storage_used" db:"storage_used"`

	TwoFactorEnabled     bool           `json:"two_factor_enabled" db:"two_factor_enabled"`
	TwoFactorSecret      *string        `json:"-" db:"two_factor_secret"`
	TwoFactorBackupCodes BackupCodeList `json:"-" db:"two_factor_backup_codes"`

	Language           string  `json:"language" db:"language"`
	Timezone           string  `json:"timezone" db:"timezone"`
	EmailNotifications bool    `json:"email_notifications" db:"email_notifications"`
	Avatar             *string `json:"avatar" db:"avatar"`
	Bio                *string `json:"bio" db:"bio"`

	LoginAttempts int        `json:"-" db:"login_attempts"`
	LockUntil     *time.Time `json:"-" db:"lock_until"`

	PasswordResetToken       *string    `json:"-" db:"password_reset_token"`
	PasswordResetExpires     *time.Time `json:"-" db:"password_reset_expires"`
	EmailVerificationToken   *string    `json:"-" db:"email_verification_token"`
	EmailVerificationExpires *time.Time `json:"-" db:"email_verification_expires"`

	RefreshTokens RefreshTokenList `json:"-" db:"refresh_tokens"`

	LastLogin    *time.Time `json:"last_login" db:"last_login"`
	LastActiveAt *time.Time `json:"last_active_at" db:"last_active_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// NormalizeEmail lower-cases and trims an email the same way the store does,
// so lookups and uniqueness checks agree on the key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsLocked reports whether the lockout window is still open.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && now.Before(*u.LockUntil)
}

func (u *User) CanProcessVideo() bool {
	limit := monthlyVideoLimits[u.SubscriptionPlan]
	return limit < 0 || u.VideosProcessedThisMonth < limit
}

// RemainingQuota returns the number of videos the user may still process
// this month, or -1 for unlimited plans.
func (u *User) RemainingQuota() int {
	limit := monthlyVideoLimits[u.SubscriptionPlan]
	if limit < 0 {
		return -1
	}
	if remaining := limit - u.VideosProcessedThisMonth; remaining > 0 {
		return remaining
	}
	return 0
}

func (u *User) HasActiveSubscription(now time.Time) bool {
	return u.SubscriptionStatus == SubscriptionActive &&
		(u.SubscriptionEndDate == nil || u.SubscriptionEndDate.After(now))
}

// RefreshTokenEntry is one stored session: the exact refresh token string,
// its own expiry (shorter or longer than the JWT claim depending on
// rememberMe) and the device it was issued to.
type RefreshTokenEntry struct {
	ID         uuid.UUID `json:"id"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	DeviceInfo string    `json:"device_info"`
	CreatedAt  time.Time `json:"created_at"`
}

// RefreshTokenList is stored as a JSONB column on the users row.
type RefreshTokenList []RefreshTokenEntry

func (l RefreshTokenList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal refresh tokens: %w", err)
	}
	return string(b), nil
}

func (l *RefreshTokenList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = RefreshTokenList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for refresh token list: %T", src)
	}
}

// Find returns the entry holding the exact token string, or nil.
func (l RefreshTokenList) Find(token string) *RefreshTokenEntry {
	for i := range l {
		if l[i].Token == token {
			return &l[i]
		}
	}
	return nil
}

// Remove returns the list without the entry holding the given token.
func (l RefreshTokenList) Remove(token string) RefreshTokenList {
	out := make(RefreshTokenList, 0, len(l))
	for _, entry := range l {
		if entry.Token != token {
			out = append(out, entry)
		}
	}
	return out
}

// RemoveByID returns the list without the entry with the given session id.
func (l RefreshTokenList) RemoveByID(id uuid.UUID) RefreshTokenList {
	out := make(RefreshTokenList, 0, len(l))
	for _, entry := range l {
		if entry.ID != id {
			out = append(out, entry)
		}
	}
	return out
}

// Append adds an entry and keeps only the max most recent ones, evicting
// the oldest first. The read-modify-write against the stored row is not
// atomic; concurrent logins may each apply their own truncation.
func (l RefreshTokenList) Append(entry RefreshTokenEntry, max int) RefreshTokenList {
	out := append(l, entry)
	if len(out) > max {
		out = out[len(out)-max:]
	}
	return out
}

// BackupCode is a single-use second-factor recovery code. Used codes are
// flagged, never removed.
type BackupCode struct {
	Code string `json:"code"`
	Used bool   `json:"used"`
}

// BackupCodeList is stored as a JSONB column on the users row.
type BackupCodeList []BackupCode

func (l BackupCodeList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup codes: %w", err)
	}
	return string(b), nil
}

func (l *BackupCodeList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = BackupCodeList{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for backup code list: %T", src)
	}
}

// Consume marks the first unused code matching the input as used and
// reports whether a match was found. The caller must persist the record.
func (l BackupCodeList) Consume(code string) bool {
	for i := range l {
		if l[i].Code == code && !l[i].Used {
			l[i].Used = true
			return true
		}
	}
	return false
}

// Unused returns the codes that have not been consumed yet.
func (l BackupCodeList) Unused() []string {
	var out []string
	for _, c := range l {
		if !c.Used {
			out = append(out, c.Code)
		}
	}
	return out
}

// UsedCount returns how many codes have been consumed.
func (l BackupCodeList) UsedCount() int {
	n := 0
	for _, c := range l {
		if c.Used {
			n++
		}
	}
	return n
}
