package service

import (
	"time"

	"github.com/Matheus-Bassini/viralcut/internal/domain"
)

// LockoutPolicy tracks consecutive failed login attempts on the user record
// and opens a temporary lock window at the threshold. It only mutates the
// record; the caller persists it.
type LockoutPolicy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

func NewLockoutPolicy(maxAttempts int, lockDuration time.Duration) *LockoutPolicy {
	return &LockoutPolicy{
		MaxAttempts:  maxAttempts,
		LockDuration: lockDuration,
	}
}

// IsLocked reports whether login must be rejected outright, before any
// credential is verified.
func (p *LockoutPolicy) IsLocked(u *domain.User, now time.Time) bool {
	return u.IsLocked(now)
}

// OnFailure records a failed password or second-factor check. A lock whose
// window has already passed restarts the count at 1; otherwise the counter
// advances and the lock opens once it reaches the threshold.
func (p *LockoutPolicy) OnFailure(u *domain.User, now time.Time) {
	if u.LockUntil != nil && u.LockUntil.Before(now) {
		u.LockUntil = nil
		u.LoginAttempts = 1
		return
	}

	u.LoginAttempts++
	if u.LoginAttempts >= p.MaxAttempts && !u.IsLocked(now) {
		lockUntil := now.Add(p.LockDuration)
		u.LockUntil = &lockUntil
	}
}

// OnSuccess clears the counter and any expired lock after a fully
// successful login.
func (p *LockoutPolicy) OnSuccess(u *domain.User) {
	u.LoginAttempts = 0
	u.LockUntil = nil
}
