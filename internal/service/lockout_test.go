package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matheus-Bassini/viralcut/internal/domain"
)

func TestLockout_OpensAtThreshold(t *testing.T) {
	policy := NewLockoutPolicy(5, 2*time.Hour)
	user := &domain.User{}
	now := time.Now()

	for i := 0; i < 4; i++ {
		policy.OnFailure(user, now)
		assert.False(t, policy.IsLocked(user, now), "no lock before the threshold")
	}

	policy.OnFailure(user, now)
	require.True(t, policy.IsLocked(user, now))
	require.NotNil(t, user.LockUntil)
	assert.WithinDuration(t, now.Add(2*time.Hour), *user.LockUntil, time.Second)
}

func TestLockout_FurtherFailuresKeepExistingWindow(t *testing.T) {
	policy := NewLockoutPolicy(5, 2*time.Hour)
	user := &domain.User{}
	now := time.Now()

	for i := 0; i < 5; i++ {
		policy.OnFailure(user, now)
	}
	first := *user.LockUntil

	policy.OnFailure(user, now.Add(time.Minute))
	assert.Equal(t, first, *user.LockUntil, "an open lock window is not extended")
}

func TestLockout_ExpiredWindowRestartsCount(t *testing.T) {
	policy := NewLockoutPolicy(5, 2*time.Hour)
	user := &domain.User{LoginAttempts: 5}
	past := time.Now().Add(-time.Minute)
	user.LockUntil = &past

	now := time.Now()
	assert.False(t, policy.IsLocked(user, now))

	policy.OnFailure(user, now)
	assert.Equal(t, 1, user.LoginAttempts)
	assert.Nil(t, user.LockUntil)
}

func TestLockout_SuccessResets(t *testing.T) {
	policy := NewLockoutPolicy(5, 2*time.Hour)
	user := &domain.User{}
	now := time.Now()

	for i := 0; i < 5; i++ {
		policy.OnFailure(user, now)
	}

	policy.OnSuccess(user)
	assert.Equal(t, 0, user.LoginAttempts)
	assert.Nil(t, user.LockUntil)
	assert.False(t, policy.IsLocked(user, now))
}
