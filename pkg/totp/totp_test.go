package totp

import (
	"testing"
	"time"

	pqtotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	secret, url, err := GenerateSecret("ViralCut Pro", "maria@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.Contains(t, url, "otpauth://totp/")
	assert.Contains(t, url, "maria@example.com")
}

func TestVerify_SkewWindow(t *testing.T) {
	secret, _, err := GenerateSecret("ViralCut Pro", "maria@example.com")
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 15, 0, time.UTC)
	timeNow = func() time.Time { return now }
	defer func() { timeNow = time.Now }()

	cases := []struct {
		name   string
		offset time.Duration
		want   bool
	}{
		{"current step", 0, true},
		{"two steps behind", -2 * Period * time.Second, true},
		{"two steps ahead", 2 * Period * time.Second, true},
		{"three steps behind", -3 * Period * time.Second, false},
		{"three steps ahead", 3 * Period * time.Second, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, err := pqtotp.GenerateCode(secret, now.Add(tc.offset))
			require.NoError(t, err)
			assert.Equal(t, tc.want, Verify(secret, code))
		})
	}
}

func TestVerify_RejectsBadInput(t *testing.T) {
	secret, _, err := GenerateSecret("ViralCut Pro", "maria@example.com")
	require.NoError(t, err)

	assert.False(t, Verify(secret, ""))
	assert.False(t, Verify(secret, "abcdef"))
	assert.False(t, Verify(secret, "12345"))
	assert.False(t, Verify("", "123456"))
}
