package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := HashPasswordWithCost("s3cret-password", 4)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$2"))

	ok, err := VerifyPassword("s3cret-password", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashesAreSalted(t *testing.T) {
	a, err := HashPasswordWithCost("same-password", 4)
	require.NoError(t, err)
	b, err := HashPasswordWithCost("same-password", 4)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestInvalidCostFallsBackToDefault(t *testing.T) {
	digest, err := HashPasswordWithCost("s3cret-password", 99)
	require.NoError(t, err)

	// Cost is embedded in the digest as "$2a$12$...".
	assert.Contains(t, digest, "$12$")
}

func TestVerifyMalformedDigest(t *testing.T) {
	_, err := VerifyPassword("anything", "not-a-bcrypt-digest")
	require.Error(t, err)
}
