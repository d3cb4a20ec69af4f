package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Language string `json:"language" validate:"omitempty,oneof=pt-BR en es"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	err := v.Validate(loginPayload{
		Email:    "maria@example.com",
		Password: "long-enough",
		Language: "pt-BR",
	})
	require.NoError(t, err)
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Validate(loginPayload{Password: "long-enough"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email is required")
}

func TestValidate_CombinesMessages(t *testing.T) {
	v := New()
	err := v.Validate(loginPayload{Email: "nope", Password: "short", Language: "fr"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "password must be at least 8 characters")
	assert.Contains(t, err.Error(), "language must be one of: pt-BR en es")
}
