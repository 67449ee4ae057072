package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
)

func TestJWTRoundTrip(t *testing.T) {
	tok, err := SignJWT("secret", "u-1", "buyer", 5)
	require.NoError(t, err)

	claims, err := ParseJWT("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "buyer", claims.Role)

	_, err = ParseJWT("other", tok)
	assert.Error(t, err)

	expired, err := SignJWT("secret", "u-1", "buyer", -1)
	require.NoError(t, err)
	_, err = ParseJWT("secret", expired)
	assert.Error(t, err)

	_, err = ParseJWT("secret", "")
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}

func TestValidateStruct(t *testing.T) {
	type req struct {
		Email  string `json:"email" validate:"required,email"`
		Rating int    `json:"rating" validate:"min=1,max=5"`
		Role   string `json:"role" validate:"omitempty,oneof=buyer freelancer"`
	}

	assert.NoError(t, ValidateStruct(req{Email: "a@b.co", Rating: 3}))

	err := ValidateStruct(req{Email: "nope", Rating: 6, Role: "admin"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "rating must be at most 5")
	assert.Contains(t, err.Error(), "role must be one of [buyer freelancer]")
}

func TestValidateStructIDsAndBlankText(t *testing.T) {
	type req struct {
		OrderID uuid.UUID `json:"order_id" validate:"required"`
		Text    string    `json:"message" validate:"required,notblank"`
	}

	assert.NoError(t, ValidateStruct(req{OrderID: uuid.New(), Text: "hi"}))

	err := ValidateStruct(req{Text: " \t "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_id is required")
	assert.Contains(t, err.Error(), "message must not be blank")
}
