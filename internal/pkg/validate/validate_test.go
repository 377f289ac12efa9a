package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginPayload struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(&loginPayload{Email: "a@x.com", OTP: "123456"}))
}

func TestStruct_UsesJSONFieldNames(t *testing.T) {
	err := Struct(&loginPayload{Email: "nope", OTP: "12345"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "otp must be exactly 6 characters")
	assert.NotContains(t, err.Error(), "Email")
}

func TestStruct_RequiredAndNumeric(t *testing.T) {
	err := Struct(&loginPayload{OTP: "abcdef"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email is required")
	assert.Contains(t, err.Error(), "otp must contain only digits")
}
