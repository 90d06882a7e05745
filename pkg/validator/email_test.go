package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailValidator(t *testing.T) {
	validator := NewEmailValidator()
	assert.NotNil(t, validator)
}

func TestValidate_ValidEmails(t *testing.T) {
	validator := NewEmailValidator()

	validEmails := []struct {
		input    string
		expected string
		name     string
	}{
		{"test@test.test", "test@test.test", "Simple"},
		{"  Ada@Example.COM ", "ada@example.com", "Trimmed and lower-cased"},
		{"first.last+tag@sub.example.org", "first.last+tag@sub.example.org", "Plus tag and subdomain"},
	}

	for _, tc := range validEmails {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidate_InvalidEmails(t *testing.T) {
	validator := NewEmailValidator()

	invalidEmails := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyEmail, "Empty"},
		{"   ", ErrEmptyEmail, "Whitespace only"},
		{"no-at-sign", ErrInvalidEmail, "Missing at sign"},
		{"Ada <ada@example.com>", ErrInvalidEmail, "Display name form"},
		{"ada@@example.com", ErrInvalidEmail, "Double at sign"},
		{strings.Repeat("a", 250) + "@example.com", ErrEmailTooLong, "Longer than the column"},
	}

	for _, tc := range invalidEmails {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.False(t, validator.IsValid(tc.input))
		})
	}
}
