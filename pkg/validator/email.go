package validator

import (
	"errors"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

var (
	// ErrEmptyEmail indicates the email address is empty
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail indicates the email address is not a valid address
	ErrInvalidEmail = errors.New("email must be a valid address like name@example.com")

	// ErrEmailTooLong indicates the email does not fit the users table
	ErrEmailTooLong = errors.New("email must be at most 255 characters")
)

// EmailRules are the validator tags applied to account emails. Request
// structs carry the same rules in their binding tags.
const EmailRules = "email,max=255"

// EmailValidator handles account email validation for callers outside the
// HTTP binding layer (services and command-line tools)
type EmailValidator struct {
	validate *playground.Validate
}

// NewEmailValidator creates a new email validator instance
func NewEmailValidator() *EmailValidator {
	return &EmailValidator{validate: playground.New()}
}

// Validate validates an email address and returns it sanitized (trimmed, lower-cased)
func (v *EmailValidator) Validate(email string) (string, error) {
	sanitized := v.Sanitize(email)
	if sanitized == "" {
		return "", ErrEmptyEmail
	}

	if len(sanitized) > 255 {
		return "", ErrEmailTooLong
	}

	if err := v.validate.Var(sanitized, EmailRules); err != nil {
		return "", ErrInvalidEmail
	}

	return sanitized, nil
}

// Sanitize trims whitespace and lower-cases the address
func (v *EmailValidator) Sanitize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValid is a convenience method that returns true if email is valid
func (v *EmailValidator) IsValid(email string) bool {
	_, err := v.Validate(email)
	return err == nil
}
