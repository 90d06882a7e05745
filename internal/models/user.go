package models

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role names carried in access tokens
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// NullString wraps sql.NullString to provide proper JSON marshaling
type NullString struct {
	sql.NullString
}

// NewNullString returns a valid NullString, or an invalid one for a nil pointer
func NewNullString(s *string) NullString {
	if s == nil {
		return NullString{}
	}
	return NullString{sql.NullString{String: *s, Valid: true}}
}

// MarshalJSON implements json.Marshaler
func (ns NullString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.String)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (ns *NullString) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != nil {
		ns.Valid = true
		ns.String = *s
	} else {
		ns.Valid = false
	}
	return nil
}

// NullTime wraps sql.NullTime to provide proper JSON marshaling
type NullTime struct {
	sql.NullTime
}

// MarshalJSON implements json.Marshaler
func (nt NullTime) MarshalJSON() ([]byte, error) {
	if nt.Valid {
		return json.Marshal(nt.Time)
	}
	return json.Marshal(nil)
}

// User represents a customer or staff account
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never expose in JSON
	FirstName    NullString `json:"first_name" db:"first_name"`
	LastName     NullString `json:"last_name" db:"last_name"`
	IsStaff      bool       `json:"is_staff" db:"is_staff"`
	LastLoginAt  NullTime   `json:"last_login_at" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Roles returns the token roles of the user; staff accounts are admins
func (u User) Roles() []string {
	if u.IsStaff {
		return []string{RoleUser, RoleAdmin}
	}
	return []string{RoleUser}
}

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email,max=255"`
	Password  string  `json:"password" binding:"required"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Validate validates the password; email syntax is checked by the binding tags
func (r *RegisterRequest) Validate() error {
	return validatePassword(r.Password)
}

// LoginRequest is the payload for obtaining an access token
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the payload for PUT /user/me; nil fields are left unchanged
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
}

// Validate validates the update request
func (r *UpdateProfileRequest) Validate() error {
	if r.FirstName == nil && r.LastName == nil && r.Password == nil {
		return errors.New("at least one field must be provided")
	}
	if r.Password != nil {
		return validatePassword(*r.Password)
	}
	return nil
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
}

func validatePassword(password string) error {
	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}
