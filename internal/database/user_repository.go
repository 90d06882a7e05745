package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/smarttransit/station-booking/internal/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, is_staff, last_login_at, created_at, updated_at`

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser inserts a new non-staff user. A taken email returns ErrConflict.
func (r *UserRepository) CreateUser(ctx context.Context, email, passwordHash string, firstName, lastName *string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		FirstName:    models.NewNullString(firstName),
		LastName:     models.NewNullString(lastName),
	}

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email, or nil when none exists
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID, or nil when none exists
func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// UpdateProfile updates names and, when passwordHash is non-nil, the password
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, passwordHash *string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET first_name = COALESCE($1, first_name),
		    last_name = COALESCE($2, last_name),
		    password_hash = COALESCE($3, password_hash),
		    updated_at = NOW()
		WHERE id = $4
	`, firstName, lastName, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateLastLogin stamps the user's last successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// SetStaff grants or revokes staff (admin) rights
func (r *UserRepository) SetStaff(ctx context.Context, email string, isStaff bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_staff = $1, updated_at = NOW() WHERE email = $2`,
		isStaff, strings.ToLower(email),
	)
	if err != nil {
		return fmt.Errorf("failed to update staff flag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
