package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/smarttransit/station-booking/internal/database"
	"github.com/smarttransit/station-booking/internal/models"
	"github.com/smarttransit/station-booking/pkg/jwt"
	"github.com/smarttransit/station-booking/pkg/validator"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an email that already has an account
	ErrEmailTaken = errors.New("email is already registered")

	// ErrUserNotFound is returned when the token subject no longer exists
	ErrUserNotFound = errors.New("user not found")
)

// UserStore is the user persistence the auth service needs
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string, firstName, lastName *string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, passwordHash *string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// AuthService handles account registration, login and profile updates
type AuthService struct {
	users          UserStore
	jwtService     *jwt.Service
	emailValidator *validator.EmailValidator
	bcryptCost     int
	logger         *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, jwtService *jwt.Service, bcryptCost int, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:          users,
		jwtService:     jwtService,
		emailValidator: validator.NewEmailValidator(),
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Register creates a regular (non-staff) account
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email, err := s.emailValidator.Validate(req.Email)
	if err != nil {
		return nil, models.NewValidationError(models.ErrInvalidInput, "email", err.Error())
	}
	if err := req.Validate(); err != nil {
		return nil, models.NewValidationError(models.ErrInvalidInput, "password", err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, string(hash), req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login verifies the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, s.emailValidator.Sanitize(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Roles())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}

	return &models.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtService.AccessTokenExpiry().Seconds()),
		User:        *user,
	}, nil
}

// GetProfile returns the account of the authenticated user
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes names and optionally the password, then returns the updated account
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, models.NewValidationError(models.ErrInvalidInput, "profile", err.Error())
	}

	var passwordHash *string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hashed := string(hash)
		passwordHash = &hashed
	}

	if err := s.users.UpdateProfile(ctx, userID, req.FirstName, req.LastName, passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}
