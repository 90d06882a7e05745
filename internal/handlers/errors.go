package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smarttransit/station-booking/internal/database"
	"github.com/smarttransit/station-booking/internal/models"
	"github.com/smarttransit/station-booking/internal/services"
	"github.com/smarttransit/station-booking/pkg/validator"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ValidationDetails locates a validation failure in the request body
type ValidationDetails struct {
	Field  string            `json:"field"`
	Ticket *models.TicketRef `json:"ticket,omitempty"`
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: message,
		Code:    "INVALID_REQUEST",
	})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   "not_found",
		Message: message,
		Code:    "NOT_FOUND",
	})
}

// respondError maps a service or repository error to its HTTP response.
// Unknown errors are logged and reported as 500 without their text.
func respondError(c *gin.Context, logger *logrus.Logger, err error, notFoundMessage string) {
	if ve, ok := models.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: ve.Message,
			Code:    ve.Code(),
			Details: ValidationDetails{Field: ve.Field, Ticket: ve.Ticket},
		})
		return
	}

	switch {
	case errors.Is(err, sql.ErrNoRows),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrUserNotFound):
		notFound(c, notFoundMessage)
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
			Code:    "EMAIL_TAKEN",
		})
	case errors.Is(err, database.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: "A record with the same unique value already exists",
			Code:    "CONFLICT",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: err.Error(),
			Code:    "INVALID_CREDENTIALS",
		})
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
			Code:    "INTERNAL_ERROR",
		})
	}
}

// pathID parses a positive integer path parameter; it writes a 404 and returns false otherwise
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := validator.ParseID(c.Param(name))
	if err != nil {
		notFound(c, "Not found")
		return 0, false
	}
	return id, true
}
