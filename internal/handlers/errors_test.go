package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/smarttransit/station-booking/internal/database"
	"github.com/smarttransit/station-booking/internal/logger"
	"github.com/smarttransit/station-booking/internal/services"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"Missing row", fmt.Errorf("load: %w", sql.ErrNoRows), http.StatusNotFound, "NOT_FOUND"},
		{"Duplicate", database.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"Taken email", services.ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{"Bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"Throttle from a handler", &services.RateLimitError{Message: "slow down", RetryAfter: time.Second}, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(uuid.New())
			router.GET("/fail", func(c *gin.Context) {
				respondError(c, logger.Discard(), tt.err, "Thing not found")
			})

			w := performRequest(router, http.MethodGet, "/fail", "")
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
			assert.Empty(t, w.Header().Get("Retry-After"))
		})
	}
}
