package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/station-booking/internal/database"
	"github.com/smarttransit/station-booking/internal/middleware"
)

// setupTestDB creates a mock database for testing
func setupTestDB(t *testing.T) (*database.PostgresDB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return &database.PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}, mock
}

// setupTestRouter returns a router whose requests run as the given user
func setupTestRouter(userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserContextKey, middleware.UserContext{
			UserID: userID,
			Email:  "ada@example.com",
			Roles:  []string{"user", "admin"},
		})
		c.Next()
	})
	return router
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
