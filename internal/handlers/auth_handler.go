package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smarttransit/station-booking/internal/middleware"
	"github.com/smarttransit/station-booking/internal/models"
	"github.com/smarttransit/station-booking/internal/services"
)

// AuthHandler handles account endpoints
type AuthHandler struct {
	authService *services.AuthService
	logger      *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /api/v1/user/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "User not found")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login handles POST /api/v1/user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile handles GET /api/v1/user/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	user, err := h.authService.GetProfile(c.Request.Context(), userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err, "User profile not found")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/v1/user/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userCtx.UserID, &req)
	if err != nil {
		respondError(c, h.logger, err, "User profile not found")
		return
	}

	c.JSON(http.StatusOK, user)
}
