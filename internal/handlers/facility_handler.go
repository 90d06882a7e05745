package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smarttransit/station-booking/internal/database"
	"github.com/smarttransit/station-booking/internal/models"
)

// FacilityHandler handles bus facility endpoints
type FacilityHandler struct {
	facilityRepo *database.FacilityRepository
	logger       *logrus.Logger
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(facilityRepo *database.FacilityRepository, logger *logrus.Logger) *FacilityHandler {
	return &FacilityHandler{facilityRepo: facilityRepo, logger: logger}
}

// ListFacilities handles GET /api/v1/facilities
func (h *FacilityHandler) ListFacilities(c *gin.Context) {
	facilities, err := h.facilityRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusOK, facilities)
}

// GetFacility handles GET /api/v1/facilities/:id
func (h *FacilityHandler) GetFacility(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	facility, err := h.facilityRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Facility not found")
		return
	}
	if facility == nil {
		notFound(c, "Facility not found")
		return
	}
	c.JSON(http.StatusOK, facility)
}

// CreateFacility handles POST /api/v1/facilities
func (h *FacilityHandler) CreateFacility(c *gin.Context) {
	var req models.FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.logger, models.NewValidationError(models.ErrInvalidInput, "name", err.Error()), "")
		return
	}

	facility, err := h.facilityRepo.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusCreated, facility)
}

// UpdateFacility handles PUT /api/v1/facilities/:id
func (h *FacilityHandler) UpdateFacility(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.logger, models.NewValidationError(models.ErrInvalidInput, "name", err.Error()), "")
		return
	}

	facility, err := h.facilityRepo.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, h.logger, err, "Facility not found")
		return
	}
	c.JSON(http.StatusOK, facility)
}

// DeleteFacility handles DELETE /api/v1/facilities/:id
func (h *FacilityHandler) DeleteFacility(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.facilityRepo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Facility not found")
		return
	}
	c.Status(http.StatusNoContent)
}
