package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smarttransit/station-booking/internal/database"
	"github.com/smarttransit/station-booking/internal/models"
)

// TripHandler handles trip endpoints
type TripHandler struct {
	tripRepo *database.TripRepository
	busRepo  *database.BusRepository
	logger   *logrus.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(tripRepo *database.TripRepository, busRepo *database.BusRepository, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		tripRepo: tripRepo,
		busRepo:  busRepo,
		logger:   logger,
	}
}

// ListTrips handles GET /api/v1/trips?source=&destination=
func (h *TripHandler) ListTrips(c *gin.Context) {
	filter := models.TripFilter{
		Source:      strings.TrimSpace(c.Query("source")),
		Destination: strings.TrimSpace(c.Query("destination")),
	}

	summaries, err := h.tripRepo.ListSummaries(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}

	items := make([]models.TripListItem, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, models.NewTripListItem(s))
	}
	c.JSON(http.StatusOK, items)
}

// GetTrip handles GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	trip, err := h.tripRepo.GetByID(ctx, id)
	if err != nil {
		respondError(c, h.logger, err, "Trip not found")
		return
	}
	if trip == nil {
		notFound(c, "Trip not found")
		return
	}

	bus, err := h.busRepo.GetByID(ctx, trip.BusID)
	if err != nil {
		respondError(c, h.logger, err, "Bus not found")
		return
	}
	if bus == nil {
		notFound(c, "Bus not found")
		return
	}

	takenSeats, err := h.tripRepo.TakenSeats(ctx, id)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}

	c.JSON(http.StatusOK, models.NewTripDetail(*trip, *bus, takenSeats))
}

// CreateTrip handles POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.logger, models.NewValidationError(models.ErrInvalidInput, "trip", err.Error()), "")
		return
	}

	trip, err := h.tripRepo.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"trip_id": trip.ID,
		"bus_id":  trip.BusID,
	}).Info("Trip created")
	c.JSON(http.StatusCreated, trip)
}

// UpdateTrip handles PUT /api/v1/trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.logger, models.NewValidationError(models.ErrInvalidInput, "trip", err.Error()), "")
		return
	}

	trip, err := h.tripRepo.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err, "Trip not found")
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DeleteTrip handles DELETE /api/v1/trips/:id; the trip's tickets are removed with it
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.tripRepo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Trip not found")
		return
	}

	h.logger.WithField("trip_id", id).Info("Trip deleted")
	c.Status(http.StatusNoContent)
}
