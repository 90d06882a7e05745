package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smarttransit/station-booking/internal/database"
	"github.com/smarttransit/station-booking/internal/models"
	"github.com/smarttransit/station-booking/pkg/validator"
)

type BusHandler struct {
	busRepo   *database.BusRepository
	paginator Paginator
	logger    *logrus.Logger
}

func NewBusHandler(busRepo *database.BusRepository, paginator Paginator, logger *logrus.Logger) *BusHandler {
	return &BusHandler{
		busRepo:   busRepo,
		paginator: paginator,
		logger:    logger,
	}
}

// GetAllBuses lists buses one page at a time, optionally only those having
// any of the facilities in ?facilities=1,2
// GET /api/v1/buses
func (h *BusHandler) GetAllBuses(c *gin.Context) {
	facilityIDs, err := validator.ParseIDList(c.Query("facilities"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	page, ok := h.paginator.Params(c)
	if !ok {
		return
	}

	buses, total, err := h.busRepo.List(c.Request.Context(), facilityIDs, page)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}

	items := make([]models.BusListItem, 0, len(buses))
	for _, b := range buses {
		items = append(items, models.NewBusListItem(b))
	}

	resp, ok := h.paginator.Response(c, page, total, items)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetBusByID retrieves a bus with its facilities
// GET /api/v1/buses/:id
func (h *BusHandler) GetBusByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	bus, err := h.busRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Bus not found")
		return
	}
	if bus == nil {
		notFound(c, "Bus not found")
		return
	}

	c.JSON(http.StatusOK, models.NewBusDetail(*bus))
}

// CreateBus creates a new bus
// POST /api/v1/buses
func (h *BusHandler) CreateBus(c *gin.Context) {
	var req models.BusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.logger, models.NewValidationError(models.ErrInvalidInput, "bus", err.Error()), "")
		return
	}

	bus, err := h.busRepo.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}

	h.logger.WithField("bus_id", bus.ID).Info("Bus created")
	c.JSON(http.StatusCreated, models.NewBusDetail(*bus))
}

// UpdateBus replaces a bus and its facility links
// PUT /api/v1/buses/:id
func (h *BusHandler) UpdateBus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.BusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, h.logger, models.NewValidationError(models.ErrInvalidInput, "bus", err.Error()), "")
		return
	}

	bus, err := h.busRepo.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err, "Bus not found")
		return
	}

	c.JSON(http.StatusOK, models.NewBusDetail(*bus))
}

// DeleteBus removes a bus along with its trips and their tickets
// DELETE /api/v1/buses/:id
func (h *BusHandler) DeleteBus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.busRepo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Bus not found")
		return
	}

	h.logger.WithField("bus_id", id).Info("Bus deleted")
	c.Status(http.StatusNoContent)
}
