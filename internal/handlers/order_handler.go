package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smarttransit/station-booking/internal/middleware"
	"github.com/smarttransit/station-booking/internal/models"
	"github.com/smarttransit/station-booking/internal/services"
)

// OrderHandler handles the authenticated user's orders
type OrderHandler struct {
	orderService *services.OrderService
	paginator    Paginator
	logger       *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *services.OrderService, paginator Paginator, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		paginator:    paginator,
		logger:       logger,
	}
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	page, ok := h.paginator.Params(c)
	if !ok {
		return
	}

	items, total, err := h.orderService.ListOrders(c.Request.Context(), userCtx.UserID, page)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}

	resp, ok := h.paginator.Response(c, page, total, items)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetOrder handles GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), userCtx.UserID, id)
	if err != nil {
		respondError(c, h.logger, err, "Order not found")
		return
	}
	c.JSON(http.StatusOK, models.NewOrderResponse(*order))
}

// CreateOrder handles POST /api/v1/orders.
// Body: {"tickets": [{"seat": 1, "trip": 3}, ...]}; every ticket is booked or none is.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), userCtx.UserID, &req)
	if err != nil {
		respondError(c, h.logger, err, "")
		return
	}
	c.JSON(http.StatusCreated, models.NewOrderResponse(*order))
}

// CancelOrder handles DELETE /api/v1/orders/:id
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userCtx, _ := middleware.GetUserContext(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.CancelOrder(c.Request.Context(), userCtx.UserID, id); err != nil {
		respondError(c, h.logger, err, "Order not found")
		return
	}
	c.Status(http.StatusNoContent)
}
