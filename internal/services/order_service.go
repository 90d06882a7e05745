package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smarttransit/station-booking/internal/models"
)

// ErrOrderNotFound is returned when an order does not exist or belongs to another user
var ErrOrderNotFound = errors.New("order not found")

// OrderStore is the order persistence the booking service needs
type OrderStore interface {
	CreateWithTickets(ctx context.Context, userID uuid.UUID, lines []models.TicketRequest) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page models.PageParams) ([]models.Order, int, error)
	GetByIDForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.Order, error)
	Delete(ctx context.Context, id int64, userID uuid.UUID) error
}

// TripSummaryStore loads the list view data of trips
type TripSummaryStore interface {
	SummariesByIDs(ctx context.Context, ids []int64) (map[int64]models.TripSummary, error)
}

// OrderService books seats and reads a user's orders
type OrderService struct {
	orders OrderStore
	trips  TripSummaryStore
	logger *logrus.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orders OrderStore, trips TripSummaryStore, logger *logrus.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		trips:  trips,
		logger: logger,
	}
}

// CreateOrder books every requested seat for the user or nothing at all.
// Request-level problems (no lines, the same seat twice) are rejected before
// any write.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {
	log := s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"tickets": len(req.Tickets),
	})

	if err := req.Validate(); err != nil {
		log.WithError(err).Warn("Order rejected before booking")
		return nil, err
	}

	order, err := s.orders.CreateWithTickets(ctx, userID, req.Tickets)
	if err != nil {
		if ve, ok := models.AsValidationError(err); ok {
			entry := log.WithField("code", ve.Code())
			if ve.Ticket != nil {
				entry = entry.WithFields(logrus.Fields{
					"line": ve.Ticket.Line,
					"seat": ve.Ticket.Seat,
					"trip": ve.Ticket.TripID,
				})
			}
			entry.Warn("Order rejected")
			return nil, err
		}
		log.WithError(err).Error("Order creation failed")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	log.WithField("order_id", order.ID).Info("Order created")
	return order, nil
}

// ListOrders returns one page of the user's orders with trip summaries and the total count
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, page models.PageParams) ([]models.OrderListItem, int, error) {
	orders, total, err := s.orders.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, 0, err
	}

	var tripIDs []int64
	seen := make(map[int64]bool)
	for _, o := range orders {
		for _, t := range o.Tickets {
			if !seen[t.TripID] {
				seen[t.TripID] = true
				tripIDs = append(tripIDs, t.TripID)
			}
		}
	}

	trips, err := s.trips.SummariesByIDs(ctx, tripIDs)
	if err != nil {
		return nil, 0, err
	}

	items := make([]models.OrderListItem, 0, len(orders))
	for _, o := range orders {
		items = append(items, models.NewOrderListItem(o, trips))
	}
	return items, total, nil
}

// GetOrder returns one of the user's orders
func (s *OrderService) GetOrder(ctx context.Context, userID uuid.UUID, orderID int64) (*models.Order, error) {
	order, err := s.orders.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CancelOrder deletes one of the user's orders, releasing its seats
func (s *OrderService) CancelOrder(ctx context.Context, userID uuid.UUID, orderID int64) error {
	if err := s.orders.Delete(ctx, orderID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"order_id": orderID,
	}).Info("Order cancelled")
	return nil
}
