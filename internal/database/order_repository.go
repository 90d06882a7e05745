package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/smarttransit/station-booking/internal/models"
)

// OrderRepository handles order and ticket database operations
type OrderRepository struct {
	db DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// tripCapacity is a trip with the seat count of its bus
type tripCapacity struct {
	TripID   int64 `db:"trip_id"`
	BusID    int64 `db:"bus_id"`
	NumSeats int   `db:"num_seats"`
}

// CreateWithTickets creates an order and all of its tickets in one
// transaction. The first failing line aborts the transaction and is
// reported as a *models.ValidationError annotated with that line.
func (r *OrderRepository) CreateWithTickets(ctx context.Context, userID uuid.UUID, lines []models.TicketRequest) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, models.NewValidationError(models.ErrEmptyOrder, "tickets", "order must contain at least one ticket")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	order := &models.Order{UserID: userID}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO orders (user_id) VALUES ($1) RETURNING id, created_at`,
		userID,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	capacities := make(map[int64]tripCapacity)
	order.Tickets = make([]models.Ticket, 0, len(lines))

	for i, line := range lines {
		capacity, err := loadTripCapacity(ctx, tx, line.TripID, capacities)
		if err != nil {
			return nil, atLine(err, i, line)
		}

		trip := models.Trip{ID: capacity.TripID, BusID: capacity.BusID}
		bus := models.Bus{ID: capacity.BusID, NumSeats: capacity.NumSeats}

		ticket, err := models.NewTicket(line.Seat, trip, bus, order.ID)
		if err != nil {
			return nil, atLine(err, i, line)
		}

		if err := insertTicket(ctx, tx, &ticket); err != nil {
			return nil, atLine(err, i, line)
		}
		order.Tickets = append(order.Tickets, ticket)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return order, nil
}

// loadTripCapacity reads the bus capacity of a trip inside tx, once per trip
func loadTripCapacity(ctx context.Context, tx *sqlx.Tx, tripID int64, cache map[int64]tripCapacity) (tripCapacity, error) {
	if c, ok := cache[tripID]; ok {
		return c, nil
	}

	var c tripCapacity
	err := tx.GetContext(ctx, &c, `
		SELECT t.id AS trip_id, t.bus_id, b.num_seats
		FROM trips t
		JOIN buses b ON b.id = t.bus_id
		WHERE t.id = $1
	`, tripID)
	if err != nil {
		if err == sql.ErrNoRows {
			return tripCapacity{}, models.NewValidationError(models.ErrMissingRelation, "trip", "trip does not exist")
		}
		return tripCapacity{}, fmt.Errorf("failed to load trip capacity: %w", err)
	}

	cache[tripID] = c
	return c, nil
}

// insertTicket is the only statement that writes tickets. The ticket must
// come from models.NewTicket.
func insertTicket(ctx context.Context, tx *sqlx.Tx, ticket *models.Ticket) error {
	err := tx.QueryRowxContext(ctx,
		`INSERT INTO tickets (seat, trip_id, order_id) VALUES ($1, $2, $3) RETURNING id`,
		ticket.Seat, ticket.TripID, ticket.OrderID,
	).Scan(&ticket.ID)
	if err != nil {
		if translated := translateTicketError(err); translated != err {
			return translated
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// atLine annotates a validation error with the request line it came from
func atLine(err error, index int, line models.TicketRequest) error {
	if ve, ok := models.AsValidationError(err); ok {
		return ve.AtTicket(index, line.Seat, line.TripID)
	}
	return fmt.Errorf("tickets[%d]: %w", index, err)
}

// ListByUser returns one page of the user's orders, newest first, with
// their tickets, and the user's total order count
func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page models.PageParams) ([]models.Order, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	orders := []models.Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT id, created_at, user_id
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	if err := r.attachTickets(ctx, orders); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// GetByIDForUser returns the user's order with its tickets, or nil when the
// order does not exist or belongs to someone else
func (r *OrderRepository) GetByIDForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.GetContext(ctx, &order,
		`SELECT id, created_at, user_id FROM orders WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	orders := []models.Order{order}
	if err := r.attachTickets(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// Delete removes the user's order and its tickets. Returns sql.ErrNoRows when
// the order does not exist or belongs to someone else.
func (r *OrderRepository) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *OrderRepository) attachTickets(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids = append(ids, o.ID)
		index[o.ID] = i
		orders[i].Tickets = []models.Ticket{}
	}

	var tickets []models.Ticket
	err := r.db.SelectContext(ctx, &tickets,
		`SELECT id, seat, trip_id, order_id FROM tickets WHERE order_id = ANY($1) ORDER BY id`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to load order tickets: %w", err)
	}

	for _, t := range tickets {
		i := index[t.OrderID]
		orders[i].Tickets = append(orders[i].Tickets, t)
	}
	return nil
}
