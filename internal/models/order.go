package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Order groups the tickets a user booked in one request
type Order struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UserID    uuid.UUID `json:"-" db:"user_id"`

	Tickets []Ticket `json:"tickets" db:"-"`
}

// CreateOrderRequest is the order creation payload
type CreateOrderRequest struct {
	Tickets []TicketRequest `json:"tickets"`
}

// Validate rejects empty orders and repeated (seat, trip) pairs before any
// write. Capacity and existence checks need storage and happen in the
// transaction.
func (r *CreateOrderRequest) Validate() error {
	if len(r.Tickets) == 0 {
		return NewValidationError(ErrEmptyOrder, "tickets", "order must contain at least one ticket")
	}

	type seatKey struct {
		seat   int
		tripID int64
	}
	firstLine := make(map[seatKey]int, len(r.Tickets))

	for i, t := range r.Tickets {
		if t.TripID <= 0 {
			return NewValidationError(ErrMissingRelation, "trip", "trip is required").
				AtTicket(i, t.Seat, t.TripID)
		}
		key := seatKey{seat: t.Seat, tripID: t.TripID}
		if prev, ok := firstLine[key]; ok {
			return NewValidationError(
				ErrDuplicateSeat,
				"seat",
				fmt.Sprintf("seat %d on trip %d is requested more than once (also at line %d)", t.Seat, t.TripID, prev),
			).AtTicket(i, t.Seat, t.TripID)
		}
		firstLine[key] = i
	}
	return nil
}

// OrderResponse is the create/retrieve view of an order
type OrderResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Tickets   []Ticket  `json:"tickets"`
}

// NewOrderResponse builds the create/retrieve view of an order
func NewOrderResponse(o Order) OrderResponse {
	tickets := o.Tickets
	if tickets == nil {
		tickets = []Ticket{}
	}
	return OrderResponse{
		ID:        o.ID,
		CreatedAt: o.CreatedAt,
		Tickets:   tickets,
	}
}

// OrderListItem is the list view of an order; each ticket carries its trip summary
type OrderListItem struct {
	ID        int64         `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Tickets   []OrderTicket `json:"tickets"`
}

// NewOrderListItem builds the list view of an order from the trip summaries
// of its tickets, keyed by trip id
func NewOrderListItem(o Order, trips map[int64]TripSummary) OrderListItem {
	tickets := make([]OrderTicket, 0, len(o.Tickets))
	for _, t := range o.Tickets {
		tickets = append(tickets, OrderTicket{
			ID:   t.ID,
			Seat: t.Seat,
			Trip: NewTripListItem(trips[t.TripID]),
		})
	}
	return OrderListItem{
		ID:        o.ID,
		CreatedAt: o.CreatedAt,
		Tickets:   tickets,
	}
}
