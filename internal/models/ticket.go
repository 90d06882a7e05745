package models

import (
	"fmt"
)

// Ticket is a single seat reservation for one trip inside one order.
// Construct it with NewTicket; there is no other sanctioned way to build one
// for persistence.
type Ticket struct {
	ID      int64 `json:"id" db:"id"`
	Seat    int   `json:"seat" db:"seat"`
	TripID  int64 `json:"trip" db:"trip_id"`
	OrderID int64 `json:"-" db:"order_id"`
}

// ValidateSeat checks that seat lies in [1, capacity]
func ValidateSeat(seat, capacity int) error {
	if seat < 1 || seat > capacity {
		return NewValidationError(
			ErrCapacityViolation,
			"seat",
			fmt.Sprintf("seat must be in range [1, %d], got %d", capacity, seat),
		)
	}
	return nil
}

// NewTicket builds a ticket for the trip after checking the seat against the
// capacity of the trip's bus. The bus must be the one referenced by trip.BusID.
func NewTicket(seat int, trip Trip, bus Bus, orderID int64) (Ticket, error) {
	if trip.BusID != bus.ID {
		return Ticket{}, fmt.Errorf("bus %d does not serve trip %d", bus.ID, trip.ID)
	}
	if err := ValidateSeat(seat, trip.Capacity(bus)); err != nil {
		return Ticket{}, err
	}
	return Ticket{
		Seat:    seat,
		TripID:  trip.ID,
		OrderID: orderID,
	}, nil
}

// TicketRequest is one requested (seat, trip) line of an order
type TicketRequest struct {
	Seat   int   `json:"seat"`
	TripID int64 `json:"trip"`
}

// OrderTicket is a stored ticket with the list view of its trip
type OrderTicket struct {
	ID   int64        `json:"id"`
	Seat int          `json:"seat"`
	Trip TripListItem `json:"trip"`
}
