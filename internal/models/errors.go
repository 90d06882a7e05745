package models

import (
	"errors"
	"fmt"
)

// Booking error kinds. Use errors.Is against a *ValidationError to classify it.
var (
	ErrCapacityViolation = errors.New("capacity violation")
	ErrDuplicateSeat     = errors.New("duplicate seat")
	ErrEmptyOrder        = errors.New("empty order")
	ErrMissingRelation   = errors.New("missing relation")
	ErrInvalidInput      = errors.New("invalid input")
)

// TicketRef identifies the request line a validation error belongs to
type TicketRef struct {
	Line   int   `json:"line"`
	Seat   int   `json:"seat"`
	TripID int64 `json:"trip"`
}

// ValidationError is a caller-correctable error scoped to a single field
type ValidationError struct {
	Kind    error
	Field   string
	Message string
	Ticket  *TicketRef
}

// NewValidationError creates a field-scoped validation error of the given kind
func NewValidationError(kind error, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Ticket != nil {
		return fmt.Sprintf("tickets[%d] (seat %d, trip %d): %s: %s",
			e.Ticket.Line, e.Ticket.Seat, e.Ticket.TripID, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// AtTicket returns a copy of the error annotated with the failing request line
func (e *ValidationError) AtTicket(line, seat int, tripID int64) *ValidationError {
	annotated := *e
	annotated.Ticket = &TicketRef{Line: line, Seat: seat, TripID: tripID}
	return &annotated
}

// Code returns the machine-readable error code used in API responses
func (e *ValidationError) Code() string {
	switch {
	case errors.Is(e.Kind, ErrCapacityViolation):
		return "CAPACITY_VIOLATION"
	case errors.Is(e.Kind, ErrDuplicateSeat):
		return "DUPLICATE_SEAT"
	case errors.Is(e.Kind, ErrEmptyOrder):
		return "EMPTY_ORDER"
	case errors.Is(e.Kind, ErrMissingRelation):
		return "MISSING_RELATION"
	default:
		return "VALIDATION_ERROR"
	}
}

// AsValidationError unwraps err into a *ValidationError if it is one
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
