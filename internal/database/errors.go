package database

import (
	"errors"

	"github.com/lib/pq"

	"github.com/smarttransit/station-booking/internal/models"
)

// ErrConflict is returned when a unique constraint rejects a write
var ErrConflict = errors.New("record already exists")

// PostgreSQL error codes the repositories translate
const (
	pqUniqueViolation     pq.ErrorCode = "23505"
	pqForeignKeyViolation pq.ErrorCode = "23503"
	pqCheckViolation      pq.ErrorCode = "23514"
)

// ticketSeatConstraint is the unique (seat, trip_id) constraint on tickets
const ticketSeatConstraint = "unique_ticket_seat_trip"

func pqErrorCode(err error) (pq.ErrorCode, *pq.Error) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code, pqErr
	}
	return "", nil
}

func isUniqueViolation(err error) bool {
	code, _ := pqErrorCode(err)
	return code == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	code, _ := pqErrorCode(err)
	return code == pqForeignKeyViolation
}

// translateTicketError turns a rejected ticket insert into a booking error.
// Errors that are not constraint violations are returned unchanged.
func translateTicketError(err error) error {
	code, pqErr := pqErrorCode(err)
	switch code {
	case pqUniqueViolation:
		if pqErr.Constraint != "" && pqErr.Constraint != ticketSeatConstraint {
			return err
		}
		return models.NewValidationError(models.ErrDuplicateSeat, "seat", "seat is already taken for this trip")
	case pqForeignKeyViolation:
		return models.NewValidationError(models.ErrMissingRelation, "trip", "trip does not exist")
	case pqCheckViolation:
		return models.NewValidationError(models.ErrCapacityViolation, "seat", pqErr.Message)
	}
	return err
}
