package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/smarttransit/station-booking/internal/models"
)

// tripColumns selects a trip row with departure rendered as HH:MM:SS
const tripColumns = `t.id, t.source, t.destination, to_char(t.departure, 'HH24:MI:SS') AS departure, t.bus_id`

// tripSummarySelect joins each trip with its bus and counts its tickets.
// The count is computed on every read.
const tripSummarySelect = `
	SELECT t.id, t.source, t.destination,
	       to_char(t.departure, 'HH24:MI:SS') AS departure,
	       b.info AS bus_info, b.num_seats AS bus_num_seats,
	       COUNT(tk.id) AS booked
	FROM trips t
	JOIN buses b ON b.id = t.bus_id
	LEFT JOIN tickets tk ON tk.trip_id = t.id
`

// TripRepository handles trip database operations
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts a trip; an unknown bus is reported as a missing relation
func (r *TripRepository) Create(ctx context.Context, req *models.TripRequest) (*models.Trip, error) {
	trip := &models.Trip{
		Source:      req.Source,
		Destination: req.Destination,
		Departure:   req.Departure,
		BusID:       req.BusID,
	}

	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO trips (source, destination, departure, bus_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, trip.Source, trip.Destination, trip.Departure, trip.BusID).Scan(&trip.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, missingBus()
		}
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	return trip, nil
}

// GetByID returns the trip or nil when it does not exist
func (r *TripRepository) GetByID(ctx context.Context, id int64) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.GetContext(ctx, &trip, `SELECT `+tripColumns+` FROM trips t WHERE t.id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

// Update replaces the trip fields. Returns sql.ErrNoRows when the trip does not exist.
func (r *TripRepository) Update(ctx context.Context, id int64, req *models.TripRequest) (*models.Trip, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE trips
		SET source = $1, destination = $2, departure = $3, bus_id = $4
		WHERE id = $5
	`, req.Source, req.Destination, req.Departure, req.BusID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, missingBus()
		}
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, sql.ErrNoRows
	}

	return &models.Trip{
		ID:          id,
		Source:      req.Source,
		Destination: req.Destination,
		Departure:   req.Departure,
		BusID:       req.BusID,
	}, nil
}

// Delete removes a trip; its tickets go with it
func (r *TripRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
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

// ListSummaries returns every trip matching the filter with its booked count
func (r *TripRepository) ListSummaries(ctx context.Context, filter models.TripFilter) ([]models.TripSummary, error) {
	var conditions []string
	var args []interface{}

	if filter.Source != "" {
		args = append(args, "%"+filter.Source+"%")
		conditions = append(conditions, fmt.Sprintf("t.source ILIKE $%d", len(args)))
	}
	if filter.Destination != "" {
		args = append(args, "%"+filter.Destination+"%")
		conditions = append(conditions, fmt.Sprintf("t.destination ILIKE $%d", len(args)))
	}

	query := tripSummarySelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY t.id, b.id ORDER BY t.id"

	summaries := []models.TripSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return summaries, nil
}

// SummariesByIDs returns the summaries of the given trips keyed by trip id
func (r *TripRepository) SummariesByIDs(ctx context.Context, ids []int64) (map[int64]models.TripSummary, error) {
	result := make(map[int64]models.TripSummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var summaries []models.TripSummary
	query := tripSummarySelect + " WHERE t.id = ANY($1) GROUP BY t.id, b.id ORDER BY t.id"
	if err := r.db.SelectContext(ctx, &summaries, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to load trip summaries: %w", err)
	}

	for _, s := range summaries {
		result[s.ID] = s
	}
	return result, nil
}

// TicketsAvailable returns the live remaining seat count of a trip.
// Returns sql.ErrNoRows when the trip does not exist.
func (r *TripRepository) TicketsAvailable(ctx context.Context, tripID int64) (int, error) {
	var capacity, booked int
	err := r.db.QueryRowxContext(ctx, `
		SELECT b.num_seats, (SELECT COUNT(*) FROM tickets tk WHERE tk.trip_id = t.id)
		FROM trips t
		JOIN buses b ON b.id = t.bus_id
		WHERE t.id = $1
	`, tripID).Scan(&capacity, &booked)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, err
		}
		return 0, fmt.Errorf("failed to count available tickets: %w", err)
	}
	return models.TicketsAvailable(capacity, booked), nil
}

// TakenSeats returns the booked seat numbers of a trip in ascending order
func (r *TripRepository) TakenSeats(ctx context.Context, tripID int64) ([]int, error) {
	seats := []int{}
	err := r.db.SelectContext(ctx, &seats, `SELECT seat FROM tickets WHERE trip_id = $1 ORDER BY seat`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list taken seats: %w", err)
	}
	return seats, nil
}

func missingBus() error {
	return models.NewValidationError(models.ErrMissingRelation, "bus", "bus does not exist")
}
