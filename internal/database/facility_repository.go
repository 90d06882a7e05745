package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/smarttransit/station-booking/internal/models"
)

// FacilityRepository handles facility database operations
type FacilityRepository struct {
	db DB
}

// NewFacilityRepository creates a new facility repository
func NewFacilityRepository(db DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

// Create inserts a facility; a taken name returns ErrConflict
func (r *FacilityRepository) Create(ctx context.Context, name string) (*models.Facility, error) {
	facility := &models.Facility{Name: name}

	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO facilities (name) VALUES ($1) RETURNING id`,
		name,
	).Scan(&facility.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create facility: %w", err)
	}

	return facility, nil
}

// GetByID returns the facility or nil when it does not exist
func (r *FacilityRepository) GetByID(ctx context.Context, id int64) (*models.Facility, error) {
	var facility models.Facility
	err := r.db.GetContext(ctx, &facility, `SELECT id, name FROM facilities WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get facility: %w", err)
	}
	return &facility, nil
}

// List returns all facilities ordered by id
func (r *FacilityRepository) List(ctx context.Context) ([]models.Facility, error) {
	facilities := []models.Facility{}
	if err := r.db.SelectContext(ctx, &facilities, `SELECT id, name FROM facilities ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list facilities: %w", err)
	}
	return facilities, nil
}

// Update renames a facility. Returns sql.ErrNoRows when it does not exist.
func (r *FacilityRepository) Update(ctx context.Context, id int64, name string) (*models.Facility, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE facilities SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to update facility: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, sql.ErrNoRows
	}

	return &models.Facility{ID: id, Name: name}, nil
}

// Delete removes a facility and its bus links. Returns sql.ErrNoRows when it does not exist.
func (r *FacilityRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM facilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete facility: %w", err)
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

// busFacility is a facility row tagged with the bus it belongs to
type busFacility struct {
	BusID int64 `db:"bus_id"`
	models.Facility
}

// ListByBusIDs returns the facilities of each of the given buses
func (r *FacilityRepository) ListByBusIDs(ctx context.Context, busIDs []int64) (map[int64][]models.Facility, error) {
	result := make(map[int64][]models.Facility, len(busIDs))
	if len(busIDs) == 0 {
		return result, nil
	}

	var rows []busFacility
	err := r.db.SelectContext(ctx, &rows, `
		SELECT bf.bus_id, f.id, f.name
		FROM bus_facilities bf
		JOIN facilities f ON f.id = bf.facility_id
		WHERE bf.bus_id = ANY($1)
		ORDER BY bf.bus_id, f.id
	`, pq.Array(busIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list bus facilities: %w", err)
	}

	for _, row := range rows {
		result[row.BusID] = append(result[row.BusID], row.Facility)
	}
	return result, nil
}
