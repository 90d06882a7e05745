package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/smarttransit/station-booking/internal/models"
)

// BusRepository handles bus database operations
type BusRepository struct {
	db         DB
	facilities *FacilityRepository
}

// NewBusRepository creates a new bus repository
func NewBusRepository(db DB) *BusRepository {
	return &BusRepository{
		db:         db,
		facilities: NewFacilityRepository(db),
	}
}

// Create inserts a bus together with its facility links
func (r *BusRepository) Create(ctx context.Context, req *models.BusRequest) (*models.Bus, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	bus := &models.Bus{
		Info:     models.NewNullString(req.Info),
		NumSeats: req.NumSeats,
	}

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO buses (info, num_seats) VALUES ($1, $2) RETURNING id`,
		bus.Info, bus.NumSeats,
	).Scan(&bus.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create bus: %w", err)
	}

	if bus.Facilities, err = r.linkFacilities(ctx, tx, bus.ID, req.FacilityIDs); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return bus, nil
}

// Update replaces the bus fields and facility links. Returns sql.ErrNoRows
// when the bus does not exist.
func (r *BusRepository) Update(ctx context.Context, id int64, req *models.BusRequest) (*models.Bus, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	bus := &models.Bus{
		ID:       id,
		Info:     models.NewNullString(req.Info),
		NumSeats: req.NumSeats,
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE buses SET info = $1, num_seats = $2 WHERE id = $3`,
		bus.Info, bus.NumSeats, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update bus: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, sql.ErrNoRows
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM bus_facilities WHERE bus_id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to clear bus facilities: %w", err)
	}

	if bus.Facilities, err = r.linkFacilities(ctx, tx, id, req.FacilityIDs); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return bus, nil
}

// Delete removes a bus. Its facility links, trips and their tickets go with it.
func (r *BusRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bus: %w", err)
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

// linkFacilities attaches facilities to a bus inside tx and returns them.
// Unknown facility ids are reported as a missing relation.
func (r *BusRepository) linkFacilities(ctx context.Context, tx *sqlx.Tx, busID int64, facilityIDs []int64) ([]models.Facility, error) {
	facilities := []models.Facility{}
	if len(facilityIDs) == 0 {
		return facilities, nil
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO bus_facilities (bus_id, facility_id)
		SELECT $1, unnest($2::bigint[])
	`, busID, pq.Array(facilityIDs))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, models.NewValidationError(models.ErrMissingRelation, "facilities", "one or more facilities do not exist")
		}
		return nil, fmt.Errorf("failed to link bus facilities: %w", err)
	}

	err = tx.SelectContext(ctx, &facilities,
		`SELECT id, name FROM facilities WHERE id = ANY($1) ORDER BY id`,
		pq.Array(facilityIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load bus facilities: %w", err)
	}

	return facilities, nil
}

// GetByID returns the bus with its facilities, or nil when it does not exist
func (r *BusRepository) GetByID(ctx context.Context, id int64) (*models.Bus, error) {
	var bus models.Bus
	err := r.db.GetContext(ctx, &bus, `SELECT id, info, num_seats FROM buses WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bus: %w", err)
	}

	byBus, err := r.facilities.ListByBusIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	bus.Facilities = byBus[id]

	return &bus, nil
}

// List returns one page of buses ordered by id and the total matching count.
// With facilityIDs set, only buses having any of those facilities are returned.
func (r *BusRepository) List(ctx context.Context, facilityIDs []int64, page models.PageParams) ([]models.Bus, int, error) {
	where := ""
	args := []interface{}{}
	if len(facilityIDs) > 0 {
		where = `WHERE EXISTS (
			SELECT 1 FROM bus_facilities bf
			WHERE bf.bus_id = b.id AND bf.facility_id = ANY($1)
		)`
		args = append(args, pq.Array(facilityIDs))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM buses b `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count buses: %w", err)
	}

	buses := []models.Bus{}
	query := fmt.Sprintf(`SELECT b.id, b.info, b.num_seats FROM buses b %s ORDER BY b.id LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, page.Limit(), page.Offset())
	if err := r.db.SelectContext(ctx, &buses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list buses: %w", err)
	}

	ids := make([]int64, 0, len(buses))
	for _, b := range buses {
		ids = append(ids, b.ID)
	}
	byBus, err := r.facilities.ListByBusIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range buses {
		buses[i].Facilities = byBus[buses[i].ID]
	}

	return buses, total, nil
}
