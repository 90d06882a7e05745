package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/station-booking/internal/models"
)

var tripSummaryColumns = []string{"id", "source", "destination", "departure", "bus_info", "bus_num_seats", "booked"}

func TestCreateTrip(t *testing.T) {
	req := &models.TripRequest{Source: "Kyiv", Destination: "Lviv", Departure: "08:30:00", BusID: 2}

	t.Run("Success", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewTripRepository(db)

		mock.ExpectQuery(`INSERT INTO trips`).
			WithArgs("Kyiv", "Lviv", "08:30:00", int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		trip, err := repo.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(7), trip.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Bus", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewTripRepository(db)

		mock.ExpectQuery(`INSERT INTO trips`).
			WithArgs("Kyiv", "Lviv", "08:30:00", int64(2)).
			WillReturnError(&pq.Error{Code: "23503"})

		_, err := repo.Create(context.Background(), req)
		assert.ErrorIs(t, err, models.ErrMissingRelation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListTripSummaries(t *testing.T) {
	t.Run("Availability Computed From Booked Count", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewTripRepository(db)

		mock.ExpectQuery(`LEFT JOIN tickets tk ON tk.trip_id = t.id GROUP BY t.id, b.id ORDER BY t.id`).
			WillReturnRows(sqlmock.NewRows(tripSummaryColumns).
				AddRow(int64(1), "Kyiv", "Lviv", "08:30:00", "AA 8889 OO", 40, 37).
				AddRow(int64(2), "Lviv", "Odesa", "21:00:00", nil, 50, 0))

		summaries, err := repo.ListSummaries(context.Background(), models.TripFilter{})
		require.NoError(t, err)
		require.Len(t, summaries, 2)

		first := models.NewTripListItem(summaries[0])
		assert.Equal(t, 3, first.TicketsAvailable)
		assert.Equal(t, 40, first.BusNumSeats)
		assert.Equal(t, 50, models.NewTripListItem(summaries[1]).TicketsAvailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Filtered", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewTripRepository(db)

		mock.ExpectQuery(`WHERE t.source ILIKE \$1 AND t.destination ILIKE \$2`).
			WithArgs("%Kyiv%", "%Lviv%").
			WillReturnRows(sqlmock.NewRows(tripSummaryColumns))

		summaries, err := repo.ListSummaries(context.Background(), models.TripFilter{Source: "Kyiv", Destination: "Lviv"})
		require.NoError(t, err)
		assert.Empty(t, summaries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTripTicketsAvailable(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := NewTripRepository(db)

	mock.ExpectQuery(`SELECT b.num_seats, \(SELECT COUNT\(\*\) FROM tickets`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"num_seats", "count"}).AddRow(40, 37))

	available, err := repo.TicketsAvailable(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, available)

	mock.ExpectQuery(`SELECT b.num_seats`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"num_seats", "count"}))

	_, err = repo.TicketsAvailable(context.Background(), 2)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTakenSeats(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := NewTripRepository(db)

	mock.ExpectQuery(`SELECT seat FROM tickets WHERE trip_id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"seat"}).AddRow(3).AddRow(10))

	seats, err := repo.TakenSeats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 10}, seats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTrip(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := NewTripRepository(db)

	mock.ExpectExec(`DELETE FROM trips`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
