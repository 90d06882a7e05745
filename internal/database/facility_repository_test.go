package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFacility(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := NewFacilityRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO facilities`).
			WithArgs("WiFi").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

		facility, err := repo.Create(context.Background(), "WiFi")
		require.NoError(t, err)
		assert.Equal(t, int64(1), facility.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Name", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO facilities`).
			WithArgs("WiFi").
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.Create(context.Background(), "WiFi")
		assert.ErrorIs(t, err, ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateFacility_NotFound(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := NewFacilityRepository(db)

	mock.ExpectExec(`UPDATE facilities SET name`).
		WithArgs("TV", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), 9, "TV")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFacilitiesByBusIDs(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := NewFacilityRepository(db)

	t.Run("No Buses Skips Query", func(t *testing.T) {
		result, err := repo.ListByBusIDs(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("Groups By Bus", func(t *testing.T) {
		mock.ExpectQuery(`FROM bus_facilities bf`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"bus_id", "id", "name"}).
				AddRow(int64(1), int64(1), "WiFi").
				AddRow(int64(1), int64(2), "TV").
				AddRow(int64(3), int64(2), "TV"))

		result, err := repo.ListByBusIDs(context.Background(), []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Len(t, result[1], 2)
		assert.Empty(t, result[2])
		assert.Equal(t, "TV", result[3][0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
