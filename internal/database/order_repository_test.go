package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/station-booking/internal/models"
)

func expectOrderInsert(mock sqlmock.Sqlmock, userID uuid.UUID, orderID int64, createdAt time.Time) {
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(orderID, createdAt))
}

func expectTripCapacity(mock sqlmock.Sqlmock, tripID, busID int64, numSeats int) {
	mock.ExpectQuery(`SELECT t.id AS trip_id, t.bus_id, b.num_seats`).
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows([]string{"trip_id", "bus_id", "num_seats"}).AddRow(tripID, busID, numSeats))
}

func TestCreateWithTickets(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		expectOrderInsert(mock, userID, 10, now)
		expectTripCapacity(mock, 3, 7, 50)
		mock.ExpectQuery(`INSERT INTO tickets`).
			WithArgs(1, int64(3), int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
		mock.ExpectQuery(`INSERT INTO tickets`).
			WithArgs(50, int64(3), int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(101)))
		mock.ExpectCommit()

		order, err := repo.CreateWithTickets(ctx, userID, []models.TicketRequest{
			{Seat: 1, TripID: 3},
			{Seat: 50, TripID: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10), order.ID)
		assert.Equal(t, userID, order.UserID)
		require.Len(t, order.Tickets, 2)
		assert.Equal(t, int64(100), order.Tickets[0].ID)
		assert.Equal(t, 50, order.Tickets[1].Seat)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Capacity Violation Rolls Back Whole Order", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		expectOrderInsert(mock, userID, 11, now)
		expectTripCapacity(mock, 3, 7, 50)
		mock.ExpectQuery(`INSERT INTO tickets`).
			WithArgs(1, int64(3), int64(11)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(102)))
		mock.ExpectRollback()

		order, err := repo.CreateWithTickets(ctx, userID, []models.TicketRequest{
			{Seat: 1, TripID: 3},
			{Seat: 51, TripID: 3},
		})
		assert.Nil(t, order)
		assert.ErrorIs(t, err, models.ErrCapacityViolation)

		ve, ok := models.AsValidationError(err)
		require.True(t, ok)
		require.NotNil(t, ve.Ticket)
		assert.Equal(t, 1, ve.Ticket.Line)
		assert.Equal(t, 51, ve.Ticket.Seat)
		assert.Equal(t, int64(3), ve.Ticket.TripID)
		assert.Contains(t, ve.Message, "[1, 50]")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Taken Seat Is Duplicate", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		expectOrderInsert(mock, userID, 12, now)
		expectTripCapacity(mock, 4, 7, 40)
		mock.ExpectQuery(`INSERT INTO tickets`).
			WithArgs(10, int64(4), int64(12)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "unique_ticket_seat_trip"})
		mock.ExpectRollback()

		_, err := repo.CreateWithTickets(ctx, userID, []models.TicketRequest{{Seat: 10, TripID: 4}})
		assert.ErrorIs(t, err, models.ErrDuplicateSeat)

		ve, ok := models.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "seat", ve.Field)
		assert.Equal(t, 0, ve.Ticket.Line)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Trigger Check Violation Is Capacity Violation", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		expectOrderInsert(mock, userID, 13, now)
		expectTripCapacity(mock, 4, 7, 40)
		mock.ExpectQuery(`INSERT INTO tickets`).
			WithArgs(40, int64(4), int64(13)).
			WillReturnError(&pq.Error{Code: "23514", Message: "seat must be in range [1, 30], got 40"})
		mock.ExpectRollback()

		_, err := repo.CreateWithTickets(ctx, userID, []models.TicketRequest{{Seat: 40, TripID: 4}})
		assert.ErrorIs(t, err, models.ErrCapacityViolation)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Trip", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		expectOrderInsert(mock, userID, 14, now)
		mock.ExpectQuery(`SELECT t.id AS trip_id`).
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows([]string{"trip_id", "bus_id", "num_seats"}))
		mock.ExpectRollback()

		_, err := repo.CreateWithTickets(ctx, userID, []models.TicketRequest{{Seat: 1, TripID: 999}})
		assert.ErrorIs(t, err, models.ErrMissingRelation)

		ve, ok := models.AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "trip", ve.Field)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Order Touches Nothing", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		order, err := repo.CreateWithTickets(ctx, userID, nil)
		assert.Nil(t, order)
		assert.ErrorIs(t, err, models.ErrEmptyOrder)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Storage Failure Is Not A Validation Error", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		expectOrderInsert(mock, userID, 15, now)
		expectTripCapacity(mock, 4, 7, 40)
		mock.ExpectQuery(`INSERT INTO tickets`).
			WithArgs(2, int64(4), int64(15)).
			WillReturnError(fmt.Errorf("connection reset by peer"))
		mock.ExpectRollback()

		_, err := repo.CreateWithTickets(ctx, userID, []models.TicketRequest{{Seat: 2, TripID: 4}})
		require.Error(t, err)
		_, isValidation := models.AsValidationError(err)
		assert.False(t, isValidation)
		assert.Contains(t, err.Error(), "failed to create ticket")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Commit Failure", func(t *testing.T) {
		db, mock, cleanup := setupMockDB(t)
		defer cleanup()
		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		expectOrderInsert(mock, userID, 16, now)
		expectTripCapacity(mock, 4, 7, 40)
		mock.ExpectQuery(`INSERT INTO tickets`).
			WithArgs(3, int64(4), int64(16)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(103)))
		mock.ExpectCommit().WillReturnError(errors.New("could not serialize access"))

		order, err := repo.CreateWithTickets(ctx, userID, []models.TicketRequest{{Seat: 3, TripID: 4}})
		assert.Nil(t, order)
		assert.Contains(t, err.Error(), "failed to commit transaction")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListOrdersByUser(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT id, created_at, user_id\s+FROM orders`).
		WithArgs(userID, 3, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "user_id"}).
			AddRow(int64(2), now, userID.String()).
			AddRow(int64(1), now.Add(-time.Hour), userID.String()))
	mock.ExpectQuery(`SELECT id, seat, trip_id, order_id FROM tickets`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat", "trip_id", "order_id"}).
			AddRow(int64(5), 1, int64(9), int64(1)).
			AddRow(int64(6), 2, int64(9), int64(2)).
			AddRow(int64(7), 3, int64(9), int64(2)))

	orders, total, err := repo.ListByUser(context.Background(), userID, models.PageParams{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, orders, 2)
	assert.Len(t, orders[0].Tickets, 2)
	assert.Len(t, orders[1].Tickets, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByIDForUser(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	userID := uuid.New()

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, created_at, user_id FROM orders WHERE id`).
			WithArgs(int64(8), userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "user_id"}))

		order, err := repo.GetByIDForUser(context.Background(), 8, userID)
		assert.NoError(t, err)
		assert.Nil(t, order)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Found Without Tickets", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, created_at, user_id FROM orders WHERE id`).
			WithArgs(int64(9), userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "user_id"}).AddRow(int64(9), time.Now(), userID.String()))
		mock.ExpectQuery(`FROM tickets WHERE order_id`).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "seat", "trip_id", "order_id"}))

		order, err := repo.GetByIDForUser(context.Background(), 9, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(9), order.ID)
		assert.NotNil(t, order.Tickets)
		assert.Empty(t, order.Tickets)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteOrder(t *testing.T) {
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	userID := uuid.New()

	mock.ExpectExec(`DELETE FROM orders`).
		WithArgs(int64(3), userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), 3, userID))

	mock.ExpectExec(`DELETE FROM orders`).
		WithArgs(int64(4), userID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.Error(t, repo.Delete(context.Background(), 4, userID))

	assert.NoError(t, mock.ExpectationsWereMet())
}
