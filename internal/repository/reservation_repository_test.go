package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking-platform/internal/model"
)

var reservationCols = []string{
	"id", "hotel_id", "product_id", "user_id", "customer_phone",
	"reserved_on", "status", "created_at", "updated_at",
}

func newReservation(userID *uint64) *model.Reservation {
	return &model.Reservation{
		HotelID:       1,
		ProductID:     42,
		UserID:        userID,
		CustomerPhone: "+3712000000",
		ReservedOn:    time.Date(2025, 7, 1, 15, 30, 0, 0, time.UTC), // afternoon, must normalize
	}
}

func TestCreateReservationSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	uid := uint64(7)
	res := newReservation(&uid)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM reservations").
		WithArgs(uint64(42), day).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(uint64(1), uint64(42), uint64(7), "+3712000000", day, model.StatusPending).
		WillReturnResult(sqlmock.NewResult(99, 1))
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = ?").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow(99, 1, 42, 7, "+3712000000", day, model.StatusPending, now, now))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), res))
	assert.Equal(t, uint64(99), res.ID)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, day, res.ReservedOn.UTC())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationConflictPreCheck(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	res := newReservation(nil)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	// An existing non-cancelled row occupies the slot; no insert runs.
	mock.ExpectQuery("SELECT id FROM reservations").
		WithArgs(uint64(42), day).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), res)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationConflictUniqueIndex(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	res := newReservation(nil)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM reservations").
		WithArgs(uint64(42), day).
		WillReturnError(sql.ErrNoRows)
	// Loser of a race: the pre-check saw nothing but the unique index
	// uq_product_day_active rejected the insert.
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '42-2025-07-01-Y' for key 'uq_product_day_active'"))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), res)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationUnknownProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	res := newReservation(nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM reservations").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnError(errors.New("Error 1452 (23000): Cannot add or update a child row: a foreign key constraint fails (`fk_reservations_product`)"))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), res)
	assert.ErrorIs(t, err, ErrUnknownProductRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationGuestBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	res := newReservation(nil) // phone booking, no account
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM reservations").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(uint64(1), uint64(42), nil, "+3712000000", day, model.StatusPending).
		WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = ?").
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow(100, 1, 42, nil, "+3712000000", day, model.StatusPending, now, now))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), res))
	assert.Nil(t, res.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusGuarded(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE reservations SET status=").
		WithArgs(model.StatusConfirmed, uint64(5), model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = ?").
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow(5, 1, 42, 7, "+3712000000", day, model.StatusConfirmed, now, now))

	updated, err := repo.UpdateStatus(context.Background(), 5, model.StatusPending, model.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, updated.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusLostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	// Zero rows affected: someone else moved the reservation first.
	mock.ExpectExec("UPDATE reservations SET status=").
		WithArgs(model.StatusConfirmed, uint64(5), model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = ?").
		WillReturnRows(sqlmock.NewRows(reservationCols).
			AddRow(5, 1, 42, 7, "+3712000000", day, model.StatusCancelled, now, now))

	_, err = repo.UpdateStatus(context.Background(), 5, model.StatusPending, model.StatusConfirmed)
	assert.ErrorIs(t, err, ErrStatusChanged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)

	mock.ExpectExec("UPDATE reservations SET status=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = ?").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.UpdateStatus(context.Background(), 404, model.StatusPending, model.StatusCancelled)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByHotelNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	older := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	cols := []string{
		"id", "product_id", "user_id", "customer_phone", "reserved_on", "status", "created_at",
		"p_id", "p_type", "p_name", "p_price",
	}
	mock.ExpectQuery("ORDER BY r.created_at DESC, r.id DESC").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, 42, 7, "+371", day, "PENDING", newer, 42, "ROOM", "Sea view", 12000).
			AddRow(1, 42, nil, "+372", day, "CANCELLED", older, 42, "ROOM", "Sea view", 12000))

	items, err := repo.ListByHotel(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, uint64(2), items[0].ID)
	assert.Equal(t, "2025-07-01", items[0].ReservedOn)
	assert.Nil(t, items[1].UserID)
	assert.Equal(t, "Sea view", items[0].Product.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

