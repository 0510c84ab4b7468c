package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking-platform/internal/model"
	"github.com/iliyamo/hotel-booking-platform/internal/repository"
)

var (
	productCols = []string{
		"id", "hotel_id", "type", "name", "description", "price_cents",
		"is_available", "is_special", "image", "created_at", "updated_at",
	}
	hotelCols = []string{
		"id", "admin_id", "name", "location", "description", "image",
		"opening_time", "closing_time", "is_suspended", "is_closed",
		"rating", "created_at", "updated_at",
	}
	resCols = []string{
		"id", "hotel_id", "product_id", "user_id", "customer_phone",
		"reserved_on", "status", "created_at", "updated_at",
	}
)

func newReservationHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReservationHandler(
		repository.NewReservationRepo(db),
		repository.NewProductRepo(db),
		repository.NewHotelRepo(db),
	), mock
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func productRow(available bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(productCols).
		AddRow(42, 1, "ROOM", "Sea view", nil, 12000, available, false, nil, now, now)
}

func hotelRow() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(hotelCols).
		AddRow(1, 2, "Jurmala Grand", "Jurmala", nil, nil, "08:00", "22:00", false, false, 4.5, now, now)
}

func TestCreateReservationReturns201(t *testing.T) {
	h, mock := newReservationHandler(t)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id=").WillReturnRows(productRow(true))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM reservations").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(uint64(1), uint64(42), uint64(7), "+3712000000", day, model.StatusPending).
		WillReturnResult(sqlmock.NewResult(99, 1))
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = ?").
		WillReturnRows(sqlmock.NewRows(resCols).
			AddRow(99, 1, 42, 7, "+3712000000", day, model.StatusPending, now, now))
	mock.ExpectCommit()
	// event enrichment
	mock.ExpectQuery("SELECT (.+) FROM hotels WHERE id=").WillReturnRows(hotelRow())

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/v1/reservations",
		`{"product_id":42,"customer_phone":"+3712000000","date":"2025-07-01"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7)) // as a verified JWT claim would arrive
	c.Set("role", model.RoleUser)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(99), got.ID)
	assert.Equal(t, model.StatusPending, got.Status)
	require.NotNil(t, got.UserID)
	assert.Equal(t, uint64(7), *got.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationUnknownProductReturns404(t *testing.T) {
	h, mock := newReservationHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id=").WillReturnError(sql.ErrNoRows)

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/v1/reservations",
		`{"product_id":42,"customer_phone":"+371","date":"2025-07-01"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "product not found")
}

func TestCreateReservationUnavailableProductReturns400(t *testing.T) {
	h, mock := newReservationHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id=").WillReturnRows(productRow(false))

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/v1/reservations",
		`{"product_id":42,"customer_phone":"+371","date":"2025-07-01"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not available")
}

func TestCreateReservationConflictReturns409(t *testing.T) {
	h, mock := newReservationHandler(t)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id=").WillReturnRows(productRow(true))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM reservations").
		WithArgs(uint64(42), day).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectRollback()

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/v1/reservations",
		`{"product_id":42,"customer_phone":"+371","date":"2025-07-01"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already reserved for the selected date")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationGuestWithoutToken(t *testing.T) {
	h, mock := newReservationHandler(t)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id=").WillReturnRows(productRow(true))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM reservations").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(uint64(1), uint64(42), nil, "+3712000000", day, model.StatusPending).
		WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = ?").
		WillReturnRows(sqlmock.NewRows(resCols).
			AddRow(100, 1, 42, nil, "+3712000000", day, model.StatusPending, now, now))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM hotels WHERE id=").WillReturnRows(hotelRow())

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/v1/reservations",
		`{"product_id":42,"customer_phone":"+3712000000","date":"2025-07-01"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Create(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Nil(t, got.UserID)
}

func TestListForHotelForeignAdminForbidden(t *testing.T) {
	h, _ := newReservationHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/reservations/hotel/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/reservations/hotel/:hotelId")
	c.SetParamNames("hotelId")
	c.SetParamValues("1")
	c.Set("user_id", float64(9))
	c.Set("role", model.RoleHotelAdmin)
	c.Set("hotel_id", float64(2)) // bound to a different hotel

	require.NoError(t, h.ListForHotel(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListForHotelSuperAdminAllowed(t *testing.T) {
	h, mock := newReservationHandler(t)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM hotels WHERE id=").WillReturnRows(hotelRow())
	listCols := []string{
		"id", "product_id", "user_id", "customer_phone", "reserved_on", "status", "created_at",
		"p_id", "p_type", "p_name", "p_price",
	}
	mock.ExpectQuery("ORDER BY r.created_at DESC, r.id DESC").
		WillReturnRows(sqlmock.NewRows(listCols).
			AddRow(2, 42, 7, "+371", day, "PENDING", now, 42, "ROOM", "Sea view", 12000))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/reservations/hotel/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/reservations/hotel/:hotelId")
	c.SetParamNames("hotelId")
	c.SetParamValues("1")
	c.Set("user_id", float64(1))
	c.Set("role", model.RoleSuperAdmin)

	require.NoError(t, h.ListForHotel(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sea view")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIllegalTransitionReturns409(t *testing.T) {
	h, mock := newReservationHandler(t)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = ?").
		WillReturnRows(sqlmock.NewRows(resCols).
			AddRow(5, 1, 42, 7, "+371", day, model.StatusCompleted, now, now))

	e := echo.New()
	req := jsonRequest(http.MethodPut, "/v1/reservations/5/status", `{"status":"CANCELLED"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/reservations/:id/status")
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set("user_id", float64(1))
	c.Set("role", model.RoleSuperAdmin)

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid status transition")
}

func TestUpdateStatusForeignUserForbidden(t *testing.T) {
	h, mock := newReservationHandler(t)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = ?").
		WillReturnRows(sqlmock.NewRows(resCols).
			AddRow(5, 1, 42, 7, "+371", day, model.StatusPending, now, now))

	e := echo.New()
	req := jsonRequest(http.MethodPut, "/v1/reservations/5/status", `{"status":"CANCELLED"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/reservations/:id/status")
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set("user_id", float64(8)) // not the owner (7)
	c.Set("role", model.RoleUser)

	require.NoError(t, h.UpdateStatus(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// Cancelling a reservation frees its slot: after the CANCELLED
// transition a new reservation for the same product and day is
// admitted, because both the pre-check and the unique index ignore
// cancelled rows.
func TestCancelThenRebookSameSlot(t *testing.T) {
	h, mock := newReservationHandler(t)
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	// Step 1: owner cancels the PENDING reservation.
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = ?").
		WillReturnRows(sqlmock.NewRows(resCols).
			AddRow(5, 1, 42, 7, "+371", day, model.StatusPending, now, now))
	mock.ExpectExec("UPDATE reservations SET status=").
		WithArgs(model.StatusCancelled, uint64(5), model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = ?").
		WillReturnRows(sqlmock.NewRows(resCols).
			AddRow(5, 1, 42, 7, "+371", day, model.StatusCancelled, now, now))

	e := echo.New()
	req := jsonRequest(http.MethodPut, "/v1/reservations/5/status", `{"status":"CANCELLED"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/reservations/:id/status")
	c.SetParamNames("id")
	c.SetParamValues("5")
	c.Set("user_id", float64(7))
	c.Set("role", model.RoleUser)
	require.NoError(t, h.UpdateStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Step 2: the same slot admits a fresh reservation.
	mock.ExpectQuery("SELECT (.+) FROM products WHERE id=").WillReturnRows(productRow(true))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM reservations").
		WithArgs(uint64(42), day).
		WillReturnError(sql.ErrNoRows) // cancelled row is invisible to the conflict check
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = ?").
		WillReturnRows(sqlmock.NewRows(resCols).
			AddRow(101, 1, 42, 8, "+372", day, model.StatusPending, now, now))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM hotels WHERE id=").WillReturnRows(hotelRow())

	req2 := jsonRequest(http.MethodPost, "/v1/reservations",
		`{"product_id":42,"customer_phone":"+372","date":"2025-07-01"}`)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)
	c2.Set("user_id", float64(8))
	c2.Set("role", model.RoleUser)

	require.NoError(t, h.Create(c2))
	assert.Equal(t, http.StatusCreated, rec2.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
