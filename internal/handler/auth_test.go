package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking-platform/internal/config"
	"github.com/iliyamo/hotel-booking-platform/internal/model"
	"github.com/iliyamo/hotel-booking-platform/internal/repository"
	"github.com/iliyamo/hotel-booking-platform/internal/utils"
)

var userCols = []string{
	"id", "email", "password_hash", "role", "name", "phone",
	"reset_token_hash", "reset_token_expires", "is_active", "created_at", "updated_at",
}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4, // minimum cost keeps the test fast
	}
	return NewAuthHandler(cfg,
		repository.NewUserRepo(db),
		repository.NewTokenRepo(db),
		repository.NewHotelRepo(db),
	), mock
}

func TestLoginSuccess(t *testing.T) {
	h, mock := newAuthHandler(t)
	now := time.Now().UTC()
	hash, err := utils.HashPassword("hunter2", 4)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email=").
		WithArgs("anna@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(7, "anna@example.com", hash, model.RoleUser, "Anna", nil, nil, nil, true, now, now))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WillReturnResult(sqlmock.NewResult(1, 1))

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/v1/auth/login",
		`{"email":"Anna@Example.com","password":"hunter2"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Login(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User struct {
			ID   uint64 `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
		Refresh struct {
			Token string `json:"token"`
		} `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(7), resp.User.ID)
	assert.Equal(t, model.RoleUser, resp.User.Role)
	assert.NotEmpty(t, resp.Access.Token)
	assert.NotEmpty(t, resp.Refresh.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)
	now := time.Now().UTC()
	hash, err := utils.HashPassword("correct", 4)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email=").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(7, "anna@example.com", hash, model.RoleUser, "Anna", nil, nil, nil, true, now, now))

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/v1/auth/login",
		`{"email":"anna@example.com","password":"wrong"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Login(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email=").
		WillReturnError(sql.ErrNoRows)

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/v1/auth/login",
		`{"email":"nobody@example.com","password":"whatever"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Login(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// identical message for unknown email and bad password
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errDuplicate{})

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/v1/auth/register",
		`{"name":"Anna","email":"anna@example.com","password":"hunter2"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Register(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already exists")
}

func TestRegisterMissingFields(t *testing.T) {
	h, _ := newAuthHandler(t)

	e := echo.New()
	req := jsonRequest(http.MethodPost, "/v1/auth/register", `{"email":"anna@example.com"}`)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Register(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// errDuplicate mimics the MySQL duplicate-key driver error.
type errDuplicate struct{}

func (errDuplicate) Error() string {
	return "Error 1062 (23000): Duplicate entry 'anna@example.com' for key 'uq_users_email'"
}
