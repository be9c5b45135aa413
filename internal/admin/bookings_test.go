package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewBookingsHandler(db, nil)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "phone", "class_title", "day_key", "time_of_day", "selected_date", "utm_source", "created_at"}).
		AddRow("b-1", "María Pérez", "maria@example.com", "+56 9 1234 5678", "Yoga Yin", "martes", "19:00", "2025-06-17", "instagram", time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)).
		AddRow("b-2", "Pedro Soto", "pedro@example.com", "+56 9 8765 4321", "Vinyasa", "jueves", "08:00", "2025-06-19", nil, time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC))

	mock.ExpectQuery("SELECT id, name, email, phone, class_title, day_key, time_of_day, selected_date, utm_source, created_at FROM trial_bookings ORDER BY created_at DESC").
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ListBookingsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, "Yoga Yin", resp.Bookings[0].ClassTitle)
	require.NotNil(t, resp.Bookings[0].UTMSource)
	assert.Equal(t, "instagram", *resp.Bookings[0].UTMSource)
	assert.Nil(t, resp.Bookings[1].UTMSource)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookings_DayAndDateFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewBookingsHandler(db, nil)

	mock.ExpectQuery(`WHERE day_key = \$1 AND selected_date = \$2`).
		WithArgs("martes", "2025-06-17").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "class_title", "day_key", "time_of_day", "selected_date", "utm_source", "created_at"}))

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings?day=martes&date=2025-06-17", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ListBookingsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Bookings, "empty list must encode as [], not null")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBookings_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	handler := NewBookingsHandler(db, nil)
	mock.ExpectQuery("SELECT").WillReturnError(sqlmock.ErrCancelled)

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
