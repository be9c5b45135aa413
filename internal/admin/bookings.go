package admin

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/aukawellness/studio-api/pkg/logging"
)

// BookingsHandler serves the back-office trial booking list. It reads
// through database/sql so the report queries stay independent of the
// request-path repositories.
type BookingsHandler struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewBookingsHandler creates a new admin bookings handler.
func NewBookingsHandler(db *sql.DB, logger *logging.Logger) *BookingsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingsHandler{db: db, logger: logger}
}

// BookingRow is one trial booking in the back-office list.
type BookingRow struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	ClassTitle   string    `json:"class_title"`
	DayKey       string    `json:"day_key"`
	TimeOfDay    string    `json:"time_of_day"`
	SelectedDate string    `json:"selected_date"`
	UTMSource    *string   `json:"utm_source,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListBookingsResponse is the back-office booking list payload.
type ListBookingsResponse struct {
	Bookings []BookingRow `json:"bookings"`
	Total    int          `json:"total"`
}

// List handles GET /admin/bookings with optional ?day= and ?date= filters.
func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := `
		SELECT id, name, email, phone, class_title, day_key, time_of_day, selected_date, utm_source, created_at
		FROM trial_bookings
	`
	var conditions []string
	var args []any
	if day := strings.TrimSpace(r.URL.Query().Get("day")); day != "" {
		args = append(args, day)
		conditions = append(conditions, "day_key = $1")
	}
	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		args = append(args, date)
		if len(args) == 2 {
			conditions = append(conditions, "selected_date = $2")
		} else {
			conditions = append(conditions, "selected_date = $1")
		}
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := h.db.QueryContext(r.Context(), query, args...)
	if err != nil {
		h.logger.Error("admin bookings query failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	bookings := []BookingRow{}
	for rows.Next() {
		var b BookingRow
		if err := rows.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.ClassTitle, &b.DayKey,
			&b.TimeOfDay, &b.SelectedDate, &b.UTMSource, &b.CreatedAt); err != nil {
			h.logger.Error("admin bookings scan failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		h.logger.Error("admin bookings iteration failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ListBookingsResponse{Bookings: bookings, Total: len(bookings)})
}
