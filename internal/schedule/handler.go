package schedule

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aukawellness/studio-api/pkg/logging"
)

// Handler handles HTTP requests for the class schedule
type Handler struct {
	repo   Repository
	dates  *DateGenerator
	logger *logging.Logger
}

// NewHandler creates a new schedule handler
func NewHandler(repo Repository, dates *DateGenerator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		dates:  dates,
		logger: logger,
	}
}

// ListOfferings handles GET /schedule requests
func (h *Handler) ListOfferings(w http.ResponseWriter, r *http.Request) {
	offerings, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list offerings", "error", err)
		http.Error(w, "failed to load schedule", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"offerings": offerings,
		"count":     len(offerings),
	})
}

// UpcomingDatesResponse is the response for listing candidate dates.
type UpcomingDatesResponse struct {
	DayKey string   `json:"day_key"`
	Dates  []string `json:"dates"`
}

// ListUpcomingDates handles GET /schedule/{dayKey}/dates requests. An unknown
// day key is not an error: the booking calendar renders an empty list.
func (h *Handler) ListUpcomingDates(w http.ResponseWriter, r *http.Request) {
	dayKey := chi.URLParam(r, "dayKey")

	dates := h.dates.UpcomingDates(dayKey)
	if dates == nil {
		dates = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UpcomingDatesResponse{
		DayKey: dayKey,
		Dates:  dates,
	})
}
