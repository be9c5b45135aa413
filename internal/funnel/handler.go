package funnel

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aukawellness/studio-api/internal/attribution"
	"github.com/aukawellness/studio-api/internal/bookings"
	"github.com/aukawellness/studio-api/internal/schedule"
	"github.com/aukawellness/studio-api/pkg/logging"
)

// Handler exposes the funnel over HTTP. Each route mirrors one state
// machine transition.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new funnel handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// SessionResponse is the funnel state returned after every transition.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Step      Step      `json:"step"`
	Selection Selection `json:"selection"`
	Error     string    `json:"error,omitempty"`
}

func sessionResponse(s *Session) SessionResponse {
	return SessionResponse{
		SessionID: s.ID,
		Step:      s.Step,
		Selection: s.Selection,
		Error:     s.LastError,
	}
}

// Start handles POST /funnel/sessions.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Start(r.Context())
	if err != nil {
		h.logger.Error("failed to start funnel session", "error", err)
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse(session))
}

// Get handles GET /funnel/sessions/{sessionID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

type selectClassRequest struct {
	OfferingID string `json:"offering_id"`
	DayKey     string `json:"day_key,omitempty"`
}

// SelectClass handles POST /funnel/sessions/{sessionID}/class.
func (h *Handler) SelectClass(w http.ResponseWriter, r *http.Request) {
	var req selectClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.SelectClass(r.Context(), chi.URLParam(r, "sessionID"), req.OfferingID, req.DayKey)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

type selectDateRequest struct {
	Date string `json:"date"`
}

// SelectDate handles POST /funnel/sessions/{sessionID}/date.
func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var req selectDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.SelectDate(r.Context(), chi.URLParam(r, "sessionID"), req.Date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

type continueRequest struct {
	PageURL string `json:"page_url,omitempty"`
}

// Continue handles POST /funnel/sessions/{sessionID}/continue.
func (h *Handler) Continue(w http.ResponseWriter, r *http.Request) {
	var req continueRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	session, err := h.service.Continue(r.Context(), chi.URLParam(r, "sessionID"), req.PageURL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

// Back handles POST /funnel/sessions/{sessionID}/back.
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Back(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	PageURL string `json:"page_url,omitempty"`
}

// Submit handles POST /funnel/sessions/{sessionID}/submit.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	contact := ContactInfo{Name: req.Name, Email: req.Email, Phone: req.Phone}
	clickIDs := attribution.FromRequest(r, req.PageURL)

	session, err := h.service.SubmitContact(r.Context(), chi.URLParam(r, "sessionID"), contact, req.PageURL, clickIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, schedule.ErrOfferingNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrDateRequired),
		errors.Is(err, ErrDateNotAvailable),
		errors.Is(err, ErrNotTrialEligible):
		http.Error(w, err.Error(), http.StatusConflict)
	case bookings.IsValidationError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("funnel request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
