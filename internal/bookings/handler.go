package bookings

import (
	"encoding/json"
	"net/http"

	"github.com/aukawellness/studio-api/internal/attribution"
	"github.com/aukawellness/studio-api/pkg/logging"
)

// Handler handles HTTP requests for booking submissions
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new bookings handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// SubmitResponse mirrors the booking endpoint contract: the funnel only
// needs the already-attended flag plus an error message when retryable.
type SubmitResponse struct {
	AlreadyAttended bool   `json:"alreadyAttended,omitempty"`
	BookingID       string `json:"booking_id,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Submit handles POST /bookings requests.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	clickIDs := attribution.FromRequest(r, req.PageURL)

	outcome, err := h.service.Submit(r.Context(), &req, clickIDs)
	if err != nil {
		// Validation error: inline message, nothing was stored or sent.
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Error: err.Error()})
		return
	}

	switch outcome.Kind {
	case OutcomeConfirmed:
		writeJSON(w, http.StatusCreated, SubmitResponse{BookingID: outcome.Booking.ID})
	case OutcomeAlreadyAttended:
		writeJSON(w, http.StatusOK, SubmitResponse{AlreadyAttended: true})
	default:
		writeJSON(w, http.StatusBadGateway, SubmitResponse{Error: outcome.Message})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
