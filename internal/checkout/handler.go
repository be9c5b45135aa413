package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aukawellness/studio-api/pkg/logging"
)

// Handler serves short payment URLs and the delayed-redirect endpoints.
type Handler struct {
	repo         Repository
	coordinator  *Coordinator
	providerBase string
	logger       *logging.Logger
}

// NewHandler creates a checkout handler. providerBase is the payment
// provider origin that relative link paths resolve against; links stored
// with absolute URLs ignore it.
func NewHandler(repo Repository, coordinator *Coordinator, providerBase string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:         repo,
		coordinator:  coordinator,
		providerBase: strings.TrimRight(providerBase, "/"),
		logger:       logger,
	}
}

// resolveURL turns a stored provider path into an absolute URL. Absolute
// URLs pass through untouched.
func (h *Handler) resolveURL(raw string) string {
	if raw == "" || h.providerBase == "" || strings.Contains(raw, "://") {
		return raw
	}
	return h.providerBase + "/" + strings.TrimLeft(raw, "/")
}

// Redirect looks up a link by short code and redirects to the provider
// checkout page. Handles GET /pay/{code}.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	link, err := h.repo.GetByCode(r.Context(), code)
	if err != nil {
		if !errors.Is(err, ErrLinkNotFound) {
			h.logger.Warn("checkout redirect lookup failed", "code", code, "error", err)
		}
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	http.Redirect(w, r, h.resolveURL(link.URL), http.StatusFound)
}

type beginRequest struct {
	URL       string `json:"url"`
	PlanLabel string `json:"plan_label,omitempty"`
}

type beginResponse struct {
	URL       string `json:"url"`
	PlanLabel string `json:"plan_label,omitempty"`
	DelayMS   int64  `json:"delay_ms"`
}

// Begin schedules a delayed navigation to a checkout URL. Handles
// POST /checkout/redirects. A request with no URL gets an error
// notification instead of a scheduled redirect.
func (h *Handler) Begin(w http.ResponseWriter, r *http.Request) {
	var req beginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	redirect, err := h.coordinator.Begin(h.resolveURL(req.URL), req.PlanLabel)
	if err != nil {
		if errors.Is(err, ErrMissingCheckoutURL) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, beginResponse{
		URL:       redirect.URL,
		PlanLabel: redirect.PlanLabel,
		DelayMS:   time.Until(redirect.FiresAt).Milliseconds(),
	})
}

// Cancel clears the pending redirect. Handles DELETE /checkout/redirects.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	cancelled := h.coordinator.Cancel()
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
