package giftcards

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/aukawellness/studio-api/pkg/logging"
)

// Handler exposes gift-card data behind opaque access tokens. PDF rendering
// stays with the external renderer; this handler only redirects to it.
type Handler struct {
	repo        Repository
	rendererURL string
	logger      *logging.Logger
}

// NewHandler creates a new gift card handler
func NewHandler(repo Repository, rendererURL string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, rendererURL: strings.TrimRight(rendererURL, "/"), logger: logger}
}

type listResponse struct {
	Cards []*GiftCard `json:"cards"`
}

// List handles GET /giftcards?token=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	cards, err := h.repo.ListByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.logger.Error("gift card lookup failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(listResponse{Cards: cards})
}

// PDF handles GET /giftcards/pdf?token=, redirecting to the external
// renderer. The token is checked first so the renderer URL is never handed
// out for a token that grants nothing.
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}
	if h.rendererURL == "" {
		http.Error(w, "pdf rendering unavailable", http.StatusServiceUnavailable)
		return
	}

	if _, err := h.repo.ListByToken(r.Context(), token); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.logger.Error("gift card lookup failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	target := h.rendererURL + "/render?token=" + url.QueryEscape(token)
	http.Redirect(w, r, target, http.StatusFound)
}
