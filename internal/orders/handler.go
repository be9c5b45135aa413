package orders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aukawellness/studio-api/pkg/logging"
)

// Handler exposes order status over HTTP.
type Handler struct {
	service *Service
	poller  *StatusPoller
	logger  *logging.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// WithPoller enables the blocking wait endpoint.
func (h *Handler) WithPoller(p *StatusPoller) *Handler {
	h.poller = p
	return h
}

// Status handles GET /orders/status?order_id=.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(r.URL.Query().Get("order_id"))
	if orderID == "" {
		http.Error(w, "order_id is required", http.StatusBadRequest)
		return
	}

	view, err := h.service.Status(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		h.logger.Error("order status lookup failed", "order_id", orderID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(view)
}

// Wait handles GET /orders/status/wait?order_id=. It blocks until the order
// reaches a terminal status, the attempt budget runs out, or the client
// disconnects.
func (h *Handler) Wait(w http.ResponseWriter, r *http.Request) {
	if h.poller == nil {
		http.Error(w, "status polling not enabled", http.StatusNotImplemented)
		return
	}
	orderID := strings.TrimSpace(r.URL.Query().Get("order_id"))
	if orderID == "" {
		http.Error(w, "order_id is required", http.StatusBadRequest)
		return
	}

	view, err := h.poller.Wait(r.Context(), orderID)
	switch {
	case errors.Is(err, ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Client gave up; nothing useful to write.
		return
	case errors.Is(err, ErrPollExhausted):
		// The last observed view still tells the caller where things stand,
		// but a poll that never saw the order has nothing to report.
		if view == nil {
			h.logger.Error("order status wait exhausted without a view", "order_id", orderID)
			http.Error(w, "order status unavailable", http.StatusServiceUnavailable)
			return
		}
	case err != nil:
		h.logger.Error("order status wait failed", "order_id", orderID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(view)
}
