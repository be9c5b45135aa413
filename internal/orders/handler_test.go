package orders

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestStatusHandler(t *testing.T) {
	repo := NewInMemoryRepository()
	o := pendingOrder()
	o.Status = StatusPaid
	repo.Seed(o)
	h := NewHandler(NewService(repo, nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/orders/status?order_id=ord-1", nil)
	w := httptest.NewRecorder()
	h.Status(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var view StatusView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.StatusType != TypeSuccess || view.PackageName != "Pack 10 clases" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestStatusHandler_MissingParam(t *testing.T) {
	h := NewHandler(NewService(NewInMemoryRepository(), nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/orders/status", nil)
	w := httptest.NewRecorder()
	h.Status(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestStatusHandler_UnknownOrder(t *testing.T) {
	h := NewHandler(NewService(NewInMemoryRepository(), nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/orders/status?order_id=nope", nil)
	w := httptest.NewRecorder()
	h.Status(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestWaitHandler_ExhaustedReturnsLastView(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.Seed(pendingOrder())
	service := NewService(repo, nil)
	h := NewHandler(service, nil).WithPoller(NewStatusPoller(service, time.Millisecond, 2, nil))

	req := httptest.NewRequest(http.MethodGet, "/orders/status/wait?order_id=ord-1", nil)
	w := httptest.NewRecorder()
	h.Wait(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var view StatusView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.StatusType != TypePending {
		t.Fatalf("expected pending view, got %+v", view)
	}
}

func TestWaitHandler_NoViewObservedAnswersUnavailable(t *testing.T) {
	repo := &flakyRepository{inner: NewInMemoryRepository()}
	service := NewService(repo, nil)
	h := NewHandler(service, nil).WithPoller(NewStatusPoller(service, time.Millisecond, 2, nil))

	req := httptest.NewRequest(http.MethodGet, "/orders/status/wait?order_id=ord-1", nil)
	w := httptest.NewRecorder()
	h.Wait(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) == "null" {
		t.Fatal("exhausted poll without a view must not answer null")
	}
}
