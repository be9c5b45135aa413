package giftcards

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func seededRepo() *InMemoryRepository {
	repo := NewInMemoryRepository()
	repo.Seed("tok-abc",
		&GiftCard{Code: "GC-0001", OrderID: "ord-1", Amount: 30000, Currency: "CLP"},
		&GiftCard{Code: "GC-0002", OrderID: "ord-1", Amount: 30000, Currency: "CLP"},
	)
	return repo
}

func TestList_ReturnsCardsForToken(t *testing.T) {
	h := NewHandler(seededRepo(), "https://pdf.example.com", nil)

	req := httptest.NewRequest(http.MethodGet, "/giftcards?token=tok-abc", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp listResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Cards) != 2 || resp.Cards[0].Code != "GC-0001" {
		t.Fatalf("unexpected cards: %+v", resp.Cards)
	}
}

func TestList_UnknownToken(t *testing.T) {
	h := NewHandler(seededRepo(), "https://pdf.example.com", nil)

	req := httptest.NewRequest(http.MethodGet, "/giftcards?token=nope", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestList_MissingToken(t *testing.T) {
	h := NewHandler(seededRepo(), "https://pdf.example.com", nil)

	req := httptest.NewRequest(http.MethodGet, "/giftcards", nil)
	w := httptest.NewRecorder()
	h.List(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPDF_RedirectsToRenderer(t *testing.T) {
	h := NewHandler(seededRepo(), "https://pdf.example.com/", nil)

	req := httptest.NewRequest(http.MethodGet, "/giftcards/pdf?token=tok-abc", nil)
	w := httptest.NewRecorder()
	h.PDF(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "https://pdf.example.com/render?token=tok-abc" {
		t.Errorf("unexpected redirect target: %s", loc)
	}
}

func TestPDF_UnknownTokenNoRedirect(t *testing.T) {
	h := NewHandler(seededRepo(), "https://pdf.example.com", nil)

	req := httptest.NewRequest(http.MethodGet, "/giftcards/pdf?token=nope", nil)
	w := httptest.NewRecorder()
	h.PDF(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestPDF_NoRendererConfigured(t *testing.T) {
	h := NewHandler(seededRepo(), "", nil)

	req := httptest.NewRequest(http.MethodGet, "/giftcards/pdf?token=tok-abc", nil)
	w := httptest.NewRecorder()
	h.PDF(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
