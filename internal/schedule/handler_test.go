package schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func seededRepo() *InMemoryRepository {
	repo := NewInMemoryRepository()
	repo.Seed(
		&ClassOffering{ID: "ice-mar", Title: "Baño de Hielo", DayKey: "martes", TimeOfDay: "19:00", DurationMinutes: 60, TrialEligible: true},
		&ClassOffering{ID: "yin-mar", Title: "Yoga Yin", DayKey: "martes", TimeOfDay: "20:00", DurationMinutes: 60, TrialEligible: true},
		&ClassOffering{ID: "breath-lun", Title: "Breathwork", DayKey: "lunes", TimeOfDay: "08:00", DurationMinutes: 45, TrialEligible: false},
	)
	return repo
}

func TestListOfferings(t *testing.T) {
	gen := NewDateGenerator("America/Santiago", 14, nil)
	handler := NewHandler(seededRepo(), gen, nil)

	req := httptest.NewRequest(http.MethodGet, "/schedule", nil)
	w := httptest.NewRecorder()

	handler.ListOfferings(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		Offerings []*ClassOffering `json:"offerings"`
		Count     int              `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 3 {
		t.Errorf("expected 3 offerings, got %d", resp.Count)
	}
	if resp.Offerings[0].ID != "breath-lun" {
		t.Errorf("expected Monday class first, got %s", resp.Offerings[0].ID)
	}
}

func TestListUpcomingDates(t *testing.T) {
	loc, _ := time.LoadLocation("America/Santiago")
	gen := NewDateGenerator("America/Santiago", 14, nil).
		WithNow(func() time.Time { return time.Date(2025, 6, 11, 9, 0, 0, 0, loc) })
	handler := NewHandler(seededRepo(), gen, nil)

	r := chi.NewRouter()
	r.Get("/schedule/{dayKey}/dates", handler.ListUpcomingDates)

	req := httptest.NewRequest(http.MethodGet, "/schedule/lunes/dates", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp UpcomingDatesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Dates) != 2 || resp.Dates[0] != "2025-06-16" {
		t.Errorf("unexpected dates: %v", resp.Dates)
	}
}

func TestListUpcomingDates_UnknownDay(t *testing.T) {
	gen := NewDateGenerator("America/Santiago", 14, nil)
	handler := NewHandler(seededRepo(), gen, nil)

	r := chi.NewRouter()
	r.Get("/schedule/{dayKey}/dates", handler.ListUpcomingDates)

	req := httptest.NewRequest(http.MethodGet, "/schedule/holiday/dates", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown day, got %d", w.Code)
	}
	var resp UpcomingDatesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Dates) != 0 {
		t.Errorf("expected empty dates, got %v", resp.Dates)
	}
}

func TestRepositoryListByDay(t *testing.T) {
	repo := seededRepo()
	ctx := context.Background()

	tuesday, err := repo.ListByDay(ctx, "martes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tuesday) != 2 {
		t.Fatalf("expected 2 Tuesday classes, got %d", len(tuesday))
	}
	if tuesday[0].TimeOfDay != "19:00" {
		t.Errorf("expected earliest class first, got %s", tuesday[0].TimeOfDay)
	}

	english, err := repo.ListByDay(ctx, "Tuesday")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(english) != 2 {
		t.Errorf("expected English day key to match, got %d classes", len(english))
	}

	unknown, err := repo.ListByDay(ctx, "feriado")
	if err != nil || unknown != nil {
		t.Errorf("expected nil, nil for unknown day, got %v, %v", unknown, err)
	}
}

func TestRepositoryGetByID_NotFound(t *testing.T) {
	repo := seededRepo()
	if _, err := repo.GetByID(context.Background(), "nope"); err != ErrOfferingNotFound {
		t.Errorf("expected ErrOfferingNotFound, got %v", err)
	}
}
