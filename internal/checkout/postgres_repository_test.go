package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresRepository_GetByCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithExec(mock)
	createdAt := time.Now().UTC()

	mock.ExpectQuery("SELECT code, url, plan_label, active, created_at").
		WithArgs("yin10").
		WillReturnRows(pgxmock.NewRows([]string{"code", "url", "plan_label", "active", "created_at"}).
			AddRow("yin10", "https://pay.example.com/checkout/yin-10", "Plan Yin", true, createdAt))

	link, err := repo.GetByCode(context.Background(), "YIN10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link.URL != "https://pay.example.com/checkout/yin-10" || link.PlanLabel != "Plan Yin" {
		t.Errorf("unexpected link: %+v", link)
	}

	mock.ExpectQuery("SELECT code, url, plan_label, active, created_at").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByCode(context.Background(), "nope"); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithExec(mock)

	mock.ExpectExec("INSERT INTO checkout_links").
		WithArgs("yin10", "https://pay.example.com/checkout/yin-10", "Plan Yin", true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), &Link{
		Code:      "YIN10",
		URL:       "https://pay.example.com/checkout/yin-10",
		PlanLabel: "Plan Yin",
		Active:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
