package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores checkout links in the relational database.
type PostgresRepository struct {
	pool rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("checkout: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithExec(exec rowQuerier) *PostgresRepository {
	if exec == nil {
		panic("checkout: exec required")
	}
	return &PostgresRepository{pool: exec}
}

// GetByCode returns the active link for a short code.
func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*Link, error) {
	query := `
		SELECT code, url, plan_label, active, created_at
		FROM checkout_links
		WHERE code = $1 AND active = true
	`
	var link Link
	err := r.pool.QueryRow(ctx, query, strings.ToLower(code)).Scan(
		&link.Code,
		&link.URL,
		&link.PlanLabel,
		&link.Active,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("checkout: get link: %w", err)
	}
	return &link, nil
}

// Create stores a link.
func (r *PostgresRepository) Create(ctx context.Context, link *Link) error {
	query := `
		INSERT INTO checkout_links (code, url, plan_label, active)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.pool.Exec(ctx, query, strings.ToLower(link.Code), link.URL, link.PlanLabel, link.Active); err != nil {
		return fmt.Errorf("checkout: create link: %w", err)
	}
	return nil
}
