package coupons

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores coupons in the relational database.
type PostgresRepository struct {
	pool rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("coupons: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithExec(exec rowQuerier) *PostgresRepository {
	if exec == nil {
		panic("coupons: exec required")
	}
	return &PostgresRepository{pool: exec}
}

// GetByCode returns the coupon for a normalized code.
func (r *PostgresRepository) GetByCode(ctx context.Context, normalizedCode string) (*Coupon, error) {
	query := `
		SELECT code, description, discount_type, discount_value, active,
		       valid_from, valid_until, max_uses, uses,
		       package_ids, service_ids, min_purchase_amount
		FROM coupons
		WHERE code = $1
	`
	var c Coupon
	err := r.pool.QueryRow(ctx, query, normalizedCode).Scan(
		&c.Code,
		&c.Description,
		&c.DiscountType,
		&c.DiscountValue,
		&c.Active,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.MaxUses,
		&c.Uses,
		&c.PackageIDs,
		&c.ServiceIDs,
		&c.MinPurchaseAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("coupons: get by code: %w", err)
	}
	return &c, nil
}
