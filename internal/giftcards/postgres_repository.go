package giftcards

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores gift cards in the relational database.
type PostgresRepository struct {
	pool querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("giftcards: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithExec(exec querier) *PostgresRepository {
	if exec == nil {
		panic("giftcards: exec required")
	}
	return &PostgresRepository{pool: exec}
}

// ListByToken returns the cards reachable through a token.
func (r *PostgresRepository) ListByToken(ctx context.Context, token string) ([]*GiftCard, error) {
	query := `
		SELECT code, order_id, amount, currency, redeemed_at, created_at
		FROM gift_cards
		WHERE access_token = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, token)
	if err != nil {
		return nil, fmt.Errorf("giftcards: list by token: %w", err)
	}
	defer rows.Close()

	var cards []*GiftCard
	for rows.Next() {
		var c GiftCard
		if err := rows.Scan(&c.Code, &c.OrderID, &c.Amount, &c.Currency, &c.RedeemedAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("giftcards: scan card: %w", err)
		}
		cards = append(cards, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("giftcards: iterate cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, ErrTokenNotFound
	}
	return cards, nil
}
