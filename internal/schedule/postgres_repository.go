package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores class offerings in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("schedule: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const offeringColumns = `id, title, day_key, time_of_day, duration_minutes, instructor, description, trial_eligible`

// List returns all offerings ordered by day then time.
func (r *PostgresRepository) List(ctx context.Context) ([]*ClassOffering, error) {
	query := `
		SELECT ` + offeringColumns + `
		FROM class_offerings
		ORDER BY day_order, time_of_day, id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("schedule: list offerings: %w", err)
	}
	defer rows.Close()
	return scanOfferings(rows)
}

// GetByID fetches one offering.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*ClassOffering, error) {
	query := `
		SELECT ` + offeringColumns + `
		FROM class_offerings
		WHERE id = $1
	`
	var o ClassOffering
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.Title,
		&o.DayKey,
		&o.TimeOfDay,
		&o.DurationMinutes,
		&o.Instructor,
		&o.Description,
		&o.TrialEligible,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOfferingNotFound
		}
		return nil, fmt.Errorf("schedule: select offering: %w", err)
	}
	return &o, nil
}

// ListByDay returns the offerings scheduled on the given day. Day keys are
// normalized to Spanish at insert time, so an English key is translated first.
func (r *PostgresRepository) ListByDay(ctx context.Context, dayKey string) ([]*ClassOffering, error) {
	target, ok := ParseDayKey(dayKey)
	if !ok {
		return nil, nil
	}
	query := `
		SELECT ` + offeringColumns + `
		FROM class_offerings
		WHERE day_order = $1
		ORDER BY time_of_day, id
	`
	rows, err := r.pool.Query(ctx, query, int(target))
	if err != nil {
		return nil, fmt.Errorf("schedule: list offerings by day: %w", err)
	}
	defer rows.Close()
	return scanOfferings(rows)
}

func scanOfferings(rows pgx.Rows) ([]*ClassOffering, error) {
	var out []*ClassOffering
	for rows.Next() {
		var o ClassOffering
		if err := rows.Scan(
			&o.ID,
			&o.Title,
			&o.DayKey,
			&o.TimeOfDay,
			&o.DurationMinutes,
			&o.Instructor,
			&o.Description,
			&o.TrialEligible,
		); err != nil {
			return nil, fmt.Errorf("schedule: scan offering: %w", err)
		}
		out = append(out, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schedule: iterate offerings: %w", err)
	}
	return out, nil
}
