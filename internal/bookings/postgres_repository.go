package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores bookings in the relational database.
type PostgresRepository struct {
	pool rowQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithExec(exec rowQuerier) *PostgresRepository {
	if exec == nil {
		panic("bookings: exec required")
	}
	return &PostgresRepository{pool: exec}
}

// Create inserts a new booking row.
func (r *PostgresRepository) Create(ctx context.Context, req *SubmitRequest) (*Booking, error) {
	id := uuid.New()
	query := `
		INSERT INTO trial_bookings (id, name, email, phone, class_title, day_key, time_of_day, selected_date, utm_source, utm_medium, utm_campaign)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.Name,
		req.NormalizedEmail(),
		req.Phone,
		req.ClassTitle,
		req.DayKey,
		req.TimeOfDay,
		req.SelectedDate,
		req.UTM.Source,
		req.UTM.Medium,
		req.UTM.Campaign,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("bookings: insert failed: %w", err)
	}

	return &Booking{
		ID:           id.String(),
		Name:         req.Name,
		Email:        req.NormalizedEmail(),
		Phone:        req.Phone,
		ClassTitle:   req.ClassTitle,
		DayKey:       req.DayKey,
		TimeOfDay:    req.TimeOfDay,
		SelectedDate: req.SelectedDate,
		UTMSource:    req.UTM.Source,
		UTMMedium:    req.UTM.Medium,
		UTMCampaign:  req.UTM.Campaign,
		CreatedAt:    createdAt,
	}, nil
}

// HasTrialBooking checks whether the email already used its trial class.
func (r *PostgresRepository) HasTrialBooking(ctx context.Context, normalizedEmail string) (bool, error) {
	query := `SELECT 1 FROM trial_bookings WHERE email = $1 LIMIT 1`
	var exists int
	if err := r.pool.QueryRow(ctx, query, normalizedEmail).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("bookings: check trial: %w", err)
	}
	return true, nil
}

// GetByID fetches a booking.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT id, name, email, phone, class_title, day_key, time_of_day, selected_date, utm_source, utm_medium, utm_campaign, created_at
		FROM trial_bookings
		WHERE id = $1
	`
	var b Booking
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Name,
		&b.Email,
		&b.Phone,
		&b.ClassTitle,
		&b.DayKey,
		&b.TimeOfDay,
		&b.SelectedDate,
		&b.UTMSource,
		&b.UTMMedium,
		&b.UTMCampaign,
		&b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: select failed: %w", err)
	}
	return &b, nil
}
