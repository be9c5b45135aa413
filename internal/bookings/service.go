package bookings

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aukawellness/studio-api/internal/attribution"
	"github.com/aukawellness/studio-api/internal/observability/metrics"
	"github.com/aukawellness/studio-api/internal/tracking"
	"github.com/aukawellness/studio-api/pkg/logging"
)

var bookingsTracer = otel.Tracer("auka.internal.bookings")

// ConfirmationSender delivers the booking confirmation email. Implemented by
// the notify package; delivery is best effort.
type ConfirmationSender interface {
	SendBookingConfirmation(ctx context.Context, booking *Booking) error
}

// Service handles trial booking submissions: validation, the
// already-attended guard, persistence, and best-effort side effects.
type Service struct {
	repo     Repository
	limiter  *AttemptLimiter
	tracker  tracking.Tracker
	eventIDs *tracking.EventIDStore
	notifier ConfirmationSender
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	currency string
}

// NewService constructs a bookings service.
func NewService(repo Repository, limiter *AttemptLimiter, tracker tracking.Tracker, eventIDs *tracking.EventIDStore, notifier ConfirmationSender, m *metrics.BookingMetrics, currency string, logger *logging.Logger) *Service {
	if repo == nil {
		panic("bookings: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if currency == "" {
		currency = "CLP"
	}
	return &Service{
		repo:     repo,
		limiter:  limiter,
		tracker:  tracker,
		eventIDs: eventIDs,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		currency: currency,
	}
}

// Submit processes one booking submission and returns a tagged outcome.
// Validation failures are returned as errors (the caller surfaces them
// inline); everything past validation maps onto an Outcome. There are no
// automatic retries: a retry is the user resubmitting the form.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest, clickIDs attribution.ClickIDs) (*Outcome, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := bookingsTracer.Start(ctx, "bookings.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("auka.class_title", req.ClassTitle),
		attribute.String("auka.day_key", req.DayKey),
	)

	// Last-touch attribution: read UTM from the page URL as submitted.
	if req.UTM.IsZero() && req.PageURL != "" {
		req.UTM = attribution.UTMFromPageURL(req.PageURL)
	}

	email := req.NormalizedEmail()

	if !s.limiter.Allow(ctx, email) {
		outcome := &Outcome{Kind: OutcomeError, Message: "Demasiados intentos. Intenta nuevamente más tarde."}
		s.observe(outcome, start)
		return outcome, nil
	}

	attended, err := s.repo.HasTrialBooking(ctx, email)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("trial guard lookup failed", "error", err, "email", email)
		outcome := &Outcome{Kind: OutcomeError, Message: "No pudimos procesar tu reserva. Intenta nuevamente."}
		s.observe(outcome, start)
		return outcome, nil
	}
	if attended {
		s.logger.Info("trial already attended", "email", email)
		outcome := &Outcome{Kind: OutcomeAlreadyAttended}
		s.observe(outcome, start)
		return outcome, nil
	}

	booking, err := s.repo.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("booking insert failed", "error", err, "email", email)
		outcome := &Outcome{Kind: OutcomeError, Message: "No pudimos procesar tu reserva. Intenta nuevamente."}
		s.observe(outcome, start)
		return outcome, nil
	}

	s.logger.Info("trial booking confirmed",
		"booking_id", booking.ID,
		"class", booking.ClassTitle,
		"date", booking.SelectedDate,
	)

	s.fireScheduleEvent(ctx, booking, req, clickIDs)

	if s.notifier != nil {
		if err := s.notifier.SendBookingConfirmation(ctx, booking); err != nil {
			s.logger.Warn("confirmation email failed", "error", err, "booking_id", booking.ID)
		}
	}

	outcome := &Outcome{Kind: OutcomeConfirmed, Booking: booking}
	s.observe(outcome, start)
	return outcome, nil
}

// fireScheduleEvent reports the server-side conversion. The event id is
// keyed on the booking's email+date so a resubmitted form reuses the same id
// and the ad platform deduplicates.
func (s *Service) fireScheduleEvent(ctx context.Context, booking *Booking, req *SubmitRequest, clickIDs attribution.ClickIDs) {
	if s.tracker == nil {
		return
	}

	actionKey := "schedule:" + booking.Email + ":" + booking.SelectedDate
	eventID, err := s.eventIDs.GetOrCreate(ctx, actionKey)
	if err != nil {
		s.logger.Warn("event id lookup failed, using fresh id", "error", err)
	}

	s.tracker.Track(ctx, tracking.Event{
		Name:      tracking.EventSchedule,
		ID:        eventID,
		SourceURL: req.PageURL,
		Value:     0,
		Currency:  s.currency,
		UserData: tracking.UserData{
			Email:     booking.Email,
			Phone:     booking.Phone,
			ClickID:   clickIDs.ClickID,
			BrowserID: clickIDs.BrowserID,
		},
		Attributes: map[string]string{
			"class_title":   booking.ClassTitle,
			"selected_date": booking.SelectedDate,
		},
	})
}

func (s *Service) observe(outcome *Outcome, start time.Time) {
	s.metrics.ObserveSubmission(string(outcome.Kind), time.Since(start).Seconds())
}
