package funnel

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aukawellness/studio-api/internal/attribution"
	"github.com/aukawellness/studio-api/internal/bookings"
	"github.com/aukawellness/studio-api/internal/observability/metrics"
	"github.com/aukawellness/studio-api/internal/schedule"
	"github.com/aukawellness/studio-api/internal/tracking"
	"github.com/aukawellness/studio-api/pkg/logging"
)

// ContactInfo is the form payload. It is passed through to the booking
// submission and never stored on the session.
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Service orchestrates the trial funnel: step transitions, guards, and the
// tracking side effects tied to them. Tracking failures never block or roll
// back a transition.
type Service struct {
	store    SessionStore
	offers   schedule.Repository
	dates    *schedule.DateGenerator
	booker   *bookings.Service
	tracker  tracking.Tracker
	eventIDs *tracking.EventIDStore
	metrics  *metrics.FunnelMetrics
	logger   *logging.Logger
	currency string
}

// NewService constructs the funnel service.
func NewService(store SessionStore, offers schedule.Repository, dates *schedule.DateGenerator, booker *bookings.Service, tracker tracking.Tracker, eventIDs *tracking.EventIDStore, m *metrics.FunnelMetrics, currency string, logger *logging.Logger) *Service {
	if store == nil {
		panic("funnel: session store required")
	}
	if offers == nil {
		panic("funnel: schedule repository required")
	}
	if dates == nil {
		panic("funnel: date generator required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if currency == "" {
		currency = "CLP"
	}
	return &Service{
		store:    store,
		offers:   offers,
		dates:    dates,
		booker:   booker,
		tracker:  tracker,
		eventIDs: eventIDs,
		metrics:  m,
		logger:   logger,
		currency: currency,
	}
}

// Start opens a new funnel session on the calendar step.
func (s *Service) Start(ctx context.Context) (*Session, error) {
	now := time.Now().UTC()
	session := &Session{
		ID:        uuid.NewString(),
		Step:      StepCalendar,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Debug("funnel session started", "session_id", session.ID)
	return session, nil
}

// Get returns the current session state.
func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	return s.store.Get(ctx, sessionID)
}

// SelectClass records the class choice and moves to the detail step.
func (s *Service) SelectClass(ctx context.Context, sessionID, offeringID, dayKey string) (*Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	offering, err := s.offers.GetByID(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if !offering.TrialEligible {
		return nil, ErrNotTrialEligible
	}
	if dayKey == "" {
		dayKey = offering.DayKey
	}

	from := session.Step
	if err := session.SelectClass(Selection{
		OfferingID: offering.ID,
		ClassTitle: offering.Title,
		DayKey:     dayKey,
		TimeOfDay:  offering.TimeOfDay,
	}); err != nil {
		return nil, err
	}

	if err := s.save(ctx, session, from); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectDate updates the chosen date. The date must be one of the generated
// candidates for the selected day, so a stale or forged date never reaches
// the booking endpoint.
func (s *Service) SelectDate(ctx context.Context, sessionID, date string) (*Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !s.dates.Contains(session.Selection.DayKey, date) {
		return nil, ErrDateNotAvailable
	}

	from := session.Step
	if err := session.SelectDate(date); err != nil {
		return nil, err
	}
	if err := s.save(ctx, session, from); err != nil {
		return nil, err
	}
	return session, nil
}

// Continue moves to the contact form and fires the initiate-checkout event.
// The event fires exactly once per session: the generated id is kept on the
// session, and a repeated continue (after back) reuses it without
// re-dispatching.
func (s *Service) Continue(ctx context.Context, sessionID, pageURL string) (*Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	from := session.Step
	if err := session.Continue(); err != nil {
		return nil, err
	}

	if session.InitiateEventID == "" {
		eventID, err := s.eventIDs.GetOrCreate(ctx, "initiate:"+session.ID)
		if err != nil {
			s.logger.Warn("event id lookup failed, using fresh id", "error", err, "session_id", session.ID)
		}
		session.InitiateEventID = eventID
		s.track(ctx, tracking.Event{
			Name:      tracking.EventInitiateCheckout,
			ID:        eventID,
			SourceURL: pageURL,
			Value:     0,
			Currency:  s.currency,
			Attributes: map[string]string{
				"class_title":   session.Selection.ClassTitle,
				"selected_date": session.Selection.SelectedDate,
			},
		})
	}

	if err := s.save(ctx, session, from); err != nil {
		return nil, err
	}
	return session, nil
}

// Back returns from the form to the detail step.
func (s *Service) Back(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	from := session.Step
	if err := session.Back(); err != nil {
		return nil, err
	}
	if err := s.save(ctx, session, from); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitContact submits the booking and applies the outcome:
// confirmed moves to success, already-attended to blocked, and an error
// keeps the form with a retryable message. Contact data is handed to the
// booking service and not retained on the session.
func (s *Service) SubmitContact(ctx context.Context, sessionID string, contact ContactInfo, pageURL string, clickIDs attribution.ClickIDs) (*Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Step != StepForm {
		return nil, ErrInvalidTransition
	}

	req := &bookings.SubmitRequest{
		Name:         contact.Name,
		Email:        contact.Email,
		Phone:        contact.Phone,
		ClassTitle:   session.Selection.ClassTitle,
		DayKey:       session.Selection.DayKey,
		TimeOfDay:    session.Selection.TimeOfDay,
		SelectedDate: session.Selection.SelectedDate,
		PageURL:      pageURL,
	}

	outcome, err := s.booker.Submit(ctx, req, clickIDs)
	if err != nil {
		// Validation error: the form shows it inline, no transition.
		return nil, err
	}

	from := session.Step
	switch outcome.Kind {
	case bookings.OutcomeConfirmed:
		session.Step = StepSuccess
		session.LastError = ""
	case bookings.OutcomeAlreadyAttended:
		session.Step = StepBlocked
		session.LastError = ""
	default:
		// Stay on the form; the user may resubmit.
		session.LastError = outcome.Message
	}
	s.metrics.ObserveOutcome(string(outcome.Kind))

	if session.Step.Terminal() {
		s.metrics.ObserveTransition(string(from), string(session.Step))
		session.UpdatedAt = time.Now().UTC()
		// The selection's job is done; drop the stored session.
		if err := s.store.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("funnel session cleanup failed", "error", err, "session_id", session.ID)
		}
		return session, nil
	}

	if err := s.save(ctx, session, from); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) save(ctx context.Context, session *Session, from Step) error {
	session.UpdatedAt = time.Now().UTC()
	if err := s.store.Put(ctx, session); err != nil {
		return err
	}
	if from != session.Step {
		s.metrics.ObserveTransition(string(from), string(session.Step))
	}
	return nil
}

func (s *Service) track(ctx context.Context, ev tracking.Event) {
	if s.tracker == nil {
		return
	}
	s.tracker.Track(ctx, ev)
}
