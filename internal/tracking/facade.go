package tracking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aukawellness/studio-api/internal/observability/metrics"
	"github.com/aukawellness/studio-api/pkg/logging"
)

var trackingTracer = otel.Tracer("auka.internal.tracking")

// Tracker is the narrow port the rest of the application depends on.
// Implementations must never surface delivery failures to the caller.
type Tracker interface {
	Track(ctx context.Context, ev Event)
}

// Sink delivers an event to one destination (browser pixel, conversions API).
type Sink interface {
	Name() string
	Send(ctx context.Context, ev Event) error
}

// Facade fans one logical event out to every registered sink with a shared
// event id. Each sink is fault isolated: a failing sink is logged and
// counted, and neither blocks the caller nor the other sinks.
type Facade struct {
	sinks   []Sink
	logger  *logging.Logger
	metrics *metrics.TrackingMetrics
	timeout time.Duration
}

// NewFacade creates a tracking facade over the given sinks.
func NewFacade(sinks []Sink, logger *logging.Logger, m *metrics.TrackingMetrics, timeout time.Duration) *Facade {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Facade{
		sinks:   sinks,
		logger:  logger,
		metrics: m,
		timeout: timeout,
	}
}

// Track delivers the event to all sinks. An event without an id gets one
// assigned here; callers that retry an action must pass the stored id so the
// platform can deduplicate.
func (f *Facade) Track(ctx context.Context, ev Event) {
	if ev.ID == "" {
		ev.ID = NewEventID(time.Now())
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	ctx, span := trackingTracer.Start(ctx, "tracking.dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("tracking.event_name", ev.Name),
		attribute.String("tracking.event_id", ev.ID),
	)

	for _, sink := range f.sinks {
		sendCtx, cancel := context.WithTimeout(ctx, f.timeout)
		err := sink.Send(sendCtx, ev)
		cancel()
		if err != nil {
			f.logger.Warn("tracking delivery failed",
				"sink", sink.Name(),
				"event", ev.Name,
				"event_id", ev.ID,
				"error", err,
			)
			f.metrics.ObserveDelivery(sink.Name(), "error")
			continue
		}
		f.metrics.ObserveDelivery(sink.Name(), "ok")
	}
}
