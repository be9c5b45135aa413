package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aukawellness/studio-api/pkg/logging"
)

// Publisher enqueues tracking events for asynchronous delivery. It
// implements Tracker, so callers cannot tell whether events are delivered
// inline or through the queue.
type Publisher struct {
	queue  queueClient
	logger *logging.Logger
}

// NewPublisher creates a queue-backed publisher.
func NewPublisher(queue queueClient, logger *logging.Logger) *Publisher {
	if queue == nil {
		panic("tracking: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{queue: queue, logger: logger}
}

// Track enqueues the event. Failures are logged and swallowed: tracking is
// best effort and must never block the user-facing flow.
func (p *Publisher) Track(ctx context.Context, ev Event) {
	if ev.ID == "" {
		ev.ID = NewEventID(time.Now())
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("tracking event encode failed", "event", ev.Name, "error", err)
		return
	}
	if err := p.queue.Send(ctx, string(body)); err != nil {
		p.logger.Warn("tracking event enqueue failed", "event", ev.Name, "event_id", ev.ID, "error", err)
		return
	}
	p.logger.Debug("tracking event enqueued", "event", ev.Name, "event_id", ev.ID)
}

// Dispatcher drains the queue and hands events to the facade.
type Dispatcher struct {
	queue  queueClient
	facade *Facade
	logger *logging.Logger
	batch  int
	wait   int
}

// NewDispatcher creates a dispatcher worker.
func NewDispatcher(queue queueClient, facade *Facade, logger *logging.Logger) *Dispatcher {
	if queue == nil {
		panic("tracking: queue cannot be nil")
	}
	if facade == nil {
		panic("tracking: facade cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		queue:  queue,
		facade: facade,
		logger: logger,
		batch:  10,
		wait:   5,
	}
}

// Run processes queued events until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		messages, err := d.queue.Receive(ctx, d.batch, d.wait)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			d.logger.Error("tracking queue receive failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		for _, msg := range messages {
			d.dispatch(ctx, msg)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, msg queueMessage) {
	var ev Event
	if err := json.Unmarshal([]byte(msg.Body), &ev); err != nil {
		d.logger.Error("tracking event decode failed", "message_id", msg.ID, "error", err)
		// Poison message: drop it rather than redeliver forever.
		_ = d.queue.Delete(ctx, msg.ReceiptHandle)
		return
	}

	d.facade.Track(ctx, ev)

	if err := d.queue.Delete(ctx, msg.ReceiptHandle); err != nil {
		d.logger.Warn("tracking queue delete failed", "message_id", msg.ID, "error", err)
	}
}

// drainOnce is a test seam: process at most one receive batch.
func (d *Dispatcher) drainOnce(ctx context.Context) error {
	messages, err := d.queue.Receive(ctx, d.batch, 0)
	if err != nil {
		return fmt.Errorf("tracking: drain receive: %w", err)
	}
	for _, msg := range messages {
		d.dispatch(ctx, msg)
	}
	return nil
}
