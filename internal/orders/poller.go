package orders

import (
	"context"
	"errors"
	"time"

	"github.com/aukawellness/studio-api/pkg/logging"
)

// ErrPollExhausted is returned when the order never reached a terminal
// status within the attempt budget.
var ErrPollExhausted = errors.New("order status poll exhausted")

// StatusPoller re-checks an order on a fixed interval until it settles.
// The poll stops on a terminal status, on context cancellation, or when
// the attempt budget runs out, so an abandoned page never leaves a ticker
// running.
type StatusPoller struct {
	service     *Service
	interval    time.Duration
	maxAttempts int
	logger      *logging.Logger
}

// NewStatusPoller creates a poller. maxAttempts <= 0 means unbounded,
// leaving cancellation to the caller's context.
func NewStatusPoller(service *Service, interval time.Duration, maxAttempts int, logger *logging.Logger) *StatusPoller {
	if service == nil {
		panic("orders: service required")
	}
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StatusPoller{service: service, interval: interval, maxAttempts: maxAttempts, logger: logger}
}

// Wait polls until the order settles and returns the terminal view. A
// missing order is returned immediately as an error; transient lookup
// failures are retried on the next tick.
func (p *StatusPoller) Wait(ctx context.Context, orderID string) (*StatusView, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var last *StatusView
	attempts := 0
	for {
		attempts++
		view, err := p.service.Status(ctx, orderID)
		switch {
		case errors.Is(err, ErrOrderNotFound):
			return nil, err
		case err != nil:
			p.logger.Warn("order status check failed, will retry", "order_id", orderID, "error", err)
		case view.Status.Terminal():
			return view, nil
		default:
			last = view
		}

		if p.maxAttempts > 0 && attempts >= p.maxAttempts {
			// last stays nil when every attempt failed transiently.
			return last, ErrPollExhausted
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
