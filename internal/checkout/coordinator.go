package checkout

import (
	"sync"
	"time"

	"github.com/aukawellness/studio-api/pkg/logging"
)

// Redirect is one scheduled navigation to an external checkout page.
type Redirect struct {
	URL       string    `json:"url"`
	PlanLabel string    `json:"plan_label,omitempty"`
	FiresAt   time.Time `json:"fires_at"`
}

// NavigateFunc receives the redirect once its delay elapses.
type NavigateFunc func(Redirect)

// Coordinator schedules delayed navigations to external checkout URLs. At
// most one redirect is ever pending: beginning a new one cancels the
// previous timer, and cancellation clears the pending navigation entirely.
type Coordinator struct {
	mu      sync.Mutex
	delay   time.Duration
	pending *Redirect
	timer   *time.Timer
	closed  bool

	navigate NavigateFunc
	logger   *logging.Logger
}

// NewCoordinator creates a coordinator firing navigations after delay.
func NewCoordinator(delay time.Duration, navigate NavigateFunc, logger *logging.Logger) *Coordinator {
	if delay <= 0 {
		delay = 1200 * time.Millisecond
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Coordinator{delay: delay, navigate: navigate, logger: logger}
}

// Begin schedules a navigation to url. A redirect already pending is
// cancelled first; only one navigation ever fires.
func (c *Coordinator) Begin(url, planLabel string) (Redirect, error) {
	if url == "" {
		return Redirect{}, ErrMissingCheckoutURL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Redirect{}, ErrCoordinatorClosed
	}
	c.cancelLocked()

	redirect := Redirect{URL: url, PlanLabel: planLabel, FiresAt: time.Now().Add(c.delay)}
	c.pending = &redirect
	c.timer = time.AfterFunc(c.delay, func() { c.fire(redirect) })

	c.logger.Info("checkout redirect scheduled", "url", url, "plan", planLabel, "delay", c.delay)
	return redirect, nil
}

// Pending returns the currently scheduled redirect, if any.
func (c *Coordinator) Pending() (Redirect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return Redirect{}, false
	}
	return *c.pending, true
}

// Cancel clears the pending navigation. Returns false when nothing was
// pending.
func (c *Coordinator) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return false
	}
	c.cancelLocked()
	c.logger.Info("checkout redirect cancelled")
	return true
}

// Close cancels any pending navigation and rejects further Begin calls.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	c.closed = true
}

func (c *Coordinator) cancelLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = nil
}

func (c *Coordinator) fire(redirect Redirect) {
	c.mu.Lock()
	// A cancel or a newer Begin may have raced the timer.
	if c.pending == nil || c.pending.URL != redirect.URL || !c.pending.FiresAt.Equal(redirect.FiresAt) {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.timer = nil
	c.mu.Unlock()

	if c.navigate != nil {
		c.navigate(redirect)
	}
}
