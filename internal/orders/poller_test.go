package orders

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWait_ReturnsOnTerminalStatus(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.Seed(pendingOrder())
	poller := NewStatusPoller(NewService(repo, nil), 5*time.Millisecond, 0, nil)

	// Flip the order to paid while the poller is waiting.
	go func() {
		time.Sleep(15 * time.Millisecond)
		repo.UpdateStatus(context.Background(), "ord-1", StatusPaid)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	view, err := poller.Wait(ctx, "ord-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.StatusType != TypeSuccess {
		t.Fatalf("expected success, got %s", view.StatusType)
	}
}

func TestWait_ContextCancellationStopsPolling(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.Seed(pendingOrder())
	poller := NewStatusPoller(NewService(repo, nil), 5*time.Millisecond, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	done := make(chan error, 1)
	go func() {
		_, err := poller.Wait(ctx, "ord-1")
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancellation")
	}
}

func TestWait_MaxAttemptsExhausted(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.Seed(pendingOrder())
	poller := NewStatusPoller(NewService(repo, nil), time.Millisecond, 3, nil)

	view, err := poller.Wait(context.Background(), "ord-1")
	if !errors.Is(err, ErrPollExhausted) {
		t.Fatalf("expected ErrPollExhausted, got %v", err)
	}
	if view == nil || view.StatusType != TypePending {
		t.Fatalf("exhausted poll should return the last view, got %+v", view)
	}
}

// flakyRepository fails every lookup after the first okAttempts calls.
type flakyRepository struct {
	inner      *InMemoryRepository
	okAttempts int
	calls      int
}

func (r *flakyRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	r.calls++
	if r.calls > r.okAttempts {
		return nil, errors.New("upstream timeout")
	}
	return r.inner.GetByID(ctx, id)
}

func (r *flakyRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	return r.inner.UpdateStatus(ctx, id, status)
}

func TestWait_AllAttemptsTransientlyFailing(t *testing.T) {
	repo := &flakyRepository{inner: NewInMemoryRepository()}
	poller := NewStatusPoller(NewService(repo, nil), time.Millisecond, 3, nil)

	view, err := poller.Wait(context.Background(), "ord-1")
	if !errors.Is(err, ErrPollExhausted) {
		t.Fatalf("expected ErrPollExhausted, got %v", err)
	}
	if view != nil {
		t.Fatalf("no attempt ever observed the order, view must be nil, got %+v", view)
	}
}

func TestWait_ExhaustionKeepsEarlierView(t *testing.T) {
	inner := NewInMemoryRepository()
	inner.Seed(pendingOrder())
	repo := &flakyRepository{inner: inner, okAttempts: 1}
	poller := NewStatusPoller(NewService(repo, nil), time.Millisecond, 3, nil)

	view, err := poller.Wait(context.Background(), "ord-1")
	if !errors.Is(err, ErrPollExhausted) {
		t.Fatalf("expected ErrPollExhausted, got %v", err)
	}
	if view == nil || view.StatusType != TypePending {
		t.Fatalf("expected the view from the successful attempt, got %+v", view)
	}
}

func TestWait_MissingOrderFailsFast(t *testing.T) {
	poller := NewStatusPoller(NewService(NewInMemoryRepository(), nil), time.Millisecond, 0, nil)

	start := time.Now()
	_, err := poller.Wait(context.Background(), "nope")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("missing order must not be retried until the budget runs out")
	}
}
