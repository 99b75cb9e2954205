package bridge

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// ErrBusy is returned when an exclusive request is issued while another
	// one is still pending on the same bridge.
	ErrBusy = errors.New("an exclusive request is already pending")
	// ErrCancelled is returned when the caller cancels a pending request
	// before the wallet resolves it.
	ErrCancelled = errors.New("request cancelled before resolution")
	// ErrTimedOut is returned when the timeout race wins over the pending
	// request.
	ErrTimedOut = errors.New("request timed out")
)

// Bridge adapts the wallet's promise-style call convention: every call is a
// suspension point racing the wallet's resolution against cancellation and a
// configurable timeout. One bridge serves one session.
//
// Exclusive calls (enable, signTx, signData, submitTx) are single-flight:
// they hold the user's attention on a wallet prompt, so at most one may be
// pending at a time. Query calls have no such restriction and may run
// concurrently.
type Bridge struct {
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	metrics *callMetrics

	// single-flight token for prompt-bound requests
	exclusive chan struct{}
}

// New returns a bridge applying the given timeout to every call. A zero
// timeout disables the timer race. The breaker, when not nil, guards query
// calls only: prompt-bound calls legitimately stay pending for as long as
// the user thinks, which must not trip it.
func New(timeout time.Duration, breaker *gobreaker.CircuitBreaker) *Bridge {
	return &Bridge{
		timeout:   timeout,
		breaker:   breaker,
		metrics:   newCallMetrics(),
		exclusive: make(chan struct{}, 1),
	}
}

// Call issues one concurrent-safe wallet request.
func (b *Bridge) Call(ctx context.Context, op string, fn func(context.Context) error) error {
	run := fn
	if b.breaker != nil {
		run = func(ctx context.Context) error {
			_, err := b.breaker.Execute(func() (interface{}, error) {
				return nil, fn(ctx)
			})
			return err
		}
	}
	return b.await(ctx, op, run)
}

// CallExclusive issues one prompt-bound wallet request, failing fast with
// ErrBusy when another exclusive request is pending.
func (b *Bridge) CallExclusive(ctx context.Context, op string, fn func(context.Context) error) error {
	select {
	case b.exclusive <- struct{}{}:
	default:
		b.metrics.observe(op, outcomeBusy, 0)
		return ErrBusy
	}
	defer func() { <-b.exclusive }()

	return b.await(ctx, op, fn)
}

// await runs fn on its own goroutine and suspends the caller until the first
// of: resolution, caller cancellation, timeout.
func (b *Bridge) await(ctx context.Context, op string, fn func(context.Context) error) error {
	callCtx := ctx
	cancel := context.CancelFunc(func() {})
	if b.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, b.timeout)
	}
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- fn(callCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			// fn may notice the cancellation before the select does and hand
			// back the raw context error; classify it the same either way
			if errors.Is(err, context.DeadlineExceeded) {
				b.metrics.observe(op, outcomeTimeout, time.Since(start))
				return ErrTimedOut
			}
			if errors.Is(err, context.Canceled) {
				b.metrics.observe(op, outcomeCancelled, time.Since(start))
				return ErrCancelled
			}
			b.metrics.observe(op, outcomeError, time.Since(start))
			return err
		}
		b.metrics.observe(op, outcomeOK, time.Since(start))
		return nil
	case <-callCtx.Done():
		// the request goroutine is abandoned; its eventual resolution is
		// dropped on the floor together with the buffered channel
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			b.metrics.observe(op, outcomeTimeout, time.Since(start))
			return ErrTimedOut
		}
		b.metrics.observe(op, outcomeCancelled, time.Since(start))
		return ErrCancelled
	}
}
