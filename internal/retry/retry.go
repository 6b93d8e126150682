// Package retry wraps calls to rate limited services with bounded, hint-aware backoff.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Defaults for Policy.
const (
	DefaultMaxRetries = 3
	DefaultMaxBackoff = 30 * time.Second
)

// Phase is the state of a single retried call.
type Phase int

// Phase values form the state machine Idle -> Calling -> {Succeeded | Waiting | Failed}, Waiting -> Calling.
const (
	PhaseIdle Phase = iota
	PhaseCalling
	PhaseWaiting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCalling:
		return "calling"
	case PhaseWaiting:
		return "waiting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a snapshot of a call's retry bookkeeping. Attempt counts failures so far.
type State struct {
	Phase      Phase
	Attempt    int
	MaxRetries int
	Wait       time.Duration
}

// Sleeper suspends the caller for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function into a Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep calls f.
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Policy configures Do.
type Policy struct {
	// MaxRetries is the number of retries after the first call; the call runs at most MaxRetries+1 times.
	MaxRetries int
	// MaxBackoff caps the exponential delay. Server hints are bounded by MaxHint instead.
	MaxBackoff time.Duration
	Sleeper    Sleeper
	Logger     *slog.Logger
	// Observer, if set, sees every state transition.
	Observer func(State)
}

// DefaultPolicy returns a policy with three retries and a 30s backoff cap.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: DefaultMaxRetries,
		MaxBackoff: DefaultMaxBackoff,
	}
}

// Do runs fn until it succeeds, fails with a non-retryable error, or runs
// out of retries. Retryable errors are those carrying a retryDelay hint or a
// quota/rate limit/429 signature. A warning is logged before every wait.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = DefaultMaxBackoff
	}
	sleeper := p.Sleeper
	if sleeper == nil {
		sleeper = timerSleeper{}
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	st := State{Phase: PhaseIdle, MaxRetries: p.MaxRetries}
	transition := func(phase Phase, wait time.Duration) {
		st.Phase = phase
		st.Wait = wait
		if p.Observer != nil {
			p.Observer(st)
		}
	}
	transition(PhaseIdle, 0)

	for {
		if err := ctx.Err(); err != nil {
			transition(PhaseFailed, 0)
			return zero, err
		}

		transition(PhaseCalling, 0)
		result, err := fn(ctx)
		if err == nil {
			transition(PhaseSucceeded, 0)
			return result, nil
		}
		st.Attempt++

		wait, retryable := Delay(err, st.Attempt, p.MaxBackoff)
		if !retryable {
			transition(PhaseFailed, 0)
			return zero, &NonRetryableError{Attempts: st.Attempt, Last: err}
		}
		if st.Attempt > p.MaxRetries {
			transition(PhaseFailed, 0)
			return zero, &RetryExhaustedError{Attempts: st.Attempt, Last: err}
		}

		logger.WarnContext(ctx, "rate limited, retrying",
			slog.Int64("wait_ms", wait.Milliseconds()),
			slog.Int("attempt", st.Attempt),
			slog.Int("max_retries", p.MaxRetries),
			slog.String("error", err.Error()),
		)
		transition(PhaseWaiting, wait)
		if serr := sleeper.Sleep(ctx, wait); serr != nil {
			transition(PhaseFailed, 0)
			return zero, fmt.Errorf("retry canceled after %d attempts: %w (last error: %w)", st.Attempt, serr, err)
		}
	}
}
