package ollamagate

import (
	"context"
	"log/slog"
	"time"
)

// pollSlice bounds how long any wait may block before cancellation is
// observed again.
const pollSlice = 50 * time.Millisecond

// callState is the retry state machine for one logical call.
type callState int

const (
	stateAttempting callState = iota
	stateBackoff
	stateSuccess
	stateCancelled
	stateExhausted
)

func (s callState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateBackoff:
		return "backoff"
	case stateSuccess:
		return "success"
	case stateCancelled:
		return "cancelled"
	case stateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// attemptOutcome classifies one transport exchange for the state machine.
type attemptOutcome int

const (
	outcomeSuccess attemptOutcome = iota
	outcomeRetryable
	outcomeCancelled
)

// transition computes the next state from one attempt's outcome. It is pure:
// attempt is 1-indexed and maxRetries is the total attempt ceiling.
func transition(out attemptOutcome, attempt, maxRetries int) callState {
	switch out {
	case outcomeSuccess:
		return stateSuccess
	case outcomeCancelled:
		return stateCancelled
	default:
		if attempt >= maxRetries {
			return stateExhausted
		}
		return stateBackoff
	}
}

// classifyOutcome maps an attempt error to its state machine outcome.
// Timeouts arrive as TransportError and so count as retryable.
func classifyOutcome(err error) attemptOutcome {
	switch err.(type) {
	case nil:
		return outcomeSuccess
	case *CancelledError:
		return outcomeCancelled
	default:
		return outcomeRetryable
	}
}

// backoffDelay returns base × 2^(attempt−1) for the 1-indexed attempt, so
// the first backoff uses exponent zero.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	return base << uint(attempt-1)
}

// attemptFunc performs one transport exchange under the given context.
type attemptFunc func(ctx context.Context) (string, error)

// Engine drives a single call through attempts and backoff, racing every
// network operation and every wait against the cancellation broadcaster.
type Engine struct {
	cancel     *Broadcaster
	maxRetries int
	baseDelay  time.Duration
}

type attemptResult struct {
	text string
	err  error
}

// run executes fn under the retry policy. timeout bounds each individual
// attempt, not the whole call. Intermediate attempt failures are handled
// here and never surfaced individually.
func (e *Engine) run(ctx context.Context, logger *slog.Logger, timeout time.Duration, fn attemptFunc) (string, error) {
	listener := e.cancel.Subscribe()
	defer listener.Close()

	for attempt := 1; ; attempt++ {
		if listener.Poll() != PollEmpty {
			logger.Debug("cancelled before attempt", "attempt", attempt)
			return "", &CancelledError{}
		}

		text, err := e.attempt(ctx, timeout, listener, fn)
		switch transition(classifyOutcome(err), attempt, e.maxRetries) {
		case stateSuccess:
			return text, nil
		case stateCancelled:
			logger.Debug("cancelled mid-flight", "attempt", attempt)
			return "", &CancelledError{}
		case stateExhausted:
			logger.Warn("retries exhausted", "attempts", attempt, "err", err)
			return "", &ExhaustedRetriesError{Attempts: attempt, LastErr: err}
		case stateBackoff:
			delay := backoffDelay(e.baseDelay, attempt)
			logger.Debug("attempt failed, backing off", "attempt", attempt, "delay", delay, "err", err)
			if !e.backoff(ctx, listener, delay) {
				return "", &CancelledError{}
			}
		}
	}
}

// attempt races one transport exchange against the cancellation listener;
// whichever completes first wins. A cancellation mid-flight discards any
// partial network result.
func (e *Engine) attempt(ctx context.Context, timeout time.Duration, listener *Listener, fn attemptFunc) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resCh := make(chan attemptResult, 1)
	go func() {
		text, err := fn(attemptCtx)
		resCh <- attemptResult{text: text, err: err}
	}()

	select {
	case res := <-resCh:
		return res.text, res.err
	case <-listener.Signal():
		cancel()
		return "", &CancelledError{}
	}
}

// backoff waits the full delay in pollSlice increments, returning false if a
// cancellation fires during the wait. A cancellation is observed within one
// slice of latency at worst; the select wakes immediately in practice.
func (e *Engine) backoff(ctx context.Context, listener *Listener, delay time.Duration) bool {
	deadline := time.Now().Add(delay)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}
		slice := remaining
		if slice > pollSlice {
			slice = pollSlice
		}
		timer := time.NewTimer(slice)
		select {
		case <-timer.C:
		case <-listener.Signal():
			timer.Stop()
			return false
		case <-ctx.Done():
			timer.Stop()
			return false
		}
	}
}
