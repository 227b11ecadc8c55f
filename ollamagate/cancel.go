package ollamagate

import (
	"context"
	"sync"
)

// Broadcaster fans a stop signal out to every live listener. One instance is
// owned by the application root and injected into each gateway, so a single
// "stop generation" action interrupts every in-flight call without knowing
// their identities.
type Broadcaster struct {
	mu        sync.Mutex
	listeners map[*Listener]struct{}
	closed    bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{listeners: make(map[*Listener]struct{})}
}

// Emit signals every currently subscribed listener. Emitting with no
// listeners is a no-op. A listener with a signal already pending is left as
// is: one pending signal already means "cancelled".
func (b *Broadcaster) Emit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for l := range b.listeners {
		select {
		case l.ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers a fresh listener. The listener observes only signals
// emitted after this call; a cancel emitted earlier is not replayed.
func (b *Broadcaster) Subscribe() *Listener {
	l := &Listener{ch: make(chan struct{}, 1)}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(l.ch)
		return l
	}
	l.b = b
	b.listeners[l] = struct{}{}
	return l
}

// Close tears the broadcaster down and releases every listener. Listeners
// subscribed afterwards observe the closed state immediately.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for l := range b.listeners {
		close(l.ch)
	}
	b.listeners = nil
}

// PollResult is the outcome of a non-blocking cancellation check.
type PollResult int

const (
	// PollEmpty means no cancellation has been observed.
	PollEmpty PollResult = iota
	// PollSignalled means a cancellation arrived since the last check.
	PollSignalled
	// PollClosed means the broadcaster was torn down.
	PollClosed
)

// Listener observes cancellation signals from one Broadcaster. Listeners are
// independent; each call subscribes its own and drops it when the call ends.
type Listener struct {
	b  *Broadcaster
	ch chan struct{}
}

// Poll checks for a pending signal without blocking. It must be called
// before starting a blocking wait so a cancellation requested concurrently
// with call setup is not missed. Observing a signal consumes it.
func (l *Listener) Poll() PollResult {
	select {
	case _, ok := <-l.ch:
		if ok {
			return PollSignalled
		}
		return PollClosed
	default:
		return PollEmpty
	}
}

// Wait suspends the calling goroutine until a cancellation arrives, the
// broadcaster is torn down, or ctx ends. It returns true only for a real
// cancellation signal.
func (l *Listener) Wait(ctx context.Context) bool {
	select {
	case _, ok := <-l.ch:
		return ok
	case <-ctx.Done():
		return false
	}
}

// Signal exposes the underlying channel for select races. A receive means a
// cancellation arrived or the broadcaster was torn down; the engine treats
// both as "cancel now", favoring a false-positive cancel over a missed one.
func (l *Listener) Signal() <-chan struct{} {
	return l.ch
}

// Close unsubscribes the listener from its broadcaster.
func (l *Listener) Close() {
	if l.b == nil {
		return
	}
	l.b.mu.Lock()
	delete(l.b.listeners, l)
	l.b.mu.Unlock()
	l.b = nil
}
