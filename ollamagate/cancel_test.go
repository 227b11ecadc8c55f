package ollamagate

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestBroadcasterEmitWithoutListeners(t *testing.T) {
	b := NewBroadcaster()
	b.Emit() // must not panic or block
}

func TestListenerObservesEmit(t *testing.T) {
	b := NewBroadcaster()
	l := b.Subscribe()
	defer l.Close()

	if got := l.Poll(); got != PollEmpty {
		t.Fatalf("expected PollEmpty before emit, got %v", got)
	}
	b.Emit()
	if got := l.Poll(); got != PollSignalled {
		t.Fatalf("expected PollSignalled after emit, got %v", got)
	}
}

func TestLateSubscriberMissesPastSignal(t *testing.T) {
	b := NewBroadcaster()
	b.Emit()

	l := b.Subscribe()
	defer l.Close()
	if got := l.Poll(); got != PollEmpty {
		t.Errorf("past emit must not be replayed, got %v", got)
	}
}

func TestRepeatedEmitsCoalesce(t *testing.T) {
	b := NewBroadcaster()
	l := b.Subscribe()
	defer l.Close()

	b.Emit()
	b.Emit()
	b.Emit()
	if got := l.Poll(); got != PollSignalled {
		t.Fatalf("expected PollSignalled, got %v", got)
	}
}

func TestEveryListenerObservesEmit(t *testing.T) {
	b := NewBroadcaster()
	listeners := make([]*Listener, 5)
	for i := range listeners {
		listeners[i] = b.Subscribe()
	}
	b.Emit()
	for i, l := range listeners {
		if got := l.Poll(); got != PollSignalled {
			t.Errorf("listener %d: expected PollSignalled, got %v", i, got)
		}
		l.Close()
	}
}

func TestWaitReturnsOnEmit(t *testing.T) {
	b := NewBroadcaster()
	l := b.Subscribe()
	defer l.Close()

	go func() {
		time.Sleep(10 * time.Millisecond)
		b.Emit()
	}()

	if !l.Wait(context.Background()) {
		t.Error("expected Wait to report a signal")
	}
}

func TestWaitReturnsOnContextEnd(t *testing.T) {
	b := NewBroadcaster()
	l := b.Subscribe()
	defer l.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if l.Wait(ctx) {
		t.Error("expected Wait to report no signal on context end")
	}
}

func TestCloseReleasesListeners(t *testing.T) {
	b := NewBroadcaster()
	l := b.Subscribe()

	b.Close()
	if got := l.Poll(); got != PollClosed {
		t.Errorf("expected PollClosed after broadcaster close, got %v", got)
	}
	if l.Wait(context.Background()) {
		t.Error("Wait after close must not report a signal")
	}
}

func TestSubscribeAfterClose(t *testing.T) {
	b := NewBroadcaster()
	b.Close()

	l := b.Subscribe()
	if got := l.Poll(); got != PollClosed {
		t.Errorf("expected PollClosed for listener subscribed after close, got %v", got)
	}
}

func TestConcurrentEmitAndSubscribe(t *testing.T) {
	b := NewBroadcaster()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l := b.Subscribe()
			l.Poll()
			l.Close()
		}()
		go func() {
			defer wg.Done()
			b.Emit()
		}()
	}
	wg.Wait()
}
