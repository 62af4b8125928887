package telemetry

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type capturePublisher struct {
	mu          sync.Mutex
	points      []PointEvent
	transitions []TransitionEvent
	closed      bool
}

func (c *capturePublisher) PublishPoint(_ context.Context, ev PointEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.points = append(c.points, ev)
	return nil
}

func (c *capturePublisher) PublishTransition(_ context.Context, ev TransitionEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitions = append(c.transitions, ev)
	return nil
}

func (c *capturePublisher) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *capturePublisher) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.points), len(c.transitions)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestForwarderDeliversInOrder(t *testing.T) {
	pub := &capturePublisher{}
	f := NewForwarder(pub, discardLogger(), 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { f.Run(ctx); close(done) }()

	for i := 0; i < 5; i++ {
		f.RecordPoint(PointEvent{DeviceID: "dev-1"})
	}
	f.RecordTransition(TransitionEvent{DeviceID: "dev-1", From: "disconnected", To: "connecting"})

	deadline := time.After(2 * time.Second)
	for {
		p, tr := pub.counts()
		if p == 5 && tr == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("timed out: points=%d transitions=%d", p, tr)
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
	if !pub.closed {
		t.Fatal("publisher not closed on shutdown")
	}
}

func TestForwarderDropsWhenQueueFull(t *testing.T) {
	pub := &capturePublisher{}
	f := NewForwarder(pub, discardLogger(), 2)
	// Run is never started, so the queue fills and overflow is dropped.
	for i := 0; i < 10; i++ {
		f.RecordPoint(PointEvent{})
	}
	if got := f.Dropped(); got != 8 {
		t.Fatalf("dropped = %d, want 8", got)
	}
}
