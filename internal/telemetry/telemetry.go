// Package telemetry streams controller output to an external broker so
// dashboards and recorders can follow a live session. Publishing is
// decoupled from the control loop through a bounded queue: the loop never
// blocks on broker I/O.
package telemetry

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/muhsinh/smartbrain/internal/analyze"
	"github.com/muhsinh/smartbrain/internal/history"
)

const publishTimeout = 5 * time.Second

// PointEvent is one scored reading as published per data tick.
type PointEvent struct {
	DeviceID    string                 `json:"deviceId"`
	Point       history.DataPoint      `json:"point"`
	State       analyze.CognitiveState `json:"state"`
	Stimulating bool                   `json:"stimulating"`
}

// TransitionEvent records a lifecycle transition of the controller.
type TransitionEvent struct {
	DeviceID  string    `json:"deviceId"`
	SessionID string    `json:"sessionId,omitempty"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers events to a broker. Implementations may block; only
// the Forwarder goroutine calls them.
type Publisher interface {
	PublishPoint(ctx context.Context, ev PointEvent) error
	PublishTransition(ctx context.Context, ev TransitionEvent) error
	Close() error
}

// Recorder is the non-blocking surface the controller records through.
type Recorder interface {
	RecordPoint(ev PointEvent)
	RecordTransition(ev TransitionEvent)
}

// Forwarder queues events and publishes them from its own goroutine.
// When the queue is full the event is dropped and counted; a slow broker
// must not stall the control loop.
type Forwarder struct {
	pub     Publisher
	log     *slog.Logger
	queue   chan any
	dropped atomic.Int64
}

// NewForwarder wraps a publisher with a bounded queue of the given size.
func NewForwarder(pub Publisher, log *slog.Logger, buffer int) *Forwarder {
	if buffer <= 0 {
		buffer = 256
	}
	return &Forwarder{
		pub:   pub,
		log:   log.With(slog.String("component", "telemetry")),
		queue: make(chan any, buffer),
	}
}

// RecordPoint enqueues a point event, dropping it if the queue is full.
func (f *Forwarder) RecordPoint(ev PointEvent) { f.enqueue(ev) }

// RecordTransition enqueues a transition event, dropping it if the queue
// is full.
func (f *Forwarder) RecordTransition(ev TransitionEvent) { f.enqueue(ev) }

func (f *Forwarder) enqueue(ev any) {
	select {
	case f.queue <- ev:
	default:
		f.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded due to backpressure.
func (f *Forwarder) Dropped() int64 { return f.dropped.Load() }

// Run consumes the queue until ctx is cancelled, then closes the
// publisher.
func (f *Forwarder) Run(ctx context.Context) {
	defer func() {
		if err := f.pub.Close(); err != nil {
			f.log.Warn("publisher close failed", slog.Any("err", err))
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-f.queue:
			f.publish(ctx, ev)
		}
	}
}

func (f *Forwarder) publish(ctx context.Context, ev any) {
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	var err error
	switch e := ev.(type) {
	case PointEvent:
		err = f.pub.PublishPoint(pctx, e)
	case TransitionEvent:
		err = f.pub.PublishTransition(pctx, e)
	}
	if err != nil {
		f.log.Warn("publish failed", slog.Any("err", err))
	}
}
