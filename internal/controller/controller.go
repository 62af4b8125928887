// Package controller owns the closed-loop lifecycle: device connection,
// session tracking, and the periodic pipeline that turns raw samples into
// actuation decisions. All mutable state lives behind a single mutex and
// leaves the package only as immutable snapshots.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/muhsinh/smartbrain/internal/analyze"
	"github.com/muhsinh/smartbrain/internal/clock"
	"github.com/muhsinh/smartbrain/internal/history"
	"github.com/muhsinh/smartbrain/internal/plan"
	"github.com/muhsinh/smartbrain/internal/session"
	"github.com/muhsinh/smartbrain/internal/signal"
	"github.com/muhsinh/smartbrain/internal/telemetry"
)

// ErrInvalidTransition is returned when a session command is issued from a
// lifecycle phase that forbids it. The call never mutates state.
var ErrInvalidTransition = errors.New("invalid transition")

// Phase is the connection/session lifecycle state.
type Phase int

const (
	Disconnected Phase = iota
	Connecting
	ConnectedIdle
	ConnectedSession
)

var phaseNames = map[Phase]string{
	Disconnected:     "disconnected",
	Connecting:       "connecting",
	ConnectedIdle:    "connected_idle",
	ConnectedSession: "connected_session",
}

func (p Phase) String() string {
	if n, ok := phaseNames[p]; ok {
		return n
	}
	return "unknown"
}

// MarshalJSON encodes the phase as its lowercase name.
func (p Phase) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// Snapshot is an immutable copy of the controller's published state. Safe
// to read without synchronization.
type Snapshot struct {
	Version        uint64                 `json:"version"`
	Phase          Phase                  `json:"phase"`
	Connected      bool                   `json:"connected"`
	DeviceID       string                 `json:"deviceId,omitempty"`
	SessionID      string                 `json:"sessionId,omitempty"`
	BatteryLevel   float64                `json:"batteryLevel"`
	SignalQuality  float64                `json:"signalQuality"`
	FocusScore     float64                `json:"focusScore"`
	State          analyze.CognitiveState `json:"state"`
	Stimulating    bool                   `json:"stimulating"`
	SessionSeconds int64                  `json:"sessionSeconds"`
	History        []history.DataPoint    `json:"history"`
}

// Stats holds counters exposed by the /status endpoint.
type Stats struct {
	DataTicks    int64 `json:"dataTicks"`
	SessionTicks int64 `json:"sessionTicks"`
	Transitions  int64 `json:"transitions"`
	Points       int64 `json:"points"`
}

// Options configures a Controller. Zero fields fall back to the spec'd
// production values.
type Options struct {
	Logger              *slog.Logger
	Clock               clock.Clock
	Recorder            telemetry.Recorder // optional telemetry sink
	DataTickInterval    time.Duration
	SessionTickInterval time.Duration
	HandshakeDelay      time.Duration
	HistoryCapacity     int
	Seed                int64
}

// Controller sequences generator, estimator, classifier, actuation and
// history on each data tick, and the session clock on each slow tick.
type Controller struct {
	log *slog.Logger
	clk clock.Clock
	rec telemetry.Recorder

	dataInterval    time.Duration
	sessionInterval time.Duration
	handshakeDelay  time.Duration

	mu          sync.Mutex
	phase       Phase
	epoch       uint64 // bumped on disconnect; queued ticks check it before mutating
	gen         *signal.Generator
	sess        session.Clock
	hist        *history.Buffer
	deviceID    string
	sessionID   string
	battery     float64
	quality     float64
	score       float64
	state       analyze.CognitiveState
	stimulating bool
	version     uint64
	stats       Stats

	handshake clock.Timer
	hsStop    chan struct{}
	fastStop  chan struct{}
	slowStop  chan struct{}
	subs      []chan Snapshot
}

// New builds a disconnected controller with zero/default state.
func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Wall()
	}
	if opts.DataTickInterval <= 0 {
		opts.DataTickInterval = 100 * time.Millisecond
	}
	if opts.SessionTickInterval <= 0 {
		opts.SessionTickInterval = time.Second
	}
	if opts.HandshakeDelay <= 0 {
		opts.HandshakeDelay = 1500 * time.Millisecond
	}
	seed := opts.Seed
	if seed == 0 {
		seed = opts.Clock.Now().UnixNano()
	}
	return &Controller{
		log:             opts.Logger.With(slog.String("component", "controller")),
		clk:             opts.Clock,
		rec:             opts.Recorder,
		dataInterval:    opts.DataTickInterval,
		sessionInterval: opts.SessionTickInterval,
		handshakeDelay:  opts.HandshakeDelay,
		phase:           Disconnected,
		gen:             signal.NewGenerator(seed),
		hist:            history.NewBuffer(opts.HistoryCapacity),
		state:           analyze.Classify(0),
	}
}

// Connect begins the simulated handshake. Calling it while not
// disconnected is a logged no-op.
func (c *Controller) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Disconnected {
		c.log.Info("connect ignored", slog.String("phase", c.phase.String()))
		return nil
	}
	c.deviceID = uuid.NewString()
	c.transitionLocked(Connecting)
	epoch := c.epoch
	c.handshake = c.clk.NewTimer(c.handshakeDelay)
	c.hsStop = make(chan struct{})
	go c.awaitHandshake(epoch, c.handshake, c.hsStop)
	c.publishLocked()
	return nil
}

// awaitHandshake completes the connection after the fixed handshake delay
// unless a disconnect intervened.
func (c *Controller) awaitHandshake(epoch uint64, t clock.Timer, stop <-chan struct{}) {
	select {
	case <-stop:
		return
	case <-t.C():
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || c.phase != Connecting {
		return
	}
	c.handshake = nil
	c.hsStop = nil
	c.battery = c.gen.Battery()
	c.quality = c.gen.Quality()
	c.transitionLocked(ConnectedIdle)
	c.fastStop = make(chan struct{})
	go c.runDataLoop(epoch, c.fastStop)
	c.publishLocked()
}

// Disconnect tears the connection down, cancelling the pending handshake
// and both schedules. No tick fires after it returns. Disconnecting while
// already disconnected is a logged no-op. Score, state, session duration
// and history are retained for inspection.
func (c *Controller) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == Disconnected {
		c.log.Info("disconnect ignored", slog.String("phase", c.phase.String()))
		return nil
	}
	c.epoch++
	if c.handshake != nil {
		c.handshake.Stop()
		c.handshake = nil
	}
	if c.hsStop != nil {
		close(c.hsStop)
		c.hsStop = nil
	}
	if c.fastStop != nil {
		close(c.fastStop)
		c.fastStop = nil
	}
	if c.slowStop != nil {
		close(c.slowStop)
		c.slowStop = nil
	}
	c.sess.Stop()
	c.transitionLocked(Disconnected)
	c.publishLocked()
	return nil
}

// StartSession resets the session clock and starts the slow schedule.
// Valid only while connected and idle.
func (c *Controller) StartSession() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != ConnectedIdle {
		return fmt.Errorf("start session from %s: %w", c.phase, ErrInvalidTransition)
	}
	c.sessionID = uuid.NewString()
	c.sess.Start()
	c.transitionLocked(ConnectedSession)
	epoch := c.epoch
	c.slowStop = make(chan struct{})
	go c.runSessionLoop(epoch, c.slowStop)
	c.publishLocked()
	return nil
}

// StopSession halts the session clock, keeping its elapsed duration, and
// returns to idle. Valid only during a session.
func (c *Controller) StopSession() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != ConnectedSession {
		return fmt.Errorf("stop session from %s: %w", c.phase, ErrInvalidTransition)
	}
	c.sess.Stop()
	if c.slowStop != nil {
		close(c.slowStop)
		c.slowStop = nil
	}
	c.transitionLocked(ConnectedIdle)
	c.publishLocked()
	return nil
}

func (c *Controller) runDataLoop(epoch uint64, stop <-chan struct{}) {
	t := c.clk.NewTicker(c.dataInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-t.C():
			c.stepData(epoch, now)
		}
	}
}

// stepData runs one pass of the pipeline: sample, estimate, classify,
// decide, record.
func (c *Controller) stepData(epoch uint64, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return // disconnected while this tick was queued
	}
	sample := c.gen.Next()
	c.score = analyze.Estimate(sample, c.score)
	c.state = analyze.Classify(c.score)
	d := plan.Decide(c.state, c.stimulating)
	if d.Active != c.stimulating {
		c.log.Info("stimulation switched", slog.Bool("active", d.Active), slog.String("reason", d.Reason))
	}
	c.stimulating = d.Active
	c.quality = c.gen.Quality()
	point := history.DataPoint{
		Timestamp:  now,
		Alpha:      sample.Alpha,
		Theta:      sample.Theta,
		FocusScore: c.score,
	}
	c.hist.Append(point)
	c.stats.DataTicks++
	c.stats.Points++
	if c.rec != nil {
		c.rec.RecordPoint(telemetry.PointEvent{
			DeviceID:    c.deviceID,
			Point:       point,
			State:       c.state,
			Stimulating: c.stimulating,
		})
	}
	c.publishLocked()
}

func (c *Controller) runSessionLoop(epoch uint64, stop <-chan struct{}) {
	t := c.clk.NewTicker(c.sessionInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			c.stepSession(epoch)
		}
	}
}

// stepSession advances the session clock by one second.
func (c *Controller) stepSession(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || !c.sess.Running() {
		return // session stopped while this tick was queued
	}
	c.sess.Tick()
	c.stats.SessionTicks++
	c.publishLocked()
}

// transitionLocked records a lifecycle transition. Caller holds the lock.
func (c *Controller) transitionLocked(to Phase) {
	from := c.phase
	c.phase = to
	c.stats.Transitions++
	c.log.Info("transition", slog.String("from", from.String()), slog.String("to", to.String()))
	if c.rec != nil {
		c.rec.RecordTransition(telemetry.TransitionEvent{
			DeviceID:  c.deviceID,
			SessionID: c.sessionID,
			From:      from.String(),
			To:        to.String(),
			Timestamp: c.clk.Now(),
		})
	}
}

// Snapshot returns an immutable copy of the current published state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Stats returns a copy of the controller counters.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Subscribe returns a channel receiving every published snapshot in
// production order. A slow receiver loses intermediate versions but never
// sees them out of order: on overflow the oldest buffered snapshot is
// replaced by the newest.
func (c *Controller) Subscribe() <-chan Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan Snapshot, 16)
	c.subs = append(c.subs, ch)
	return ch
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Version:        c.version,
		Phase:          c.phase,
		Connected:      c.phase == ConnectedIdle || c.phase == ConnectedSession,
		DeviceID:       c.deviceID,
		SessionID:      c.sessionID,
		BatteryLevel:   c.battery,
		SignalQuality:  c.quality,
		FocusScore:     c.score,
		State:          c.state,
		Stimulating:    c.stimulating,
		SessionSeconds: c.sess.Seconds(),
		History:        c.hist.Points(),
	}
}

// publishLocked versions the state and fans the new snapshot out to all
// subscribers. Caller holds the lock, which is what guarantees ordered
// delivery.
func (c *Controller) publishLocked() {
	c.version++
	snap := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
