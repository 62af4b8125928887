// Package session tracks elapsed active-session time.
package session

// Clock counts whole seconds while a session is running. The controller's
// slow schedule drives Tick; Clock itself owns no timers. Not safe for
// concurrent use; the controller serializes access.
type Clock struct {
	running bool
	seconds int64
}

// Start begins a new session, resetting the elapsed count. Starting while
// already running also resets: a restart is a new session.
func (c *Clock) Start() {
	c.running = true
	c.seconds = 0
}

// Stop halts counting. Elapsed time is retained until the next Start.
// Stopping an idle clock is a no-op.
func (c *Clock) Stop() {
	c.running = false
}

// Tick adds one second of elapsed time while running.
func (c *Clock) Tick() {
	if c.running {
		c.seconds++
	}
}

// Running reports whether a session is in progress.
func (c *Clock) Running() bool { return c.running }

// Seconds returns the elapsed seconds of the current (or last) session.
func (c *Clock) Seconds() int64 { return c.seconds }
