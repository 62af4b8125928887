// Package history keeps the bounded FIFO of recent data points the
// presentation layer renders.
package history

import "time"

// DefaultCapacity is the number of recent points retained for display.
const DefaultCapacity = 50

// DataPoint is one scored reading. Immutable once appended.
type DataPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Alpha      float64   `json:"alpha"`
	Theta      float64   `json:"theta"`
	FocusScore float64   `json:"focusScore"`
}

// Buffer is a fixed-capacity FIFO of DataPoints in chronological order.
// Appending to a full buffer evicts the oldest point. Not safe for
// concurrent use; the controller serializes access.
type Buffer struct {
	points []DataPoint
	cap    int
}

// NewBuffer returns a Buffer holding at most capacity points. A
// non-positive capacity falls back to DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{points: make([]DataPoint, 0, capacity), cap: capacity}
}

// Append records a point, evicting the oldest when full. Always succeeds.
func (b *Buffer) Append(p DataPoint) {
	if len(b.points) >= b.cap {
		// shift rather than reslice so the backing array never grows
		copy(b.points, b.points[1:])
		b.points[len(b.points)-1] = p
		return
	}
	b.points = append(b.points, p)
}

// Len reports the number of retained points.
func (b *Buffer) Len() int { return len(b.points) }

// Cap reports the fixed capacity.
func (b *Buffer) Cap() int { return b.cap }

// Points returns a copy of the retained points, oldest first.
func (b *Buffer) Points() []DataPoint {
	out := make([]DataPoint, len(b.points))
	copy(out, b.points)
	return out
}
