package history

import (
	"testing"
	"time"
)

func point(i int) DataPoint {
	return DataPoint{
		Timestamp:  time.Unix(int64(i), 0),
		FocusScore: float64(i),
	}
}

func TestAppendEvictsOldestAtCapacity(t *testing.T) {
	b := NewBuffer(50)
	for i := 0; i < 60; i++ {
		b.Append(point(i))
		if b.Len() > 50 {
			t.Fatalf("buffer exceeded capacity after %d appends: %d", i+1, b.Len())
		}
	}
	pts := b.Points()
	if len(pts) != 50 {
		t.Fatalf("len = %d, want 50", len(pts))
	}
	// last 50 of 60, chronological
	for i, p := range pts {
		if want := float64(i + 10); p.FocusScore != want {
			t.Fatalf("points[%d].FocusScore = %.0f, want %.0f", i, p.FocusScore, want)
		}
	}
}

func TestAppendBelowCapacityKeepsAll(t *testing.T) {
	b := NewBuffer(50)
	for i := 0; i < 10; i++ {
		b.Append(point(i))
	}
	if b.Len() != 10 {
		t.Fatalf("len = %d, want 10", b.Len())
	}
}

func TestPointsReturnsCopy(t *testing.T) {
	b := NewBuffer(4)
	b.Append(point(1))
	pts := b.Points()
	pts[0].FocusScore = 999
	if b.Points()[0].FocusScore == 999 {
		t.Fatal("Points exposed internal storage")
	}
}

func TestNonPositiveCapacityDefaults(t *testing.T) {
	if got := NewBuffer(0).Cap(); got != DefaultCapacity {
		t.Fatalf("cap = %d, want %d", got, DefaultCapacity)
	}
}
