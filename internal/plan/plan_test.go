package plan

import (
	"testing"

	"github.com/muhsinh/smartbrain/internal/analyze"
)

func TestHysteresisSequence(t *testing.T) {
	states := []analyze.CognitiveState{
		analyze.Distracted, analyze.Distracted, analyze.Flow, analyze.Focused,
	}
	want := []bool{true, true, false, false}

	active := false
	for i, st := range states {
		d := Decide(st, active)
		if d.Active != want[i] {
			t.Fatalf("step %d (%s): active = %v, want %v", i, st, d.Active, want[i])
		}
		active = d.Active
	}
}

func TestFocusedPreservesPrevious(t *testing.T) {
	for _, prev := range []bool{true, false} {
		if d := Decide(analyze.Focused, prev); d.Active != prev {
			t.Fatalf("Focused with prev=%v changed output to %v", prev, d.Active)
		}
	}
}

func TestFlowAlwaysDeactivates(t *testing.T) {
	for _, prev := range []bool{true, false} {
		if d := Decide(analyze.Flow, prev); d.Active {
			t.Fatalf("Flow with prev=%v left stimulation on", prev)
		}
	}
}

func TestDistractedWhileActiveHolds(t *testing.T) {
	if d := Decide(analyze.Distracted, true); !d.Active {
		t.Fatal("Distracted while active should stay active")
	}
}
