// Package analyze derives the smoothed focus score from raw band powers
// and classifies it into a discrete cognitive state.
package analyze

import "github.com/muhsinh/smartbrain/internal/signal"

const (
	// thetaFloor keeps the alpha/theta ratio bounded when theta is small.
	thetaFloor = 0.1
	// smoothing is the EMA weight given to the instantaneous score.
	smoothing = 0.1
)

// Classification thresholds over the 0..100 focus score.
const (
	flowThreshold    = 80.0
	focusedThreshold = 50.0
)

// CognitiveState is the classified state of the wearer.
type CognitiveState int

const (
	Flow CognitiveState = iota
	Focused
	Distracted
	// SignalNoise is reserved for artifact detection fed by a
	// signal-quality input; the classifier never produces it today.
	SignalNoise
)

var stateNames = map[CognitiveState]string{
	Flow:        "flow",
	Focused:     "focused",
	Distracted:  "distracted",
	SignalNoise: "signal_noise",
}

func (s CognitiveState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// MarshalJSON encodes the state as its lowercase name.
func (s CognitiveState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Estimate computes the instantaneous focus score from a sample and smooths
// it against the previous score with an exponential moving average. Output
// is always within [0,100] for a previous score in [0,100].
func Estimate(s signal.Sample, prev float64) float64 {
	ratio := s.Alpha / (s.Theta + thetaFloor)
	inst := clamp(ratio*100, 0, 100)
	return prev*(1-smoothing) + inst*smoothing
}

// Classify maps a focus score to a cognitive state. Total over all reals:
// every score maps to exactly one of Flow, Focused, Distracted.
func Classify(score float64) CognitiveState {
	switch {
	case score > flowThreshold:
		return Flow
	case score > focusedThreshold:
		return Focused
	default:
		return Distracted
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
