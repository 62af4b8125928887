// Package plan decides whether the stimulation actuator should be active
// for a classified cognitive state.
package plan

import "github.com/muhsinh/smartbrain/internal/analyze"

// Decision is one actuation verdict with a human-readable rationale,
// suitable for logging and telemetry.
type Decision struct {
	Active bool   `json:"active"`
	Reason string `json:"reason"`
}

// Decide applies the hysteresis policy: activate on entering Distracted,
// deactivate on reaching Flow, and treat Focused as a dead zone that keeps
// the previous output. The asymmetric thresholds prevent rapid toggling
// when the score hovers near a boundary.
func Decide(state analyze.CognitiveState, prevActive bool) Decision {
	switch {
	case state == analyze.Distracted && !prevActive:
		return Decision{Active: true, Reason: "entered distracted"}
	case state == analyze.Flow:
		return Decision{Active: false, Reason: "reached flow"}
	default:
		return Decision{Active: prevActive, Reason: "holding"}
	}
}
