// Package signal produces simulated EEG band-power samples. It stands in
// for a real headset feed: values are drawn uniformly from fixed
// physiological ranges.
package signal

import "math/rand"

// Band power ranges for the simulated sensor.
const (
	AlphaMin = 0.3
	AlphaMax = 0.8
	ThetaMin = 0.2
	ThetaMax = 0.6
)

// Sample is one raw reading from the (simulated) sensor.
type Sample struct {
	Alpha float64 `json:"alpha"`
	Theta float64 `json:"theta"`
}

// Generator draws synthetic samples from its own RNG stream.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded with the given value.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Next produces one fresh sample.
func (g *Generator) Next() Sample {
	return Sample{
		Alpha: AlphaMin + g.rng.Float64()*(AlphaMax-AlphaMin),
		Theta: ThetaMin + g.rng.Float64()*(ThetaMax-ThetaMin),
	}
}

// Quality simulates a contact-quality reading as a percentage, jittering
// around a healthy baseline.
func (g *Generator) Quality() float64 {
	return 85 + g.rng.Float64()*15
}

// Battery simulates the charge level reported by the headset at
// connection time.
func (g *Generator) Battery() float64 {
	return 60 + g.rng.Float64()*40
}
