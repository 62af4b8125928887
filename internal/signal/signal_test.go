package signal

import "testing"

func TestNextStaysInRange(t *testing.T) {
	g := NewGenerator(1)
	for i := 0; i < 1000; i++ {
		s := g.Next()
		if s.Alpha < AlphaMin || s.Alpha > AlphaMax {
			t.Fatalf("alpha out of range: %.4f", s.Alpha)
		}
		if s.Theta < ThetaMin || s.Theta > ThetaMax {
			t.Fatalf("theta out of range: %.4f", s.Theta)
		}
	}
}

func TestGeneratorDeterministicPerSeed(t *testing.T) {
	a, b := NewGenerator(42), NewGenerator(42)
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("same seed diverged at draw %d", i)
		}
	}
}

func TestQualityRange(t *testing.T) {
	g := NewGenerator(7)
	for i := 0; i < 1000; i++ {
		q := g.Quality()
		if q < 0 || q > 100 {
			t.Fatalf("quality out of range: %.2f", q)
		}
	}
}
