package datasets

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

func TestArange(t *testing.T) {
	tests := []struct {
		name              string
		start, stop, step float64
		wantLen           int
		wantLast          float64
	}{
		{"sine grid", 0, 2 * math.Pi, 0.1, 63, 6.2},
		{"sample points", 0, 6, 0.6, 10, 5.4},
		{"unit", 0, 5, 1, 5, 4},
		{"negative step", 5, 0, -1, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Arange(tt.start, tt.stop, tt.step)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if math.Abs(got[len(got)-1]-tt.wantLast) > 1e-12 {
				t.Errorf("last = %v, want %v", got[len(got)-1], tt.wantLast)
			}
		})
	}

	if got, err := Arange(3, 1, 1); err != nil || len(got) != 0 {
		t.Errorf("empty range: got %v, %v", got, err)
	}
	if _, err := Arange(0, 1, 0); err == nil {
		t.Error("expected error for zero step")
	}
}

func TestNoisySine_Shape(t *testing.T) {
	s, err := NoisySine(DefaultSineConfig())
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 10 {
		t.Errorf("Len() = %d, want 10", s.Len())
	}
	if len(s.Grid()) != 63 || len(s.Curve()) != 63 {
		t.Errorf("curve has %d points, want 63", len(s.Curve()))
	}
	if r, c := s.X().Dims(); r != 10 || c != 1 {
		t.Errorf("X dims = %dx%d", r, c)
	}
	if s.Seed() != DefaultSeed {
		t.Errorf("Seed() = %d", s.Seed())
	}

	x, y, noise := s.XValues(), s.YValues(), s.Noise()
	for i := range x {
		if math.Abs(y[i]-(math.Sin(x[i])+noise[i])) > 1e-15 {
			t.Errorf("y[%d] != sin(x)+noise", i)
		}
	}
	for i, a := range s.Grid() {
		if s.Curve()[i] != math.Sin(a) {
			t.Errorf("curve[%d] != sin(grid)", i)
		}
	}
}

func TestNoisySine_Reproducible(t *testing.T) {
	a, err := NoisySine(DefaultSineConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NoisySine(DefaultSineConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(a.YValues(), b.YValues()) {
		t.Error("same seed should produce identical samples")
	}

	cfg := DefaultSineConfig()
	cfg.Seed = 7
	c, err := NoisySine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if floats.Equal(a.YValues(), c.YValues()) {
		t.Error("different seeds should produce different samples")
	}
}

func TestNoisySine_Immutable(t *testing.T) {
	s, err := NoisySine(DefaultSineConfig())
	if err != nil {
		t.Fatal(err)
	}
	y := s.YValues()
	y[0] = 1e9
	s.Y().Set(1, 0, 1e9)
	if s.YValues()[0] == 1e9 || s.YValues()[1] == 1e9 {
		t.Error("sample should not be mutable through its accessors")
	}
}

func TestNoisySine_NoiseDistribution(t *testing.T) {
	cfg := DefaultSineConfig()
	cfg.SampleStop = 6000
	s, err := NoisySine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	mean, std := stat.MeanStdDev(s.Noise(), nil)
	if math.Abs(mean) > 0.1 || math.Abs(std-1) > 0.1 {
		t.Errorf("noise mean=%v std=%v, want ~N(0,1)", mean, std)
	}

	cfg.NoiseStd = 0
	clean, err := NoisySine(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range clean.Noise() {
		if n != 0 {
			t.Fatalf("noise[%d] = %v with zero std", i, n)
		}
	}
}

func TestSineConfig_Validate(t *testing.T) {
	mutate := []struct {
		name string
		fn   func(*SineConfig)
	}{
		{"curve step", func(c *SineConfig) { c.CurveStep = 0 }},
		{"curve range", func(c *SineConfig) { c.CurveStop = -1 }},
		{"sample step", func(c *SineConfig) { c.SampleStep = -0.6 }},
		{"noise std", func(c *SineConfig) { c.NoiseStd = -1 }},
	}
	for _, m := range mutate {
		t.Run(m.name, func(t *testing.T) {
			cfg := DefaultSineConfig()
			m.fn(&cfg)
			_, err := NoisySine(cfg)
			var valErr *errors.ValidationError
			if !errors.As(err, &valErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}
