// Package datasets generates the synthetic samples used by the tutorials.
package datasets

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

// DefaultSeed is the seed used when none is configured.
const DefaultSeed uint64 = 21

// Arange は [start, stop) を step 刻みで返す
//
// 要素数は ceil((stop-start)/step)、各要素は start + i*step。
func Arange(start, stop, step float64) ([]float64, error) {
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, errors.NewValidationError("step", "must be finite and non-zero", step)
	}
	n := int(math.Ceil((stop - start) / step))
	if n <= 0 {
		return []float64{}, nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out, nil
}

// SineConfig はノイズ付き正弦波サンプルの設定
type SineConfig struct {
	// 真の曲線を描くための格子
	CurveStart, CurveStop, CurveStep float64
	// 観測点
	SampleStart, SampleStop, SampleStep float64
	// ノイズ ~ N(NoiseMean, NoiseStd²)
	NoiseMean, NoiseStd float64
	Seed                uint64
}

// DefaultSineConfig returns the settings of the regularization tutorial:
// a curve on arange(0, 2π, 0.1), ten samples on arange(0, 6, 0.6) and
// standard normal noise.
func DefaultSineConfig() SineConfig {
	return SineConfig{
		CurveStart:  0,
		CurveStop:   2 * math.Pi,
		CurveStep:   0.1,
		SampleStart: 0,
		SampleStop:  6,
		SampleStep:  0.6,
		NoiseMean:   0,
		NoiseStd:    1,
		Seed:        DefaultSeed,
	}
}

// Validate checks the config.
func (c SineConfig) Validate() error {
	if c.CurveStep <= 0 || c.CurveStop <= c.CurveStart {
		return errors.NewValidationError("curve", "requires step > 0 and stop > start", [3]float64{c.CurveStart, c.CurveStop, c.CurveStep})
	}
	if c.SampleStep <= 0 || c.SampleStop <= c.SampleStart {
		return errors.NewValidationError("sample", "requires step > 0 and stop > start", [3]float64{c.SampleStart, c.SampleStop, c.SampleStep})
	}
	if c.NoiseStd < 0 || math.IsNaN(c.NoiseStd) {
		return errors.NewValidationError("noise_std", "must be non-negative", c.NoiseStd)
	}
	return nil
}

// SineSample は生成後に変更されないサンプル集合
//
// アクセサはすべてコピーを返す。
type SineSample struct {
	grid  []float64
	curve []float64
	x     []float64
	noise []float64
	y     []float64
	seed  uint64
}

// NoisySine は sin 曲線と、観測点 x における sin(x) + ε を生成する
//
// 同じ Seed からは同じサンプルが得られる。
func NoisySine(cfg SineConfig) (*SineSample, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := Arange(cfg.CurveStart, cfg.CurveStop, cfg.CurveStep)
	if err != nil {
		return nil, err
	}
	x, err := Arange(cfg.SampleStart, cfg.SampleStop, cfg.SampleStep)
	if err != nil {
		return nil, err
	}

	s := &SineSample{
		grid:  grid,
		curve: make([]float64, len(grid)),
		x:     x,
		noise: make([]float64, len(x)),
		y:     make([]float64, len(x)),
		seed:  cfg.Seed,
	}
	for i, a := range grid {
		s.curve[i] = math.Sin(a)
	}

	normal := distuv.Normal{
		Mu:    cfg.NoiseMean,
		Sigma: cfg.NoiseStd,
		Src:   rand.NewPCG(cfg.Seed, cfg.Seed),
	}
	for i, xi := range x {
		s.noise[i] = normal.Rand()
		s.y[i] = math.Sin(xi) + s.noise[i]
	}
	return s, nil
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}

// Len returns the number of noisy observations.
func (s *SineSample) Len() int { return len(s.x) }

// Seed returns the seed the sample was drawn with.
func (s *SineSample) Seed() uint64 { return s.seed }

// Grid returns the dense grid the clean curve is evaluated on.
func (s *SineSample) Grid() []float64 { return clone(s.grid) }

// Curve returns sin evaluated on Grid.
func (s *SineSample) Curve() []float64 { return clone(s.curve) }

// XValues returns the observation inputs.
func (s *SineSample) XValues() []float64 { return clone(s.x) }

// YValues returns the noisy targets.
func (s *SineSample) YValues() []float64 { return clone(s.y) }

// Noise returns the drawn noise terms.
func (s *SineSample) Noise() []float64 { return clone(s.noise) }

// X returns the inputs as an n×1 design matrix.
func (s *SineSample) X() *mat.Dense {
	return mat.NewDense(len(s.x), 1, clone(s.x))
}

// Y returns the targets as an n×1 column.
func (s *SineSample) Y() *mat.Dense {
	return mat.NewDense(len(s.y), 1, clone(s.y))
}
