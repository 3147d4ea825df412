// Package preprocessing provides feature transformers that feed the linear models.
package preprocessing

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-labs/core/model"
	"github.com/YuminosukeSato/scigo-labs/core/parallel"
	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
)

// PolynomialFeatures は入力特徴量の全ての単項式（次数 <= degree）を生成する変換器
//
// 出力列の順序は scikit-learn と同じ:
// [1, x0, x1, x0^2, x0 x1, x1^2, ...]
type PolynomialFeatures struct {
	state *model.StateManager

	degree          int
	includeBias     bool
	interactionOnly bool

	// powers[k][j] は出力列 k における入力列 j の指数
	powers [][]int
}

// PolyOption configures PolynomialFeatures.
type PolyOption func(*PolynomialFeatures)

// WithIncludeBias sets whether the constant column is emitted (default true).
func WithIncludeBias(include bool) PolyOption {
	return func(p *PolynomialFeatures) {
		p.includeBias = include
	}
}

// WithInteractionOnly restricts output to products of distinct features.
func WithInteractionOnly(only bool) PolyOption {
	return func(p *PolynomialFeatures) {
		p.interactionOnly = only
	}
}

// NewPolynomialFeatures は新しいPolynomialFeaturesを作成する
//
// 使用例:
//
//	poly := preprocessing.NewPolynomialFeatures(9)
//	XPoly, err := poly.FitTransform(X)
func NewPolynomialFeatures(degree int, opts ...PolyOption) *PolynomialFeatures {
	p := &PolynomialFeatures{
		state:       model.NewStateManager(),
		degree:      degree,
		includeBias: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Degree returns the maximal total degree.
func (p *PolynomialFeatures) Degree() int {
	return p.degree
}

// Fit は入力の列数から出力列の指数表を作る
func (p *PolynomialFeatures) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("PolynomialFeatures.Fit", "empty data", errors.ErrEmptyData)
	}
	if p.degree < 0 {
		return errors.NewValidationError("degree", "must be non-negative", p.degree)
	}
	if p.degree == 0 && !p.includeBias {
		return errors.NewValidationError("degree", "degree 0 without bias produces no output features", p.degree)
	}

	p.powers = p.powers[:0]
	start := 1
	if p.includeBias {
		start = 0
	}
	for d := start; d <= p.degree; d++ {
		combinations(c, d, !p.interactionOnly, func(combo []int) {
			pw := make([]int, c)
			for _, j := range combo {
				pw[j]++
			}
			p.powers = append(p.powers, pw)
		})
	}

	p.state.SetFitted(c, r)
	log.GetLoggerWithName("preprocessing").Debug("PolynomialFeatures fitted",
		log.ModelNameKey, "PolynomialFeatures",
		log.OperationKey, log.OperationFit,
		log.DegreeKey, p.degree,
		log.FeaturesKey, c,
		log.OutputFeaturesKey, len(p.powers),
	)
	return nil
}

// combinations enumerates index combinations of size k from n items in
// lexicographic order, with or without replacement.
func combinations(n, k int, replacement bool, fn func([]int)) {
	if k == 0 {
		fn(nil)
		return
	}
	combo := make([]int, k)
	var rec func(pos, from int)
	rec = func(pos, from int) {
		if pos == k {
			fn(combo)
			return
		}
		for i := from; i < n; i++ {
			combo[pos] = i
			next := i + 1
			if replacement {
				next = i
			}
			rec(pos+1, next)
		}
	}
	rec(0, 0)
}

// Transform は各行を単項式の値に展開する
func (p *PolynomialFeatures) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.state.RequireFitted("PolynomialFeatures", "Transform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := p.state.RequireFeatures("PolynomialFeatures.Transform", c); err != nil {
		return nil, err
	}

	out := mat.NewDense(r, len(p.powers), nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		row := make([]float64, c)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			for k, pw := range p.powers {
				v := 1.0
				for j, e := range pw {
					for ; e > 0; e-- {
						v *= row[j]
					}
				}
				out.Set(i, k, v)
			}
		}
	})
	return out, nil
}

// FitTransform はFitとTransformを同時に実行する
func (p *PolynomialFeatures) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// NOutputFeatures returns the number of generated columns.
func (p *PolynomialFeatures) NOutputFeatures() (int, error) {
	if err := p.state.RequireFitted("PolynomialFeatures", "NOutputFeatures"); err != nil {
		return 0, err
	}
	return len(p.powers), nil
}

// Powers returns a copy of the exponent table, one row per output column.
func (p *PolynomialFeatures) Powers() ([][]int, error) {
	if err := p.state.RequireFitted("PolynomialFeatures", "Powers"); err != nil {
		return nil, err
	}
	out := make([][]int, len(p.powers))
	for i, pw := range p.powers {
		out[i] = append([]int(nil), pw...)
	}
	return out, nil
}

// FeatureNames は出力列の名前を返す（例: "1", "x0", "x0^2", "x0 x1"）
func (p *PolynomialFeatures) FeatureNames(inputNames []string) ([]string, error) {
	if err := p.state.RequireFitted("PolynomialFeatures", "FeatureNames"); err != nil {
		return nil, err
	}
	nFeatures, _ := p.state.GetDimensions()
	if inputNames == nil {
		inputNames = make([]string, nFeatures)
		for j := range inputNames {
			inputNames[j] = fmt.Sprintf("x%d", j)
		}
	}
	if len(inputNames) != nFeatures {
		return nil, errors.NewDimensionError("PolynomialFeatures.FeatureNames", nFeatures, len(inputNames), 1)
	}

	names := make([]string, len(p.powers))
	for k, pw := range p.powers {
		var terms []string
		for j, e := range pw {
			switch {
			case e == 1:
				terms = append(terms, inputNames[j])
			case e > 1:
				terms = append(terms, fmt.Sprintf("%s^%d", inputNames[j], e))
			}
		}
		if len(terms) == 0 {
			names[k] = "1"
		} else {
			names[k] = strings.Join(terms, " ")
		}
	}
	return names, nil
}

// GetParams returns the transformer hyperparameters.
func (p *PolynomialFeatures) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"degree":           p.degree,
		"include_bias":     p.includeBias,
		"interaction_only": p.interactionOnly,
	}
}
