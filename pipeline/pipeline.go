// Package pipeline chains feature transformers and a final estimator.
package pipeline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-labs/core/model"
	"github.com/YuminosukeSato/scigo-labs/metrics"
	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
	"github.com/YuminosukeSato/scigo-labs/preprocessing"
)

// Step はパイプラインの名前付き段
//
// 最後の段以外は model.Transformer、最後の段は model.Estimator でなければならない。
type Step struct {
	Name      string
	Component interface{}
}

var (
	_ model.Regressor    = (*Pipeline)(nil)
	_ model.ParamsGetter = (*Pipeline)(nil)
)

// Pipeline は変換器を順に適用し、最終段の推定器で学習・予測する
type Pipeline struct {
	state *model.StateManager

	names        []string
	transformers []model.Transformer
	final        model.Estimator
}

// New は段の列からパイプラインを作成する
//
// 使用例:
//
//	pipe, err := pipeline.New(
//	    pipeline.Step{Name: "feature", Component: preprocessing.NewPolynomialFeatures(9)},
//	    pipeline.Step{Name: "lr", Component: linear.NewLinearRegression(linear.WithFitIntercept(false))},
//	)
func New(steps ...Step) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, errors.NewValidationError("steps", "pipeline needs at least one step", 0)
	}

	p := &Pipeline{state: model.NewStateManager()}
	seen := make(map[string]bool, len(steps))
	for i, s := range steps {
		if s.Name == "" {
			return nil, errors.NewValidationError("steps", "step name must not be empty", i)
		}
		if seen[s.Name] {
			return nil, errors.NewValidationError("steps", "duplicate step name", s.Name)
		}
		seen[s.Name] = true
		p.names = append(p.names, s.Name)

		if i == len(steps)-1 {
			est, ok := s.Component.(model.Estimator)
			if !ok {
				return nil, errors.NewTypeError("pipeline.New", "model.Estimator as final step", s.Component)
			}
			p.final = est
			continue
		}
		tr, ok := s.Component.(model.Transformer)
		if !ok {
			return nil, errors.NewTypeError("pipeline.New", "model.Transformer as intermediate step", s.Component)
		}
		p.transformers = append(p.transformers, tr)
	}
	return p, nil
}

// NewPolynomial は PolynomialFeatures(degree) → est の2段パイプラインを作る
func NewPolynomial(degree int, estName string, est model.Estimator) (*Pipeline, error) {
	return New(
		Step{Name: "feature", Component: preprocessing.NewPolynomialFeatures(degree)},
		Step{Name: estName, Component: est},
	)
}

// Fit は各変換器を fit_transform し、最終段を学習する
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	Xt := X
	for i, tr := range p.transformers {
		out, err := tr.FitTransform(Xt)
		if err != nil {
			return errors.Wrapf(err, "pipeline step %q", p.names[i])
		}
		Xt = out
	}
	if err := p.final.Fit(Xt, y); err != nil {
		return errors.Wrapf(err, "pipeline step %q", p.names[len(p.names)-1])
	}

	r, c := X.Dims()
	p.state.SetFitted(c, r)
	_, width := Xt.Dims()
	log.GetLoggerWithName("pipeline").Debug("Pipeline fitted",
		log.OperationKey, log.OperationFit,
		"pipeline.steps", p.names,
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.OutputFeaturesKey, width,
	)
	return nil
}

func (p *Pipeline) transform(X mat.Matrix) (mat.Matrix, error) {
	Xt := X
	for i, tr := range p.transformers {
		out, err := tr.Transform(Xt)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline step %q", p.names[i])
		}
		Xt = out
	}
	return Xt, nil
}

// Predict は変換器を通した入力で最終段の予測を返す
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := p.state.RequireFitted("Pipeline", "Predict"); err != nil {
		return nil, err
	}
	Xt, err := p.transform(X)
	if err != nil {
		return nil, err
	}
	return p.final.Predict(Xt)
}

// Score は最終段の Score を使い、無い場合は R² を計算する
func (p *Pipeline) Score(X, y mat.Matrix) (float64, error) {
	if err := p.state.RequireFitted("Pipeline", "Score"); err != nil {
		return 0, err
	}
	Xt, err := p.transform(X)
	if err != nil {
		return 0, err
	}
	if r, ok := p.final.(model.Regressor); ok {
		return r.Score(Xt, y)
	}
	pred, err := p.final.Predict(Xt)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, pred)
}

// GetParams は各段のハイパーパラメータを "段名__パラメータ名" のキーで返す
func (p *Pipeline) GetParams() map[string]interface{} {
	params := make(map[string]interface{})
	for i, name := range p.names {
		var c interface{} = p.final
		if i < len(p.transformers) {
			c = p.transformers[i]
		}
		pg, ok := c.(model.ParamsGetter)
		if !ok {
			continue
		}
		for k, v := range pg.GetParams() {
			params[name+"__"+k] = v
		}
	}
	return params
}

// Step returns the component registered under name.
func (p *Pipeline) Step(name string) (interface{}, error) {
	for i, n := range p.names {
		if n != name {
			continue
		}
		if i == len(p.names)-1 {
			return p.final, nil
		}
		return p.transformers[i], nil
	}
	return nil, errors.NewKeyError("Pipeline.Step", name)
}

// Final returns the last step.
func (p *Pipeline) Final() model.Estimator {
	return p.final
}

// Names returns the step names in order.
func (p *Pipeline) Names() []string {
	return append([]string(nil), p.names...)
}

// IsFitted returns whether Fit has completed.
func (p *Pipeline) IsFitted() bool {
	return p.state.IsFitted()
}
