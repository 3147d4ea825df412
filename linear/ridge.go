package linear

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-labs/core/model"
	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
)

// Ridge solvers.
const (
	SolverAuto     = "auto"
	SolverSVD      = "svd"
	SolverCholesky = "cholesky"
)

// Ridge はL2正則化付きの線形回帰モデル
//
// 目的関数: ||y - Xw||² + alpha * ||w||²
// 切片を推定する場合は X と y を中心化し、切片自体は正則化しない。
type Ridge struct {
	state *model.StateManager

	alpha        float64
	fitIntercept bool
	solver       string

	coef       []float64
	intercept  float64
	usedSolver string
}

// NewRidge は新しいRidge回帰モデルを作成する
//
// 使用例:
//
//	ridge := linear.NewRidge(linear.WithAlpha(0.01), linear.WithRidgeFitIntercept(false))
func NewRidge(opts ...RidgeOption) *Ridge {
	r := &Ridge{
		state:        model.NewStateManager(),
		alpha:        1.0,
		fitIntercept: true,
		solver:       SolverAuto,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Ridge) validate() error {
	if r.alpha < 0 {
		return errors.NewValidationError("alpha", "must be non-negative", r.alpha)
	}
	switch r.solver {
	case SolverAuto, SolverSVD, SolverCholesky:
		return nil
	default:
		return errors.NewValidationError("solver", "must be one of auto, svd, cholesky", r.solver)
	}
}

// Fit はモデルを訓練データで学習させる
func (r *Ridge) Fit(X, y mat.Matrix) error {
	const op = "Ridge.Fit"
	if err := r.validate(); err != nil {
		return err
	}
	nSamples, nFeatures, err := checkXy(op, X, y)
	if err != nil {
		return err
	}

	Xc, yc, xMean, yMean := centerData(X, y, r.fitIntercept, true)

	var coef []float64
	solver := r.solver
	if solver == SolverCholesky {
		coef, err = r.solveCholesky(Xc, yc)
		if err != nil {
			errors.Warn(errors.Wrap(err, "cholesky solver failed, falling back to svd"))
			solver = SolverSVD
		}
	}
	if solver != SolverCholesky {
		solver = SolverSVD
		coef, err = r.solveSVD(Xc, yc)
		if err != nil {
			return err
		}
	}
	if err := errors.CheckNumericalStability(op, coef); err != nil {
		return err
	}

	r.coef = coef
	r.usedSolver = solver
	r.intercept = 0
	if r.fitIntercept {
		r.intercept = yMean - floats.Dot(xMean, coef)
	}

	r.state.SetFitted(nFeatures, nSamples)
	log.GetLoggerWithName("linear").Debug("Ridge fitted",
		log.ModelNameKey, "Ridge",
		log.OperationKey, log.OperationFit,
		log.SolverKey, solver,
		log.RegularizationKey, r.alpha,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.CoefNormKey, floats.Norm(coef, 2),
	)
	return nil
}

// solveSVD computes w = V diag(s / (s² + alpha)) Uᵀ y.
func (r *Ridge) solveSVD(X *mat.Dense, y *mat.VecDense) ([]float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(X, mat.SVDThin); !ok {
		return nil, errors.NewModelError("Ridge.Fit", "SVD factorization failed", errors.ErrSingularMatrix)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	var uty mat.VecDense
	uty.MulVec(u.T(), y)

	d := mat.NewVecDense(len(s), nil)
	for i, si := range s {
		denom := si*si + r.alpha
		if denom == 0 {
			continue
		}
		d.SetVec(i, si/denom*uty.AtVec(i))
	}

	var w mat.VecDense
	w.MulVec(&v, d)
	return append([]float64(nil), w.RawVector().Data...), nil
}

// solveCholesky solves (XᵀX + alpha I) w = Xᵀ y.
func (r *Ridge) solveCholesky(X *mat.Dense, y *mat.VecDense) ([]float64, error) {
	_, p := X.Dims()

	a := mat.NewSymDense(p, nil)
	a.SymOuterK(1, X.T())
	for i := 0; i < p; i++ {
		a.SetSym(i, i, a.At(i, i)+r.alpha)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, errors.NewModelError("Ridge.Fit", "matrix is not positive definite", errors.ErrSingularMatrix)
	}

	var xty mat.VecDense
	xty.MulVec(X.T(), y)

	var w mat.VecDense
	if err := chol.SolveVecTo(&w, &xty); err != nil {
		// mat.Condition はほぼ特異な場合にのみ返り、解自体は得られている
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, errors.Wrap(err, "cholesky solve")
		}
		errors.Warn(errors.NewIllConditionedWarning("cholesky", float64(cond), p, p))
	}
	return append([]float64(nil), w.RawVector().Data...), nil
}

// Predict は入力データに対する予測を行う
func (r *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := r.state.RequireFitted("Ridge", "Predict"); err != nil {
		return nil, err
	}
	_, c := X.Dims()
	if err := r.state.RequireFeatures("Ridge.Predict", c); err != nil {
		return nil, err
	}
	return linearPredict(X, r.coef, r.intercept), nil
}

// Score はモデルの決定係数（R²）を計算する
func (r *Ridge) Score(X, y mat.Matrix) (float64, error) {
	return score(r, X, y)
}

// Coef は学習された係数のコピーを返す
func (r *Ridge) Coef() []float64 {
	return append([]float64(nil), r.coef...)
}

// Intercept は学習された切片を返す
func (r *Ridge) Intercept() float64 {
	return r.intercept
}

// Alpha returns the regularization strength.
func (r *Ridge) Alpha() float64 {
	return r.alpha
}

// Solver returns the solver used by the last Fit.
func (r *Ridge) Solver() string {
	return r.usedSolver
}

// IsFitted returns whether the model has been fitted.
func (r *Ridge) IsFitted() bool {
	return r.state.IsFitted()
}

// GetParams returns the parameters of the model
func (r *Ridge) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"alpha":         r.alpha,
		"fit_intercept": r.fitIntercept,
		"solver":        r.solver,
	}
}

// SetParams sets the parameters of the model. Changing parameters resets the fitted state.
func (r *Ridge) SetParams(params map[string]interface{}) error {
	for k, v := range params {
		switch k {
		case "alpha":
			f, ok := v.(float64)
			if !ok {
				return errors.NewValidationError(k, "must be a float64", v)
			}
			r.alpha = f
		case "fit_intercept":
			b, ok := v.(bool)
			if !ok {
				return errors.NewValidationError(k, "must be a bool", v)
			}
			r.fitIntercept = b
		case "solver":
			s, ok := v.(string)
			if !ok {
				return errors.NewValidationError(k, "must be a string", v)
			}
			r.solver = s
		default:
			return errors.NewValidationError(k, "unknown parameter", v)
		}
	}
	r.state.Reset()
	return r.validate()
}

// ExportWeights returns the fitted coefficients for serialization.
func (r *Ridge) ExportWeights() (*model.ModelWeights, error) {
	if err := r.state.RequireFitted("Ridge", "ExportWeights"); err != nil {
		return nil, err
	}
	_, nSamples := r.state.GetDimensions()
	return &model.ModelWeights{
		ModelType:       "Ridge",
		Version:         model.WeightsVersion,
		Coefficients:    r.Coef(),
		Intercept:       r.intercept,
		Hyperparameters: r.GetParams(),
		Metadata: map[string]interface{}{
			"solver":    r.usedSolver,
			"n_samples": nSamples,
		},
		IsFitted: true,
	}, nil
}
