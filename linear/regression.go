package linear

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-labs/core/model"
	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
)

// LinearRegression は最小二乗法による線形回帰モデル
//
// 係数は特異値分解による最小ノルム解として求める。高次の多項式特徴量のように
// 条件数の大きい計画行列でも正規方程式の逆行列を経由しない。
type LinearRegression struct {
	state *model.StateManager

	fitIntercept bool
	copyX        bool
	rcond        float64

	coef      []float64
	intercept float64
	rank      int
	singular  []float64
}

// NewLinearRegression は新しい線形回帰モデルを作成する
//
// 使用例:
//
//	lr := linear.NewLinearRegression(linear.WithFitIntercept(false))
//	err := lr.Fit(X, y)
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		state:        model.NewStateManager(),
		fitIntercept: true,
		copyX:        true,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit はモデルを訓練データで学習させる
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	const op = "LinearRegression.Fit"
	nSamples, nFeatures, err := checkXy(op, X, y)
	if err != nil {
		return err
	}

	Xc, yc, xMean, yMean := centerData(X, y, lr.fitIntercept, lr.copyX)

	var svd mat.SVD
	if ok := svd.Factorize(Xc, mat.SVDThin); !ok {
		return errors.NewModelError(op, "SVD factorization failed", errors.ErrSingularMatrix)
	}

	rcond := lr.rcond
	if rcond <= 0 {
		rcond = eps * float64(max(nSamples, nFeatures))
	}
	rank := svd.Rank(rcond)
	if rank == 0 {
		return errors.NewModelError(op, "design matrix has rank 0", errors.ErrSingularMatrix)
	}

	var w mat.VecDense
	svd.SolveVecTo(&w, yc, rank)

	coef := make([]float64, nFeatures)
	copy(coef, w.RawVector().Data)
	if err := errors.CheckNumericalStability(op, coef); err != nil {
		return err
	}

	lr.coef = coef
	lr.singular = svd.Values(nil)
	lr.rank = rank
	lr.intercept = 0
	if lr.fitIntercept {
		lr.intercept = yMean - floats.Dot(xMean, coef)
	}

	if rank < nFeatures {
		errors.Warn(errors.NewIllConditionedWarning("lstsq", svd.Cond(), rank, nFeatures))
	}

	lr.state.SetFitted(nFeatures, nSamples)
	log.GetLoggerWithName("linear").Debug("LinearRegression fitted",
		log.ModelNameKey, "LinearRegression",
		log.OperationKey, log.OperationFit,
		log.SolverKey, "lstsq",
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.RankKey, rank,
		log.FitInterceptKey, lr.fitIntercept,
	)
	return nil
}

// eps is float64 machine epsilon.
var eps = math.Nextafter(1, 2) - 1

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LinearRegression", "Predict"); err != nil {
		return nil, err
	}
	_, c := X.Dims()
	if err := lr.state.RequireFeatures("LinearRegression.Predict", c); err != nil {
		return nil, err
	}
	return linearPredict(X, lr.coef, lr.intercept), nil
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	return score(lr, X, y)
}

// Coef は学習された係数のコピーを返す
func (lr *LinearRegression) Coef() []float64 {
	return append([]float64(nil), lr.coef...)
}

// Intercept は学習された切片を返す（fit_intercept=false の場合は 0）
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept
}

// Rank returns the effective rank of the (centered) design matrix.
func (lr *LinearRegression) Rank() int {
	return lr.rank
}

// SingularValues returns the singular values of the design matrix in descending order.
func (lr *LinearRegression) SingularValues() []float64 {
	return append([]float64(nil), lr.singular...)
}

// IsFitted returns whether the model has been fitted.
func (lr *LinearRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// GetParams returns the parameters of the model
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": lr.fitIntercept,
		"copy_X":        lr.copyX,
		"rcond":         lr.rcond,
	}
}

// SetParams sets the parameters of the model. Changing parameters resets the fitted state.
func (lr *LinearRegression) SetParams(params map[string]interface{}) error {
	for k, v := range params {
		switch k {
		case "fit_intercept":
			b, ok := v.(bool)
			if !ok {
				return errors.NewValidationError(k, "must be a bool", v)
			}
			lr.fitIntercept = b
		case "copy_X":
			b, ok := v.(bool)
			if !ok {
				return errors.NewValidationError(k, "must be a bool", v)
			}
			lr.copyX = b
		case "rcond":
			f, ok := v.(float64)
			if !ok {
				return errors.NewValidationError(k, "must be a float64", v)
			}
			lr.rcond = f
		default:
			return errors.NewValidationError(k, "unknown parameter", v)
		}
	}
	lr.state.Reset()
	return nil
}

// ExportWeights returns the fitted coefficients for serialization.
func (lr *LinearRegression) ExportWeights() (*model.ModelWeights, error) {
	if err := lr.state.RequireFitted("LinearRegression", "ExportWeights"); err != nil {
		return nil, err
	}
	_, nSamples := lr.state.GetDimensions()
	return &model.ModelWeights{
		ModelType:       "LinearRegression",
		Version:         model.WeightsVersion,
		Coefficients:    lr.Coef(),
		Intercept:       lr.intercept,
		Hyperparameters: lr.GetParams(),
		Metadata: map[string]interface{}{
			"rank":      lr.rank,
			"n_samples": nSamples,
		},
		IsFitted: true,
	}, nil
}
