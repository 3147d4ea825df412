// Package linear provides least-squares and ridge regression over gonum matrices.
package linear

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-labs/core/model"
	"github.com/YuminosukeSato/scigo-labs/core/parallel"
	"github.com/YuminosukeSato/scigo-labs/metrics"
	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

// checkXy validates shapes shared by every Fit.
func checkXy(op string, X, y mat.Matrix) (nSamples, nFeatures int, err error) {
	nSamples, nFeatures = X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return 0, 0, errors.NewDimensionError(op, nSamples, yRows, 0)
	}
	if yCols != 1 {
		return 0, 0, errors.NewValueError(op, "y must be a column vector")
	}
	if err := errors.CheckMatrix(op, X); err != nil {
		return 0, 0, err
	}
	if err := errors.CheckMatrix(op, y); err != nil {
		return 0, 0, err
	}
	return nSamples, nFeatures, nil
}

// centerData returns X and y shifted to zero column means along with the
// means, or unmodified copies and zero means when center is false.
func centerData(X, y mat.Matrix, center, copyX bool) (*mat.Dense, *mat.VecDense, []float64, float64) {
	n, p := X.Dims()

	var Xc *mat.Dense
	if d, ok := X.(*mat.Dense); ok && !copyX {
		Xc = d
	} else {
		Xc = mat.DenseCopyOf(X)
	}
	yc := mat.NewVecDense(n, mat.Col(nil, 0, y))

	xMean := make([]float64, p)
	if !center {
		return Xc, yc, xMean, 0
	}

	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, Xc)
		xMean[j] = floats.Sum(col) / float64(n)
	}
	yMean := floats.Sum(yc.RawVector().Data) / float64(n)

	parallel.ParallelizeWithThreshold(n, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < p; j++ {
				Xc.Set(i, j, Xc.At(i, j)-xMean[j])
			}
			yc.SetVec(i, yc.AtVec(i)-yMean)
		}
	})
	return Xc, yc, xMean, yMean
}

// linearPredict computes X·coef + intercept row by row.
func linearPredict(X mat.Matrix, coef []float64, intercept float64) *mat.Dense {
	n, p := X.Dims()
	out := mat.NewDense(n, 1, nil)
	parallel.ParallelizeWithThreshold(n, parallel.DefaultThreshold, func(start, end int) {
		row := make([]float64, p)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			out.Set(i, 0, floats.Dot(row, coef)+intercept)
		}
	})
	return out
}

// score returns R² of a fitted predictor on (X, y).
func score(p model.Predictor, X, y mat.Matrix) (float64, error) {
	yPred, err := p.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, yPred)
}
