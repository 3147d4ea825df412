package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

func TestRidge_ClosedForm(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	tests := []struct {
		name          string
		y             []float64
		opts          []RidgeOption
		wantCoef      float64
		wantIntercept float64
	}{
		{
			// w = Σxy / (Σx² + α) = 60 / 31
			name:     "no intercept",
			y:        []float64{2, 4, 6, 8},
			opts:     []RidgeOption{WithAlpha(1), WithRidgeFitIntercept(false)},
			wantCoef: 60.0 / 31.0,
		},
		{
			// 中心化後: Σxc·yc = 10, Σxc² = 5 → w = 10/6, b = 6 - w*2.5
			name:          "with intercept",
			y:             []float64{3, 5, 7, 9},
			opts:          []RidgeOption{WithAlpha(1)},
			wantCoef:      10.0 / 6.0,
			wantIntercept: 6 - 10.0/6.0*2.5,
		},
		{
			name:     "cholesky solver",
			y:        []float64{2, 4, 6, 8},
			opts:     []RidgeOption{WithAlpha(1), WithRidgeFitIntercept(false), WithSolver(SolverCholesky)},
			wantCoef: 60.0 / 31.0,
		},
		{
			name:          "alpha zero equals OLS",
			y:             []float64{3, 5, 7, 9},
			opts:          []RidgeOption{WithAlpha(0)},
			wantCoef:      2,
			wantIntercept: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRidge(tt.opts...)
			if err := r.Fit(X, mat.NewDense(4, 1, tt.y)); err != nil {
				t.Fatalf("Fit: %v", err)
			}
			if math.Abs(r.Coef()[0]-tt.wantCoef) > 1e-10 {
				t.Errorf("coef = %v, want %v", r.Coef()[0], tt.wantCoef)
			}
			if math.Abs(r.Intercept()-tt.wantIntercept) > 1e-10 {
				t.Errorf("intercept = %v, want %v", r.Intercept(), tt.wantIntercept)
			}
		})
	}
}

func TestRidge_ShrinksHighDegreeCoefficients(t *testing.T) {
	x := make([]float64, 10)
	y := make([]float64, 10)
	for i := range x {
		x[i] = 0.6 * float64(i)
		y[i] = math.Sin(x[i]) + 0.3*math.Cos(7*x[i])
	}
	X := vandermonde(x, 9)
	Y := mat.NewDense(10, 1, y)

	ols := NewLinearRegression(WithFitIntercept(false))
	if err := ols.Fit(X, Y); err != nil {
		t.Fatal(err)
	}
	ridge := NewRidge(WithAlpha(0.01), WithRidgeFitIntercept(false))
	if err := ridge.Fit(X, Y); err != nil {
		t.Fatal(err)
	}

	if len(ridge.Coef()) != 10 {
		t.Fatalf("expected 10 coefficients, got %d", len(ridge.Coef()))
	}
	olsNorm := floats.Norm(ols.Coef(), 2)
	ridgeNorm := floats.Norm(ridge.Coef(), 2)
	if ridgeNorm >= olsNorm {
		t.Errorf("ridge norm %v should be smaller than OLS norm %v", ridgeNorm, olsNorm)
	}
	if ridge.Solver() != SolverSVD {
		t.Errorf("auto solver should resolve to svd, got %s", ridge.Solver())
	}
}

func TestRidge_SolversAgree(t *testing.T) {
	X := mat.NewDense(6, 3, []float64{
		1, 0.5, 2,
		2, 1.5, 1,
		3, 0.2, 0,
		4, 2.5, 1,
		5, 1.0, 3,
		6, 0.7, 2,
	})
	y := mat.NewDense(6, 1, []float64{3, 4, 2, 7, 9, 8})

	svd := NewRidge(WithAlpha(0.5), WithSolver(SolverSVD))
	chol := NewRidge(WithAlpha(0.5), WithSolver(SolverCholesky))
	if err := svd.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if err := chol.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(svd.Coef(), chol.Coef(), 1e-9) {
		t.Errorf("solvers disagree: svd=%v cholesky=%v", svd.Coef(), chol.Coef())
	}
	if math.Abs(svd.Intercept()-chol.Intercept()) > 1e-9 {
		t.Errorf("intercepts disagree: %v vs %v", svd.Intercept(), chol.Intercept())
	}
	if chol.Solver() != SolverCholesky {
		t.Errorf("Solver() = %s", chol.Solver())
	}
}

func TestRidge_Errors(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})

	var valErr *errors.ValidationError
	if err := NewRidge(WithAlpha(-1)).Fit(X, y); !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError for negative alpha, got %v", err)
	}
	if err := NewRidge(WithSolver("lbfgs")).Fit(X, y); !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError for unknown solver, got %v", err)
	}

	var dimErr *errors.DimensionError
	if err := NewRidge().Fit(X, mat.NewDense(2, 1, nil)); !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %v", err)
	}

	var nfe *errors.NotFittedError
	if _, err := NewRidge().Predict(X); !errors.As(err, &nfe) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestRidge_ParamsAndWeights(t *testing.T) {
	r := NewRidge(WithAlpha(0.01), WithRidgeFitIntercept(false))
	params := r.GetParams()
	if params["alpha"] != 0.01 || params["fit_intercept"] != false || params["solver"] != SolverAuto {
		t.Errorf("unexpected params: %v", params)
	}

	if err := r.SetParams(map[string]interface{}{"alpha": -3.0}); err == nil {
		t.Error("expected error for negative alpha")
	}
	if err := r.SetParams(map[string]interface{}{"alpha": 0.1}); err != nil {
		t.Fatal(err)
	}
	if r.Alpha() != 0.1 {
		t.Errorf("Alpha() = %v", r.Alpha())
	}

	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	if err := r.Fit(X, mat.NewDense(3, 1, []float64{1, 2, 3})); err != nil {
		t.Fatal(err)
	}
	w, err := r.ExportWeights()
	if err != nil {
		t.Fatal(err)
	}
	if w.ModelType != "Ridge" || w.Hyperparameters["alpha"] != 0.1 || w.Metadata["solver"] != SolverSVD {
		t.Errorf("unexpected weights: %+v", w)
	}
}
