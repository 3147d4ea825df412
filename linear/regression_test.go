package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

func TestLinearRegression_Basic(t *testing.T) {
	// y = 2x + 1
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	if math.Abs(lr.Coef()[0]-2) > 1e-10 {
		t.Errorf("Expected coefficient 2.0, got %f", lr.Coef()[0])
	}
	if math.Abs(lr.Intercept()-1) > 1e-10 {
		t.Errorf("Expected intercept 1.0, got %f", lr.Intercept())
	}

	pred, err := lr.Predict(mat.NewDense(2, 1, []float64{5, 6}))
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	expected := []float64{11, 13}
	for i := range expected {
		if math.Abs(pred.At(i, 0)-expected[i]) > 1e-10 {
			t.Errorf("Expected prediction %f, got %f", expected[i], pred.At(i, 0))
		}
	}

	score, err := lr.Score(X, y)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(score-1) > 1e-10 {
		t.Errorf("Expected R² 1.0, got %f", score)
	}
}

func TestLinearRegression_NoIntercept(t *testing.T) {
	// y = 2x
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})

	lr := NewLinearRegression(WithFitIntercept(false))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if math.Abs(lr.Coef()[0]-2) > 1e-10 {
		t.Errorf("Expected coefficient 2.0, got %f", lr.Coef()[0])
	}
	if lr.Intercept() != 0 {
		t.Errorf("Expected intercept 0, got %f", lr.Intercept())
	}
}

func TestLinearRegression_MultipleFeatures(t *testing.T) {
	// y = 2*x1 + 3*x2 + 1
	X := mat.NewDense(5, 2, []float64{
		1, 1,
		2, 1,
		3, 2,
		4, 2,
		5, 3,
	})
	y := mat.NewDense(5, 1, []float64{6, 8, 13, 15, 20})

	lr := NewLinearRegression()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	want := []float64{2, 3}
	for i, w := range want {
		if math.Abs(lr.Coef()[i]-w) > 1e-9 {
			t.Errorf("coef[%d] = %f, want %f", i, lr.Coef()[i], w)
		}
	}
	if math.Abs(lr.Intercept()-1) > 1e-9 {
		t.Errorf("intercept = %f, want 1", lr.Intercept())
	}
	if lr.Rank() != 2 {
		t.Errorf("Rank() = %d, want 2", lr.Rank())
	}
}

func TestLinearRegression_RankDeficient(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	// 同一の2列: 最小ノルム解は係数を均等に分ける
	X := mat.NewDense(3, 2, []float64{1, 1, 2, 2, 3, 3})
	y := mat.NewDense(3, 1, []float64{2, 4, 6})

	lr := NewLinearRegression(WithFitIntercept(false), WithRcond(1e-10))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if lr.Rank() != 1 {
		t.Errorf("Rank() = %d, want 1", lr.Rank())
	}
	for i, c := range lr.Coef() {
		if math.Abs(c-1) > 1e-9 {
			t.Errorf("coef[%d] = %f, want 1", i, c)
		}
	}

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	var ill *errors.IllConditionedWarning
	if !errors.As(warnings[0], &ill) || ill.Rank != 1 || ill.Features != 2 {
		t.Errorf("unexpected warning: %v", warnings[0])
	}
}

func TestLinearRegression_Errors(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	t.Run("not fitted", func(t *testing.T) {
		_, err := NewLinearRegression().Predict(X)
		var nfe *errors.NotFittedError
		if !errors.As(err, &nfe) {
			t.Errorf("expected NotFittedError, got %v", err)
		}
	})

	t.Run("row mismatch", func(t *testing.T) {
		err := NewLinearRegression().Fit(X, mat.NewDense(3, 1, nil))
		var dimErr *errors.DimensionError
		if !errors.As(err, &dimErr) || dimErr.Expected != 4 || dimErr.Got != 3 {
			t.Errorf("expected DimensionError, got %v", err)
		}
	})

	t.Run("feature mismatch on predict", func(t *testing.T) {
		lr := NewLinearRegression()
		if err := lr.Fit(X, mat.NewDense(4, 1, []float64{1, 2, 3, 4})); err != nil {
			t.Fatal(err)
		}
		_, err := lr.Predict(mat.NewDense(2, 2, nil))
		var dimErr *errors.DimensionError
		if !errors.As(err, &dimErr) || dimErr.Axis != 1 {
			t.Errorf("expected feature DimensionError, got %v", err)
		}
	})

	t.Run("multi target", func(t *testing.T) {
		err := NewLinearRegression().Fit(X, mat.NewDense(4, 2, nil))
		var valErr *errors.ValueError
		if !errors.As(err, &valErr) {
			t.Errorf("expected ValueError, got %v", err)
		}
	})

	t.Run("nan input", func(t *testing.T) {
		bad := mat.NewDense(4, 1, []float64{1, math.NaN(), 3, 4})
		err := NewLinearRegression().Fit(bad, mat.NewDense(4, 1, []float64{1, 2, 3, 4}))
		var numErr *errors.NumericalInstabilityError
		if !errors.As(err, &numErr) {
			t.Errorf("expected NumericalInstabilityError, got %v", err)
		}
	})
}

func TestLinearRegression_Params(t *testing.T) {
	lr := NewLinearRegression()
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{2, 4, 6})
	if err := lr.Fit(X, y); err != nil {
		t.Fatal(err)
	}

	if err := lr.SetParams(map[string]interface{}{"fit_intercept": false}); err != nil {
		t.Fatal(err)
	}
	if lr.IsFitted() {
		t.Error("SetParams should reset the fitted state")
	}
	if lr.GetParams()["fit_intercept"] != false {
		t.Error("fit_intercept not updated")
	}
	if err := lr.SetParams(map[string]interface{}{"fit_intercept": "yes"}); err == nil {
		t.Error("expected validation error for wrong type")
	}
	if err := lr.SetParams(map[string]interface{}{"positive": true}); err == nil {
		t.Error("expected validation error for unknown parameter")
	}

	if _, err := lr.ExportWeights(); err == nil {
		t.Error("expected NotFittedError from ExportWeights")
	}
	if err := lr.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	w, err := lr.ExportWeights()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Validate(); err != nil {
		t.Errorf("exported weights invalid: %v", err)
	}
	if w.ModelType != "LinearRegression" || len(w.Coefficients) != 1 {
		t.Errorf("unexpected weights: %+v", w)
	}
}

func vandermonde(x []float64, degree int) *mat.Dense {
	X := mat.NewDense(len(x), degree+1, nil)
	for i, xi := range x {
		v := 1.0
		for k := 0; k <= degree; k++ {
			X.Set(i, k, v)
			v *= xi
		}
	}
	return X
}

func TestLinearRegression_HighDegreeInterpolation(t *testing.T) {
	// 10 点に 9 次多項式: 訓練データを補間する
	x := make([]float64, 10)
	y := make([]float64, 10)
	for i := range x {
		x[i] = 0.6 * float64(i)
		y[i] = math.Sin(x[i]) + 0.3*math.Cos(7*x[i])
	}
	X := vandermonde(x, 9)
	Y := mat.NewDense(10, 1, y)

	lr := NewLinearRegression(WithFitIntercept(false))
	if err := lr.Fit(X, Y); err != nil {
		t.Fatal(err)
	}
	if len(lr.SingularValues()) != 10 {
		t.Errorf("expected 10 singular values, got %d", len(lr.SingularValues()))
	}

	pred, err := lr.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	for i := range y {
		if math.Abs(pred.At(i, 0)-y[i]) > 1e-5 {
			t.Errorf("pred[%d] = %v, want %v", i, pred.At(i, 0), y[i])
		}
	}
}
