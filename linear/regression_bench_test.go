package linear

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// createBenchmarkData はベンチマーク用のデータを生成する
func createBenchmarkData(rows, cols int) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(42, 42))

	X := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, rng.Float64()*2.0-1.0)
		}
	}

	// y = 1 + Σ 0.5*(j+1)*x_j + 小さなノイズ
	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sum := 1.0
		for j := 0; j < cols; j++ {
			sum += X.At(i, j) * float64(j+1) * 0.5
		}
		sum += (rng.Float64() - 0.5) * 0.1
		y.Set(i, 0, sum)
	}

	return X, y
}

var benchSizes = []struct {
	name string
	rows int
	cols int
}{
	{"Small_100x10", 100, 10},
	{"Medium_1000x10", 1000, 10},
	{"Large_10000x20", 10000, 20},
}

func BenchmarkLinearRegressionFit(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(size.name, func(b *testing.B) {
			X, y := createBenchmarkData(size.rows, size.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := NewLinearRegression().Fit(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRidgeFit(b *testing.B) {
	for _, solver := range []string{SolverSVD, SolverCholesky} {
		for _, size := range benchSizes {
			b.Run(solver+"_"+size.name, func(b *testing.B) {
				X, y := createBenchmarkData(size.rows, size.cols)

				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					r := NewRidge(WithAlpha(0.01), WithSolver(solver))
					if err := r.Fit(X, y); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
