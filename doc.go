// Package scilab is a small toolkit for two data walkthroughs in Go:
// exploring a tab-separated table the way one would with a data frame, and
// showing how ridge regularization tames a high-degree polynomial fit.
//
// scilab keeps a scikit-learn-like API for the estimators and a pandas-like
// API for the table, both on top of established Go libraries (gonum, gota,
// gonum/plot).
//
// # Quick Start
//
// Fitting a degree-9 polynomial with ridge regression:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scigo-labs/datasets"
//	    "github.com/YuminosukeSato/scigo-labs/linear"
//	    "github.com/YuminosukeSato/scigo-labs/pipeline"
//	)
//
//	func main() {
//	    s, err := datasets.NoisySine(datasets.DefaultSineConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    ridge := linear.NewRidge(linear.WithAlpha(0.01), linear.WithRidgeFitIntercept(false))
//	    pipe, err := pipeline.NewPolynomial(9, "ridge", ridge)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := pipe.Fit(s.X(), s.Y()); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(ridge.Coef())
//	}
//
// Reading a table and grouping it:
//
//	df, err := frame.Load("data/gapminder.tsv")
//	g, err := df.GroupBy("year")
//	means, err := g.Mean("lifeExp")
//	fmt.Println(means)
//
// # Packages
//
//   - frame: data frame on gota with label/position indexing, filters, groupby
//   - linear: LinearRegression (SVD least squares) and Ridge
//   - preprocessing: PolynomialFeatures
//   - pipeline: transformer chains ending in an estimator
//   - metrics: MSE, RMSE, MAE, R², coefficient norms
//   - datasets: the seeded noisy sine sample
//   - plotting: line, sample and comparison-grid figures via gonum/plot
//   - tutorial, tutorial/explore, tutorial/regularization: the walkthroughs
//   - config: viper-backed settings
//   - core/model, core/parallel: shared interfaces and fan-out helpers
//   - pkg/errors, pkg/log: typed errors and structured logging
//
// The scilab command (cmd/scilab) runs both walkthroughs from the shell:
//
//	scilab explore --data data/gapminder.tsv
//	scilab regularize --coef-json out/coef.json
package scilab
