// Package regularization fits polynomials of increasing degree to a noisy
// sine sample and compares the highest-degree least squares fit with ridge.
package regularization

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/scigo-labs/config"
	"github.com/YuminosukeSato/scigo-labs/core/model"
	"github.com/YuminosukeSato/scigo-labs/core/parallel"
	"github.com/YuminosukeSato/scigo-labs/datasets"
	"github.com/YuminosukeSato/scigo-labs/linear"
	"github.com/YuminosukeSato/scigo-labs/metrics"
	"github.com/YuminosukeSato/scigo-labs/pipeline"
	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
	"github.com/YuminosukeSato/scigo-labs/plotting"
	"github.com/YuminosukeSato/scigo-labs/tutorial"
)

// Output files written under the output directory.
const (
	SamplePlotFile     = "sine_sample.png"
	ComparisonPlotFile = "polynomial_fits.png"
)

// Estimator kinds.
const (
	KindOLS   = "lr"
	KindRidge = "ridge"
)

// Fit is one fitted polynomial pipeline.
type Fit struct {
	Kind     string
	Degree   int
	Pipeline *pipeline.Pipeline
	Coef     []float64
	// Pred holds the predictions at the sample inputs.
	Pred []float64
	MSE  float64
}

// Name identifies the fit in exported weights, e.g. "lr_degree_9".
func (f *Fit) Name() string {
	return fmt.Sprintf("%s_degree_%d", f.Kind, f.Degree)
}

// CoefNorm returns the L2 norm of the coefficients.
func (f *Fit) CoefNorm() float64 {
	return metrics.CoefNorm(f.Coef)
}

// Weights exports the fitted estimator with polynomial feature names and
// the step-prefixed pipeline parameters.
func (f *Fit) Weights() (*model.ModelWeights, error) {
	exp, ok := f.Pipeline.Final().(model.WeightsExporter)
	if !ok {
		return nil, errors.NewTypeError("Fit.Weights", "model.WeightsExporter", f.Pipeline.Final())
	}
	mw, err := exp.ExportWeights()
	if err != nil {
		return nil, err
	}
	step, err := f.Pipeline.Step("feature")
	if err != nil {
		return nil, err
	}
	if fn, ok := step.(model.FeatureNamer); ok {
		names, err := fn.FeatureNames([]string{"x"})
		if err != nil {
			return nil, err
		}
		if len(names) == len(mw.Coefficients) {
			mw.Features = names
		}
	}
	if mw.Hyperparameters == nil {
		mw.Hyperparameters = map[string]interface{}{}
	}
	for k, v := range f.Pipeline.GetParams() {
		mw.Hyperparameters[k] = v
	}
	mw.Hyperparameters["degree"] = f.Degree
	return mw, nil
}

func newEstimator(kind string, alpha float64) (model.Estimator, error) {
	switch kind {
	case KindOLS:
		return linear.NewLinearRegression(linear.WithFitIntercept(false)), nil
	case KindRidge:
		return linear.NewRidge(linear.WithAlpha(alpha), linear.WithRidgeFitIntercept(false)), nil
	default:
		return nil, errors.NewValidationError("kind", "unknown estimator kind", kind)
	}
}

// FitPolynomial fits PolynomialFeatures(degree) followed by a no-intercept
// estimator of the given kind on the sample. alpha is used by ridge only.
func FitPolynomial(s *datasets.SineSample, kind string, degree int, alpha float64) (*Fit, error) {
	est, err := newEstimator(kind, alpha)
	if err != nil {
		return nil, err
	}
	pipe, err := pipeline.NewPolynomial(degree, kind, est)
	if err != nil {
		return nil, err
	}
	X, y := s.X(), s.Y()
	if err := pipe.Fit(X, y); err != nil {
		return nil, errors.Wrapf(err, "fit %s degree %d", kind, degree)
	}
	pred, err := pipe.Predict(X)
	if err != nil {
		return nil, err
	}
	mse, err := metrics.MSEMatrix(y, pred)
	if err != nil {
		return nil, err
	}
	lm, ok := est.(model.LinearModel)
	if !ok {
		return nil, errors.NewTypeError("FitPolynomial", "model.LinearModel", est)
	}
	return &Fit{
		Kind:     kind,
		Degree:   degree,
		Pipeline: pipe,
		Coef:     lm.Coef(),
		Pred:     mat.Col(nil, 0, pred),
		MSE:      mse,
	}, nil
}

// FitDegrees fits one least squares pipeline per degree concurrently.
// The result is ordered like degrees.
func FitDegrees(ctx context.Context, s *datasets.SineSample, degrees []int) ([]*Fit, error) {
	fits := make([]*Fit, len(degrees))
	err := parallel.ParallelizeErr(ctx, len(degrees), 1, func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := FitPolynomial(s, KindOLS, degrees[i], 0)
			if err != nil {
				return err
			}
			fits[i] = f
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fits, nil
}

type session struct {
	cfg    *config.Config
	report *tutorial.Report
	logger log.Logger

	sample *datasets.SineSample
	fits   []*Fit
	ridge  *Fit
}

// Run generates the sample, fits every configured model, renders the
// figures and prints the coefficients to w.
func Run(ctx context.Context, cfg *config.Config, w io.Writer) (*tutorial.Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := log.GetLoggerWithName("tutorial.regularization")
	if id := tutorial.RunIDFrom(ctx); id != "" {
		logger = logger.With(log.RunIDKey, id)
	}
	s := &session{cfg: cfg, report: &tutorial.Report{}, logger: logger}

	logger.Info("Regularization started",
		log.RandomSeedKey, cfg.RandomSeed,
		log.RegularizationKey, cfg.RidgeAlpha,
	)
	steps := []tutorial.Step{
		{Name: "sample", Run: s.generate},
		{Name: "sample_plot", Run: s.plotSample},
		{Name: "polynomial_fits", Run: s.fitDegrees},
		{Name: "comparison_plot", Run: s.plotComparison},
		{Name: "ridge_fit", Run: s.fitRidge},
		{Name: "coefficients", Run: s.printCoefficients},
	}
	if cfg.CoefJSON != "" {
		steps = append(steps, tutorial.Step{Name: "export_weights", Run: s.exportWeights})
	}
	if err := tutorial.RunSteps(ctx, logger, w, s.report, steps); err != nil {
		return s.report, err
	}
	logger.Info("Regularization finished", "outputs", s.report.Outputs)
	return s.report, nil
}

func (s *session) size() plotting.Option {
	return plotting.WithSize(vg.Length(s.cfg.PlotWidthIn)*vg.Inch, vg.Length(s.cfg.PlotHeightIn)*vg.Inch)
}

func (s *session) generate(_ context.Context, w io.Writer) error {
	sc := datasets.DefaultSineConfig()
	sc.Seed = s.cfg.RandomSeed
	sample, err := datasets.NoisySine(sc)
	if err != nil {
		return err
	}
	s.sample = sample

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "x\tsin(x)\tnoise\ty_true\t")
	noise, ys := sample.Noise(), sample.YValues()
	for i, x := range sample.XValues() {
		fmt.Fprintf(tw, "%.1f\t%.6f\t%.6f\t%.6f\t\n", x, ys[i]-noise[i], noise[i], ys[i])
	}
	return tw.Flush()
}

func (s *session) written(w io.Writer, path string) error {
	s.report.AddOutput(path)
	s.logger.Info("Plot written", log.OutputPathKey, path)
	_, err := fmt.Fprintf(w, "saved %s\n", path)
	return err
}

func (s *session) plotSample(_ context.Context, w io.Writer) error {
	path := filepath.Join(s.cfg.OutputDir, SamplePlotFile)
	if err := plotting.SamplePlot(s.sample, path, s.size(), plotting.WithTitle("Noisy sine sample")); err != nil {
		return err
	}
	return s.written(w, path)
}

func (s *session) logFit(f *Fit) {
	s.logger.Info("Model fitted",
		log.ModelNameKey, f.Kind,
		log.DegreeKey, f.Degree,
		log.MSEKey, f.MSE,
		log.CoefNormKey, f.CoefNorm(),
	)
}

func (s *session) fitDegrees(ctx context.Context, w io.Writer) error {
	fits, err := FitDegrees(ctx, s.sample, s.cfg.Degrees)
	if err != nil {
		return err
	}
	s.fits = fits

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "degree\tcoefficients\ttrain MSE\tcoef norm")
	for _, f := range fits {
		s.logFit(f)
		fmt.Fprintf(tw, "%d\t%d\t%.6f\t%.6f\n", f.Degree, len(f.Coef), f.MSE, f.CoefNorm())
	}
	return tw.Flush()
}

func (s *session) plotComparison(_ context.Context, w io.Writer) error {
	xs := s.sample.XValues()
	panels := make([]plotting.Fit, len(s.fits))
	for i, f := range s.fits {
		panels[i] = plotting.Fit{Label: fmt.Sprintf("M=%d", f.Degree), X: xs, Y: f.Pred}
	}
	path := filepath.Join(s.cfg.OutputDir, ComparisonPlotFile)
	if err := plotting.ComparisonGrid(s.sample, panels, path, s.size()); err != nil {
		return err
	}
	return s.written(w, path)
}

func (s *session) fitRidge(_ context.Context, w io.Writer) error {
	f, err := FitPolynomial(s.sample, KindRidge, s.cfg.RidgeDegree, s.cfg.RidgeAlpha)
	if err != nil {
		return err
	}
	s.ridge = f
	s.logFit(f)
	_, err = fmt.Fprintf(w, "ridge degree %d alpha %g: train MSE %.6f, coef norm %.6f\n",
		f.Degree, s.cfg.RidgeAlpha, f.MSE, f.CoefNorm())
	return err
}

// olsAt returns the least squares fit with the ridge degree, fitting it when
// the configured degrees do not include it.
func (s *session) olsAt(degree int) (*Fit, error) {
	for _, f := range s.fits {
		if f.Degree == degree {
			return f, nil
		}
	}
	f, err := FitPolynomial(s.sample, KindOLS, degree, 0)
	if err != nil {
		return nil, err
	}
	s.fits = append(s.fits, f)
	return f, nil
}

func (s *session) printCoefficients(_ context.Context, w io.Writer) error {
	ols, err := s.olsAt(s.ridge.Degree)
	if err != nil {
		return err
	}
	names, err := ols.Weights()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "term\tleast squares\tridge\t")
	for i := range ols.Coef {
		term := fmt.Sprintf("w%d", i)
		if i < len(names.Features) {
			term = names.Features[i]
		}
		fmt.Fprintf(tw, "%s\t%.8f\t%.8f\t\n", term, ols.Coef[i], s.ridge.Coef[i])
	}
	fmt.Fprintf(tw, "L2 norm\t%.8f\t%.8f\t\n", ols.CoefNorm(), s.ridge.CoefNorm())
	return tw.Flush()
}

func (s *session) exportWeights(_ context.Context, w io.Writer) error {
	set := model.WeightsSet{}
	for _, f := range append(append([]*Fit(nil), s.fits...), s.ridge) {
		mw, err := f.Weights()
		if err != nil {
			return err
		}
		set[f.Name()] = mw
	}
	if err := os.MkdirAll(filepath.Dir(s.cfg.CoefJSON), 0o755); err != nil {
		return errors.Wrap(err, "create weights directory")
	}
	if err := set.WriteFile(s.cfg.CoefJSON); err != nil {
		return err
	}
	s.report.AddOutput(s.cfg.CoefJSON)
	s.logger.Info("Weights written", log.OutputPathKey, s.cfg.CoefJSON, "models", len(set))
	_, err := fmt.Fprintf(w, "saved %s (%d models)\n", s.cfg.CoefJSON, len(set))
	return err
}
