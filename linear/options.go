package linear

// Option configures LinearRegression.
type Option func(*LinearRegression)

// WithFitIntercept sets whether to calculate the intercept (default true).
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// WithCopyX sets whether X is copied before centering (default true).
func WithCopyX(copy bool) Option {
	return func(lr *LinearRegression) {
		lr.copyX = copy
	}
}

// WithRcond sets the relative cutoff for small singular values.
// Values <= 0 select machine epsilon times max(n_samples, n_features).
func WithRcond(rcond float64) Option {
	return func(lr *LinearRegression) {
		lr.rcond = rcond
	}
}

// RidgeOption configures Ridge.
type RidgeOption func(*Ridge)

// WithAlpha sets the L2 penalty strength (default 1.0).
func WithAlpha(alpha float64) RidgeOption {
	return func(r *Ridge) {
		r.alpha = alpha
	}
}

// WithRidgeFitIntercept sets whether to calculate the intercept (default true).
func WithRidgeFitIntercept(fit bool) RidgeOption {
	return func(r *Ridge) {
		r.fitIntercept = fit
	}
}

// WithSolver selects the ridge solver: "auto", "svd" or "cholesky".
func WithSolver(solver string) RidgeOption {
	return func(r *Ridge) {
		r.solver = solver
	}
}
