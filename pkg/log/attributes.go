package log

// Standard attribute keys. They follow a hierarchical naming convention
// ("model.name", "frame.rows") so that runs can be filtered by concern.

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator or transformer type.
	// Examples: "LinearRegression", "Ridge", "PolynomialFeatures"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "linear", "frame", "tutorial.explore"
	ComponentKey = "ml.component"

	// SolverKey names the numerical routine used to fit a model.
	SolverKey = "ml.solver"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// OutputFeaturesKey is the width produced by a feature expansion.
	OutputFeaturesKey = "data.output_features"
)

// Frame context
const (
	FrameRowsKey      = "frame.rows"
	FrameColumnsKey   = "frame.columns"
	FrameGroupKeysKey = "frame.group_keys"
	FramePathKey      = "frame.path"
)

// Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// MSEKey records the training mean squared error of a fitted model.
	MSEKey = "metrics.mse"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// CoefNormKey records the L2 norm of a coefficient vector.
	CoefNormKey = "metrics.coef_norm"

	// RankKey records the numerical rank of a design matrix.
	RankKey = "metrics.rank"
)

// Error and Warning Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "KeyError", "IndexError", "ColumnNotFoundError"
	ErrorTypeKey = "error.type"

	// ErrorDetailKey holds the structured fields of a typed error.
	ErrorDetailKey = "error.detail"
)

// Hyperparameters and Configuration
const (
	// DegreeKey records the polynomial degree of a pipeline.
	DegreeKey = "hyperparams.degree"

	// RegularizationKey records regularization strength (ridge alpha).
	RegularizationKey = "hyperparams.regularization"

	// FitInterceptKey records whether an intercept is fitted.
	FitInterceptKey = "hyperparams.fit_intercept"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// ConfigFileKey records which configuration file was loaded.
	ConfigFileKey = "config.file"
)

// Run context
const (
	// RunIDKey carries the unique identifier of one CLI invocation.
	RunIDKey = "run.id"

	// StepKey names a tutorial step.
	StepKey = "run.step"

	// OutputPathKey records a file written by the run.
	OutputPathKey = "run.output_path"
)

// Standard attribute value constants for common operations.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
	OperationLoad         = "load"
	OperationGroupBy      = "groupby"
	OperationPlot         = "plot"
)
