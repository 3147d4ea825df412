package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer はスコアを計算できるモデルのインターフェース
type Scorer interface {
	// Score は予測の決定係数 R^2 を返す
	Score(X, y mat.Matrix) (float64, error)
}

// Estimator は教師あり学習モデルの基本インターフェース
type Estimator interface {
	Fitter
	Predictor
}

// Regressor は回帰モデルのインターフェース
type Regressor interface {
	Estimator
	Scorer
}

// LinearModel は線形モデルのインターフェース
type LinearModel interface {
	Regressor
	// Coef は学習された係数を返す
	Coef() []float64
	// Intercept は学習された切片を返す
	Intercept() float64
}

// ParamsGetter はハイパーパラメータを公開するモデルのインターフェース
type ParamsGetter interface {
	GetParams() map[string]interface{}
}

// WeightsExporter は学習済みの重みを書き出せるモデルのインターフェース
type WeightsExporter interface {
	ExportWeights() (*ModelWeights, error)
}
