package model

import "gonum.org/v1/gonum/mat"

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// FeatureNamer は出力特徴量の名前を返す変換器のインターフェース
type FeatureNamer interface {
	// FeatureNames は入力列名から出力列名を生成する。nil の場合は x0, x1, ... を使う
	FeatureNames(inputNames []string) ([]string, error)
}
