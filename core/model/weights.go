package model

import (
	"encoding/json"
	"os"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

// WeightsVersion is written into every exported ModelWeights.
const WeightsVersion = "1"

// ModelWeights はモデルの重みを表す構造体（シリアライゼーション用）
type ModelWeights struct {
	// ModelType はモデルの種類（LinearRegression, Ridge 等）
	ModelType string `json:"model_type"`

	// Version は書き出し形式のバージョン
	Version string `json:"version"`

	// Coefficients は重み係数
	Coefficients []float64 `json:"coefficients"`

	// Intercept は切片
	Intercept float64 `json:"intercept"`

	// Features は特徴量の名前（オプション）
	Features []string `json:"features,omitempty"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata は追加のメタデータ（学習時の MSE 等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	IsFitted bool `json:"is_fitted"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "decode model weights")
	}
	return mw.Validate()
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}
	if mw.Version == "" {
		return errors.NewValidationError("version", "is required", mw.Version)
	}
	if !mw.IsFitted && len(mw.Coefficients) > 0 {
		return errors.NewValidationError("coefficients", "unfitted model should not have coefficients", len(mw.Coefficients))
	}
	if mw.IsFitted && len(mw.Coefficients) == 0 {
		return errors.NewValidationError("coefficients", "fitted model must have coefficients", 0)
	}
	if len(mw.Features) > 0 && len(mw.Features) != len(mw.Coefficients) {
		return errors.NewValidationError("features", "length must match coefficients", len(mw.Features))
	}
	return nil
}

// WeightsSet groups the weights of several models under a name each,
// e.g. "ols_degree_9" and "ridge_degree_9".
type WeightsSet map[string]*ModelWeights

// WriteFile validates every entry and writes the set as indented JSON.
func (s WeightsSet) WriteFile(path string) error {
	raw := make(map[string]json.RawMessage, len(s))
	for name, mw := range s {
		if err := mw.Validate(); err != nil {
			return errors.Wrapf(err, "weights %q", name)
		}
		b, err := mw.ToJSON()
		if err != nil {
			return errors.Wrapf(err, "encode weights %q", name)
		}
		raw[name] = b
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode weights set")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write weights set to %s", path)
	}
	return nil
}

// ReadWeightsSetFile loads a set written by WeightsSet.WriteFile.
func ReadWeightsSetFile(path string) (WeightsSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read weights set from %s", path)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode weights set")
	}
	s := make(WeightsSet, len(raw))
	for name, b := range raw {
		mw := &ModelWeights{}
		if err := mw.FromJSON(b); err != nil {
			return nil, errors.Wrapf(err, "weights %q", name)
		}
		s[name] = mw
	}
	return s, nil
}
