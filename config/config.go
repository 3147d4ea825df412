// Package config loads scilab settings from defaults, a YAML file and the
// environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
)

// EnvPrefix is prepended to environment overrides, e.g. SCILAB_RIDGE_ALPHA.
const EnvPrefix = "SCILAB"

// DefaultFileName is searched for in the working directory and ~/.scilab.
const DefaultFileName = "scilab.yaml"

// Config holds every tunable of the two tutorials.
type Config struct {
	// explore
	DataPath   string `mapstructure:"data_path" yaml:"data_path"`
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
	HeadRows   int    `mapstructure:"head_rows" yaml:"head_rows"`
	SampleRows []int  `mapstructure:"sample_rows" yaml:"sample_rows"`

	// regularize
	RandomSeed  uint64  `mapstructure:"random_seed" yaml:"random_seed"`
	Degrees     []int   `mapstructure:"degrees" yaml:"degrees"`
	RidgeDegree int     `mapstructure:"ridge_degree" yaml:"ridge_degree"`
	RidgeAlpha  float64 `mapstructure:"ridge_alpha" yaml:"ridge_alpha"`
	CoefJSON    string  `mapstructure:"coef_json" yaml:"coef_json"`

	// output
	OutputDir    string  `mapstructure:"output_dir" yaml:"output_dir"`
	PlotWidthIn  float64 `mapstructure:"plot_width_in" yaml:"plot_width_in"`
	PlotHeightIn float64 `mapstructure:"plot_height_in" yaml:"plot_height_in"`
	LogLevel     string  `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    string  `mapstructure:"log_format" yaml:"log_format"`

	source string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataPath:     filepath.Join("data", "gapminder.tsv"),
		Delimiter:    "\t",
		HeadRows:     5,
		SampleRows:   []int{0, 99, 999},
		RandomSeed:   21,
		Degrees:      []int{2, 3, 5, 9},
		RidgeDegree:  9,
		RidgeAlpha:   0.01,
		OutputDir:    "out",
		PlotWidthIn:  8,
		PlotHeightIn: 6,
		LogLevel:     "info",
		LogFormat:    log.FormatConsole,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("data_path", d.DataPath)
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("head_rows", d.HeadRows)
	v.SetDefault("sample_rows", d.SampleRows)
	v.SetDefault("random_seed", d.RandomSeed)
	v.SetDefault("degrees", d.Degrees)
	v.SetDefault("ridge_degree", d.RidgeDegree)
	v.SetDefault("ridge_alpha", d.RidgeAlpha)
	v.SetDefault("coef_json", d.CoefJSON)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("plot_width_in", d.PlotWidthIn)
	v.SetDefault("plot_height_in", d.PlotHeightIn)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

// Load は設定を読み込む
//
// 優先順位: 環境変数 (SCILAB_*) > 設定ファイル > 既定値。
// cfgFile が空の場合は ./scilab.yaml と ~/.scilab/scilab.yaml を探し、
// 見つからなくてもエラーにしない。明示したファイルが無い場合はエラー。
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", cfgFile)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, filepath.Ext(DefaultFileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".scilab"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "config: read")
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	c.source = v.ConfigFileUsed()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Source returns the file the config was read from, or "" for defaults only.
func (c *Config) Source() string {
	return c.source
}

// Validate rejects settings the tutorials cannot run with.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return errors.NewValidationError("data_path", "must not be empty", c.DataPath)
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return errors.NewValidationError("delimiter", "must be a single character", c.Delimiter)
	}
	if c.HeadRows < 0 {
		return errors.NewValidationError("head_rows", "must be non-negative", c.HeadRows)
	}
	if len(c.SampleRows) == 0 {
		return errors.NewValidationError("sample_rows", "at least one row label is required", c.SampleRows)
	}
	if len(c.Degrees) == 0 {
		return errors.NewValidationError("degrees", "at least one degree is required", c.Degrees)
	}
	for _, d := range append(append([]int(nil), c.Degrees...), c.RidgeDegree) {
		if d < 1 || d > 20 {
			return errors.NewValidationError("degrees", "degree must be between 1 and 20", d)
		}
	}
	if c.RidgeAlpha < 0 {
		return errors.NewValidationError("ridge_alpha", "must be non-negative", c.RidgeAlpha)
	}
	if c.OutputDir == "" {
		return errors.NewValidationError("output_dir", "must not be empty", c.OutputDir)
	}
	if c.PlotWidthIn <= 0 || c.PlotHeightIn <= 0 {
		return errors.NewValidationError("plot_size", "width and height must be positive", [2]float64{c.PlotWidthIn, c.PlotHeightIn})
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case log.FormatJSON, log.FormatConsole:
	default:
		return errors.NewValidationError("log_format", "must be json or console", c.LogFormat)
	}
	return nil
}

// DelimiterRune returns the field separator as a rune.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Save writes c as YAML to path, creating parent directories.
func Save(c *Config, path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "config: resolve home dir")
		}
		path = filepath.Join(home, ".scilab", DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "config: mkdir")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "config: marshal yaml")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrap(err, "config: write")
	}
	return nil
}
