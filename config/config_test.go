package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Degrees, c.Degrees)
	assert.Equal(t, 0.01, c.RidgeAlpha)
	assert.Equal(t, uint64(21), c.RandomSeed)
	assert.Equal(t, '\t', c.DelimiterRune())
	assert.Empty(t, c.Source())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := "ridge_alpha: 0.5\ndegrees: [1, 4]\noutput_dir: figures\nlog_format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, c.RidgeAlpha)
	assert.Equal(t, []int{1, 4}, c.Degrees)
	assert.Equal(t, "figures", c.OutputDir)
	assert.Equal(t, path, c.Source())
	assert.Equal(t, 5, c.HeadRows, "unset keys keep their defaults")

	t.Setenv("SCILAB_RIDGE_ALPHA", "2.5")
	t.Setenv("SCILAB_RANDOM_SEED", "7")
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.RidgeAlpha)
	assert.Equal(t, uint64(7), c.RandomSeed)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ridge_alpha: -1\n"), 0o644))

	_, err := Load(path)
	var valErr *errors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "ridge_alpha", valErr.ParamName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data path", func(c *Config) { c.DataPath = "" }},
		{"long delimiter", func(c *Config) { c.Delimiter = ",;" }},
		{"negative head", func(c *Config) { c.HeadRows = -1 }},
		{"no degrees", func(c *Config) { c.Degrees = nil }},
		{"zero degree", func(c *Config) { c.Degrees = []int{0} }},
		{"huge ridge degree", func(c *Config) { c.RidgeDegree = 50 }},
		{"plot size", func(c *Config) { c.PlotWidthIn = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	c := Default()
	c.RidgeAlpha = 0.1
	c.Degrees = []int{3, 9}
	require.NoError(t, Save(c, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.1, loaded.RidgeAlpha)
	assert.Equal(t, []int{3, 9}, loaded.Degrees)
	assert.Equal(t, "\t", loaded.Delimiter)
}
