package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scigo-labs/config"
	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	return home
}

func TestConfigInitAndShow(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "conf", "scilab.yaml")

	out, _, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	require.FileExists(t, path)

	_, _, err = execute(t, "config", "init", path)
	assert.Error(t, err)
	_, _, err = execute(t, "config", "init", path, "--force")
	assert.NoError(t, err)

	out, _, err = execute(t, "config", "show", "--config", path, "--output-dir", "figures")
	require.NoError(t, err)
	assert.Contains(t, out, "# source: "+path)
	assert.Contains(t, out, "ridge_alpha: 0.01")
	assert.Contains(t, out, "output_dir: figures")
}

func TestConfigInitDefaultPath(t *testing.T) {
	home := isolate(t)

	_, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, ".scilab", config.DefaultFileName))
}

func TestRegularize(t *testing.T) {
	isolate(t)
	outDir := t.TempDir()
	coef := filepath.Join(outDir, "coef.json")

	out, logs, err := execute(t, "regularize",
		"--output-dir", outDir,
		"--coef-json", coef,
		"--degrees", "2,9",
		"--log-format", "json",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "== ridge_fit ==")
	assert.FileExists(t, coef)
	assert.Contains(t, logs, `"run.id":"`)
	assert.Contains(t, logs, "Run complete")
}

func TestExplore(t *testing.T) {
	data, err := filepath.Abs(filepath.Join("..", "..", "frame", "testdata", "gapminder_small.tsv"))
	require.NoError(t, err)
	isolate(t)

	cfg := config.Default()
	cfg.DataPath = data
	cfg.SampleRows = []int{0, 12, 47}
	cfg.OutputDir = t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "scilab.yaml")
	require.NoError(t, config.Save(cfg, cfgPath))

	out, _, err := execute(t, "explore", "--config", cfgPath, "--head", "3", "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "== plot_life_expectancy ==")
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "life_expectancy.png"))
}

func TestWarningsCarryRunID(t *testing.T) {
	isolate(t)
	defer errors.SetZerologWarnFunc(nil)

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs([]string{"config", "show", "--log-format", "json"})
	require.NoError(t, root.Execute())

	errors.Warn(errors.NewIllConditionedWarning("lstsq", 0, 3, 10))
	var line string
	for _, l := range strings.Split(stderr.String(), "\n") {
		if strings.Contains(l, "rank deficient") {
			line = l
		}
	}
	require.NotEmpty(t, line, "warning not logged: %s", stderr.String())
	assert.Contains(t, line, `"run.id":"`)
}

func TestInvalidLogLevel(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "config", "show", "--log-level", "loud")
	assert.Error(t, err)
}

func TestMissingConfigFile(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "config", "show", "--config", filepath.Join(os.TempDir(), "scilab-missing.yaml"))
	assert.Error(t, err)
}
