package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scigo-labs/config"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
	"github.com/YuminosukeSato/scigo-labs/tutorial"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	// Global flags (override config when set)
	cfgFile   string
	logLevel  string
	logFormat string
	outputDir string

	cfg    *config.Config
	logger log.Logger
	runID  string
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}

	root := &cobra.Command{
		Use:   "scilab",
		Short: "Tabular exploration and polynomial regularization walkthroughs",
		Long: `scilab runs two walkthroughs: "explore" inspects, slices, filters and groups the
gapminder table, "regularize" fits polynomials of increasing degree to a noisy
sine sample and compares least squares with ridge regression.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default is ./scilab.yaml or ~/.scilab/scilab.yaml)")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	f.StringVar(&a.logFormat, "log-format", "", "log format: console or json (overrides config)")
	f.StringVar(&a.outputDir, "output-dir", "", "directory for figures (overrides config)")

	root.AddCommand(
		newExploreCmd(a),
		newRegularizeCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup loads configuration, applies flag overrides and installs the
// logger tagged with a fresh run ID.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("log-level") {
		c.LogLevel = a.logLevel
	}
	if f.Changed("log-format") {
		c.LogFormat = a.logFormat
	}
	if f.Changed("output-dir") {
		c.OutputDir = a.outputDir
	}
	a.cfg = c

	logger, err := log.SetupLogger(a.stderr, c.LogLevel, c.LogFormat)
	if err != nil {
		return err
	}
	a.runID = tutorial.NewRunID()
	a.logger = logger.With(log.RunIDKey, a.runID)
	log.SetLogger(a.logger)
	log.RouteWarnings(a.logger)

	if src := c.Source(); src != "" {
		a.logger.Debug("Config loaded", log.ConfigFileKey, src)
	}
	cmd.SetContext(tutorial.WithRunID(cmd.Context(), a.runID))
	return nil
}
