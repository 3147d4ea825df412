package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/scigo-labs/config"
	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or write scilab configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if src := a.cfg.Source(); src != "" {
				fmt.Fprintf(out, "# source: %s\n", src)
			}
			b, err := yaml.Marshal(a.cfg)
			if err != nil {
				return errors.Wrap(err, "config: marshal yaml")
			}
			_, err = out.Write(b)
			return err
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration (default ~/.scilab/scilab.yaml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				home, err := os.UserHomeDir()
				if err != nil {
					return errors.Wrap(err, "config: resolve home dir")
				}
				path = filepath.Join(home, ".scilab", config.DefaultFileName)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Newf("config: %s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}
