package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scigo-labs/tutorial/explore"
)

func newExploreCmd(a *app) *cobra.Command {
	var (
		dataPath string
		headRows int
	)
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Inspect, index, filter and group the gapminder table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("data") {
				a.cfg.DataPath = dataPath
			}
			if cmd.Flags().Changed("head") {
				a.cfg.HeadRows = headRows
			}
			report, err := explore.Run(cmd.Context(), a.cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			a.logger.Info("Run complete", "steps", len(report.Steps), "outputs", report.Outputs)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "path to the gapminder TSV (overrides config)")
	cmd.Flags().IntVar(&headRows, "head", 0, "rows shown by the first preview (overrides config)")
	return cmd
}
