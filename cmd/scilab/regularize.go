package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scigo-labs/tutorial/regularization"
)

func newRegularizeCmd(a *app) *cobra.Command {
	var (
		coefJSON string
		seed     uint64
		alpha    float64
		degrees  []int
	)
	cmd := &cobra.Command{
		Use:   "regularize",
		Short: "Fit polynomials to a noisy sine and compare least squares with ridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			if f.Changed("coef-json") {
				a.cfg.CoefJSON = coefJSON
			}
			if f.Changed("seed") {
				a.cfg.RandomSeed = seed
			}
			if f.Changed("alpha") {
				a.cfg.RidgeAlpha = alpha
			}
			if f.Changed("degrees") {
				a.cfg.Degrees = degrees
			}
			report, err := regularization.Run(cmd.Context(), a.cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			a.logger.Info("Run complete", "steps", len(report.Steps), "outputs", report.Outputs)
			return nil
		},
	}
	cmd.Flags().StringVar(&coefJSON, "coef-json", "", "write fitted coefficients of every model to this JSON file")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "noise seed (overrides config)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "ridge regularization strength (overrides config)")
	cmd.Flags().IntSliceVar(&degrees, "degrees", nil, "least squares degrees, e.g. 2,3,5,9 (overrides config)")
	return cmd
}
