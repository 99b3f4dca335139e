package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Probe the roster once and print the results",
	Long: `Resolve the roster, run a single sweep and print the results as JSON.
With --report the batch is also posted to the collector endpoint.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().Bool("report", false, "post the results to the collector endpoint")
}

func runSweep(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	devices := a.roster.ResolveInitial(ctx)
	results := a.sweeper.Run(ctx, devices)

	if report, _ := cmd.Flags().GetBool("report"); report {
		if _, err := a.reporter.SubmitBatch(ctx, results); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
