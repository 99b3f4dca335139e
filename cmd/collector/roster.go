package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Resolve and print the device roster",
	Long: `Fetch the roster from the API (falling back to the local cache) and
print it as JSON. A successful fetch also refreshes the cache file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		devices := a.roster.ResolveInitial(cmd.Context())
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(devices)
	},
}

func init() {
	rootCmd.AddCommand(rosterCmd)
}
