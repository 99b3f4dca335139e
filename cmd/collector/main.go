// Package main is the entry point for the collector CLI.
//
// Usage:
//
//	collector run -c collector.toml    # start the daemon
//	collector sweep --report           # probe the roster once
//	collector roster                   # print the resolved roster
//	collector status --addr :9090      # query a running daemon
//	collector validate -c collector.toml
//	collector version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "collector",
	Short: "SNMP/ICMP network device collector",
	Long: `collector periodically fetches a device roster, probes every device
over SNMP and ICMP with bounded concurrency, and posts each sweep's results
to a collector endpoint.

Configuration comes from an optional TOML or YAML file (--config) with
environment variables taking precedence.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "collector %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to a .toml or .yaml config file")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}
