package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hamed0406/netcollector/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the effective configuration",
	Long: `Load the config file (if any) plus environment overrides and report
problems without starting anything.

Exit codes:
  0 - config is usable (warnings may be printed)
  1 - config is invalid`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	ok := func(msg string) { fmt.Fprintln(out, "✔", msg) }
	warn := func(msg string) { fmt.Fprintln(errOut, "⚠", msg) }

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		var multi interface{ Unwrap() []error }
		if errors.As(err, &multi) {
			for _, e := range multi.Unwrap() {
				fmt.Fprintln(errOut, "✖", e)
			}
		}
		return errors.New("config check failed")
	}

	ok("roster      " + strings.TrimRight(cfg.APIBase, "/") + "/devices.json")
	ok("collector   " + strings.TrimRight(cfg.CollectorBase, "/") + "/server.php")
	ok("cache       " + cfg.CachePath)
	ok(fmt.Sprintf("probes      max=%d timeout=%s snmp=v%s:%d retries=%d",
		cfg.MaxConcurrentProbes, cfg.ProbeTimeout, strings.TrimPrefix(cfg.SNMPVersion, "v"), cfg.SNMPPort, cfg.SNMPRetries))
	ok(fmt.Sprintf("intervals   sweep=%s refresh=%s", cfg.SweepInterval, cfg.RefreshInterval))

	if cfg.StatusAddr == "" {
		warn("STATUS_ADDR empty; status API disabled.")
	} else {
		ok("status API  " + cfg.StatusAddr)
	}
	if !cfg.ICMPPrivileged {
		warn("ICMP_PRIVILEGED=false; unprivileged ping needs net.ipv4.ping_group_range on Linux.")
	}
	if cfg.SweepInterval < cfg.ProbeTimeout {
		warn("sweep interval is shorter than the probe timeout; sweeps will overlap.")
	}

	ok("config is valid")
	return nil
}
