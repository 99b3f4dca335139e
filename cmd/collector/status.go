package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/netcollector/internal/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest sweep of a running collector",
	Long: `Query a running collector's status API and print its latest sweep.

Example:
  collector status --addr http://localhost:9090`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().String("addr", "http://localhost:9090", "status API base URL")
}

func runStatus(cmd *cobra.Command, args []string) error {
	base, _ := cmd.Flags().GetString("addr")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, strings.TrimRight(base, "/")+"/api/sweeps/latest", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("contacting collector: %w", err)
	}
	defer resp.Body.Close()

	out := cmd.OutOrStdout()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		fmt.Fprintln(out, "no sweep has completed yet")
		return nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("status API returned %s", resp.Status)
	}

	var sw domain.Sweep
	if err := json.NewDecoder(resp.Body).Decode(&sw); err != nil {
		return fmt.Errorf("decoding sweep: %w", err)
	}
	reported := "yes"
	if !sw.Reported {
		reported = "no"
		if sw.ReportError != "" {
			reported += " (" + sw.ReportError + ")"
		}
	}
	fmt.Fprintf(out, "sweep    %s\n", sw.ID)
	fmt.Fprintf(out, "finished %s (took %s)\n", sw.FinishedAt.Format(time.RFC3339), sw.FinishedAt.Sub(sw.StartedAt))
	fmt.Fprintf(out, "devices  %d probed, %d results\n", sw.Devices, sw.Results)
	fmt.Fprintf(out, "reported %s\n", reported)
	return nil
}
