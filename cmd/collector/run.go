package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/netcollector/internal/httpapi"
)

const (
	shutdownTimeout = 10 * time.Second
	statusRPM       = 120
	statusBurst     = 60
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the collector daemon",
	Long: `Resolve the device roster (remote, then local cache), then refresh it
and sweep it on their configured intervals until interrupted.

When STATUS_ADDR (or status_addr) is set, a small status API is served
alongside.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	devices := a.roster.ResolveInitial(ctx)
	a.logger.Info("collector_start",
		zap.Int("devices", len(devices)),
		zap.Int("max_concurrent", a.cfg.MaxConcurrentProbes),
		zap.String("icmp_mode", a.pingMode),
		zap.Duration("sweep_interval", a.cfg.SweepInterval),
		zap.Duration("refresh_interval", a.cfg.RefreshInterval),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.runner.Run(gctx)
		return nil
	})
	if a.cfg.StatusAddr != "" {
		srv := &http.Server{
			Addr:              a.cfg.StatusAddr,
			Handler:           httpapi.NewServer(a.logger, a.roster, a.sweeps).Router(statusRPM, statusBurst),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			a.logger.Info("status_listen", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	err = g.Wait()
	a.logger.Info("collector_stopped", zap.Error(err))
	return err
}
