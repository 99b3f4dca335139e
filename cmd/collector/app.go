package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/netcollector/internal/config"
	"github.com/hamed0406/netcollector/internal/logging"
	"github.com/hamed0406/netcollector/internal/probe"
	"github.com/hamed0406/netcollector/internal/repo/memory"
	"github.com/hamed0406/netcollector/internal/report"
	"github.com/hamed0406/netcollector/internal/roster"
	"github.com/hamed0406/netcollector/internal/scheduler"
)

const sweepHistory = 100

// app holds the wired components shared by run, sweep and roster.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	roster   *roster.Manager
	sweeper  *scheduler.Sweeper
	reporter *report.Reporter
	sweeps   *memory.Store
	runner   *scheduler.Runner
	pingMode string
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	snmp, err := probe.NewSNMPClient(cfg.SNMPPort, cfg.SNMPVersion, cfg.ProbeTimeout)
	if err != nil {
		return nil, err
	}
	retrier := probe.NewRetrier(snmp, cfg.SNMPRetries, cfg.SNMPRetryBackoff, logger)
	pinger := probe.NewICMPPinger(logger, cfg.ProbeTimeout, cfg.ICMPPrivileged)

	a := &app{
		cfg:    cfg,
		logger: logger,
		roster: roster.NewManager(logger,
			roster.NewHTTPSource(cfg.APIBase, cfg.HTTPTimeout),
			roster.NewFileCache(cfg.CachePath),
		),
		sweeper:  scheduler.NewSweeper(logger, retrier, pinger, cfg.ProbeTimeout, cfg.MaxConcurrentProbes),
		reporter: report.NewReporter(logger, report.NewCollector(cfg.CollectorBase, cfg.HTTPTimeout)),
		sweeps:   memory.New(sweepHistory),
		pingMode: pinger.Mode(),
	}
	a.runner = scheduler.NewRunner(logger, a.roster, a.sweeper, a.reporter, a.sweeps, scheduler.RunnerConfig{
		RefreshInterval: cfg.RefreshInterval,
		SweepInterval:   cfg.SweepInterval,
	})
	return a, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
