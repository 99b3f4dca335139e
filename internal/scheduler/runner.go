package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/netcollector/internal/domain"
	"github.com/hamed0406/netcollector/internal/repo"
)

// Roster is the part of the roster manager the runner needs.
type Roster interface {
	Current() []domain.Device
	Refresh(ctx context.Context) error
}

// BatchSubmitter ships the results of one sweep.
type BatchSubmitter interface {
	SubmitBatch(ctx context.Context, results []domain.ProbeResult) (bool, error)
}

type RunnerConfig struct {
	RefreshInterval time.Duration
	SweepInterval   time.Duration
}

// Runner drives the two periodic processes: roster refresh and monitoring
// sweeps. A sweep tick never waits for the previous sweep, so sweeps may
// overlap when a pass takes longer than the interval.
type Runner struct {
	Logger   *zap.Logger
	Roster   Roster
	Sweeper  *Sweeper
	Reporter BatchSubmitter
	Sweeps   repo.SweepStore // optional
	cfg      RunnerConfig

	inflight sync.WaitGroup
}

func NewRunner(
	logger *zap.Logger,
	roster Roster,
	sweeper *Sweeper,
	reporter BatchSubmitter,
	sweeps repo.SweepStore,
	cfg RunnerConfig,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Logger:   logger,
		Roster:   roster,
		Sweeper:  sweeper,
		Reporter: reporter,
		Sweeps:   sweeps,
		cfg:      cfg,
	}
}

// Run blocks until ctx is cancelled, then waits for in-flight sweeps.
// The first sweep starts immediately; the first refresh happens after one
// refresh interval since the roster was just resolved at startup.
func (r *Runner) Run(ctx context.Context) {
	var loops sync.WaitGroup
	loops.Add(2)
	go func() {
		defer loops.Done()
		r.refreshLoop(ctx)
	}()
	go func() {
		defer loops.Done()
		r.sweepLoop(ctx)
	}()
	loops.Wait()
	r.inflight.Wait()
	r.Logger.Info("runner_stopped")
}

func (r *Runner) refreshLoop(ctx context.Context) {
	if r.cfg.RefreshInterval <= 0 {
		r.Logger.Info("roster_refresh_disabled")
		return
	}
	t := time.NewTicker(r.cfg.RefreshInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			// errors are logged by the roster manager
			_ = r.Roster.Refresh(ctx)
		}
	}
}

func (r *Runner) sweepLoop(ctx context.Context) {
	if r.cfg.SweepInterval <= 0 {
		r.Logger.Info("sweeps_disabled")
		return
	}
	t := time.NewTicker(r.cfg.SweepInterval)
	defer t.Stop()

	// immediate pass
	r.startSweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.startSweep(ctx)
		}
	}
}

// startSweep captures the current roster and sweeps it in the background.
func (r *Runner) startSweep(ctx context.Context) {
	devices := r.Roster.Current()
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		r.SweepOnce(ctx, devices)
	}()
}

// SweepOnce probes devices, submits the batch and records a summary.
func (r *Runner) SweepOnce(ctx context.Context, devices []domain.Device) domain.Sweep {
	sw := domain.Sweep{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Devices:   len(devices),
	}
	log := r.Logger.With(zap.String("sweep_id", sw.ID))
	log.Debug("sweep_started", zap.Int("devices", len(devices)))

	results := r.Sweeper.Run(ctx, devices)
	sw.Results = len(results)

	sent, err := r.Reporter.SubmitBatch(ctx, results)
	sw.Reported = sent
	if err != nil {
		sw.ReportError = err.Error()
	}
	sw.FinishedAt = time.Now().UTC()

	if r.Sweeps != nil {
		if err := r.Sweeps.Record(ctx, sw); err != nil {
			log.Warn("sweep_record_error", zap.Error(err))
		}
	}
	log.Info("sweep_done",
		zap.Int("devices", sw.Devices),
		zap.Int("results", sw.Results),
		zap.Bool("reported", sw.Reported),
		zap.Duration("took", sw.FinishedAt.Sub(sw.StartedAt)),
	)
	return sw
}

func recoverInto(err *error) {
	if rec := recover(); rec != nil {
		*err = fmt.Errorf("panic: %v", rec)
	}
}
