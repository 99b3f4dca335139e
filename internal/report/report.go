// Package report ships sweep results to the remote collector.
package report

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/netcollector/internal/domain"
)

var ErrReport = errors.New("batch report failed")

// Sender delivers one batch.
type Sender interface {
	Send(ctx context.Context, results []domain.ProbeResult) error
}

// Reporter submits the results of one sweep as a single batch. Failures are
// logged and dropped: there is no retry and nothing is queued.
type Reporter struct {
	Logger *zap.Logger
	Sender Sender
}

func NewReporter(logger *zap.Logger, sender Sender) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{Logger: logger, Sender: sender}
}

// SubmitBatch sends results in one request. An empty batch is not sent and
// reports sent=false. The returned error is informational only.
func (r *Reporter) SubmitBatch(ctx context.Context, results []domain.ProbeResult) (sent bool, err error) {
	if len(results) == 0 {
		r.Logger.Debug("report_skipped_empty")
		return false, nil
	}

	start := time.Now()
	if err := r.Sender.Send(ctx, results); err != nil {
		r.Logger.Error("report_failed",
			zap.Int("results", len(results)),
			zap.Error(err),
		)
		return false, err
	}
	r.Logger.Info("report_sent",
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(start)),
	)
	return true, nil
}
