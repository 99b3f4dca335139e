package repo

import (
	"context"

	"github.com/hamed0406/netcollector/internal/domain"
)

// SweepStore keeps summaries of recent sweeps for the status API. It is not
// a history of results; implementations may drop old entries.
type SweepStore interface {
	Record(ctx context.Context, s domain.Sweep) error
	// Latest returns nil, nil when nothing has been recorded yet.
	Latest(ctx context.Context) (*domain.Sweep, error)
	// Recent returns up to n summaries, newest first.
	Recent(ctx context.Context, n int) ([]domain.Sweep, error)
}
