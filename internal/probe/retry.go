// internal/probe/retry.go
package probe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/netcollector/internal/domain"
)

// Retrier adds bounded retries around an SNMPGetter. With Retries=3 a call
// makes at most four attempts. Backoff is zero by default, so retries fire
// back to back.
type Retrier struct {
	Inner   SNMPGetter
	Retries int
	Backoff time.Duration
	Logger  *zap.Logger
}

func NewRetrier(inner SNMPGetter, retries int, backoff time.Duration, logger *zap.Logger) *Retrier {
	if retries < 0 {
		retries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrier{Inner: inner, Retries: retries, Backoff: backoff, Logger: logger}
}

func (r *Retrier) Get(ctx context.Context, host, community string, oids []string) (map[string]any, error) {
	var last error
	for remaining := r.Retries; ; remaining-- {
		data, err := r.Inner.Get(ctx, host, community, oids)
		if err == nil {
			return data, nil
		}
		last = err
		if remaining <= 0 || ctx.Err() != nil {
			break
		}
		r.Logger.Info("snmp_retry",
			zap.String("host", host),
			zap.Int("remaining", remaining),
			zap.Error(err),
		)
		if r.Backoff > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w for %s: %w", ErrRetryExhausted, host, last)
			case <-time.After(r.Backoff):
			}
		}
	}
	return nil, fmt.Errorf("%w for %s: %w", ErrRetryExhausted, host, last)
}

// Probe returns the SNMP values for d. Devices without SNMP configuration
// get an empty map and no request is made.
func (r *Retrier) Probe(ctx context.Context, d domain.Device) (map[string]any, error) {
	if !d.HasSNMP() {
		return map[string]any{}, nil
	}
	return r.Get(ctx, d.IP, d.SNMPCommunity, d.SNMPOIDs)
}
