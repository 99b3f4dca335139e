// Package probe wraps the two acquisition capabilities the collector uses:
// SNMP GET over UDP and ICMP echo.
package probe

import (
	"context"
	"errors"

	"github.com/hamed0406/netcollector/internal/domain"
)

var (
	// ErrSNMP marks a single failed SNMP attempt (transport, timeout or
	// protocol error).
	ErrSNMP = errors.New("snmp request failed")

	// ErrRetryExhausted is returned once every SNMP attempt has failed.
	ErrRetryExhausted = errors.New("snmp retries exhausted")
)

// SNMPGetter fetches the values of the given OIDs from host. Keys of the
// returned map are dotted OIDs without a leading dot.
type SNMPGetter interface {
	Get(ctx context.Context, host, community string, oids []string) (map[string]any, error)
}

// Pinger sends an echo request to host. It never fails: an unreachable host
// is reported through the sentinel latency.
type Pinger interface {
	Ping(ctx context.Context, host string) domain.ICMPData
}

// SNMPGetterFunc adapts a function to SNMPGetter.
type SNMPGetterFunc func(ctx context.Context, host, community string, oids []string) (map[string]any, error)

func (f SNMPGetterFunc) Get(ctx context.Context, host, community string, oids []string) (map[string]any, error) {
	return f(ctx, host, community, oids)
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context, host string) domain.ICMPData

func (f PingerFunc) Ping(ctx context.Context, host string) domain.ICMPData {
	return f(ctx, host)
}
