package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/netcollector/internal/domain"
	"github.com/hamed0406/netcollector/internal/probe"
)

// SNMPProber returns the SNMP values of one device; an empty map when the
// device has no SNMP configuration.
type SNMPProber interface {
	Probe(ctx context.Context, d domain.Device) (map[string]any, error)
}

// Sweeper probes a roster with at most Concurrency devices in flight.
type Sweeper struct {
	Logger      *zap.Logger
	SNMP        SNMPProber
	ICMP        probe.Pinger
	Timeout     time.Duration
	Concurrency int

	now func() time.Time
}

func NewSweeper(
	logger *zap.Logger,
	snmp SNMPProber,
	icmp probe.Pinger,
	timeout time.Duration,
	concurrency int,
) *Sweeper {
	if concurrency < 1 {
		concurrency = 1
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		Logger:      logger,
		SNMP:        snmp,
		ICMP:        icmp,
		Timeout:     timeout,
		Concurrency: concurrency,
		now:         time.Now,
	}
}

// Run probes every device and returns the results it could assemble, in
// completion order. Devices not yet started when ctx ends are skipped. The
// result is never nil so an empty sweep encodes as [].
func (s *Sweeper) Run(ctx context.Context, devices []domain.Device) []domain.ProbeResult {
	if len(devices) == 0 {
		return []domain.ProbeResult{}
	}

	var (
		g       errgroup.Group
		mu      sync.Mutex
		results = make([]domain.ProbeResult, 0, len(devices))
	)
	g.SetLimit(s.Concurrency)

	for _, d := range devices {
		if ctx.Err() != nil {
			s.Logger.Info("sweep_interrupted", zap.Error(ctx.Err()))
			break
		}
		d := d // per-iteration copy; go directive lowered to 1.21 for the local toolchain
		g.Go(func() error {
			res, ok := s.probeDevice(ctx, d)
			if !ok {
				return nil
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// probeDevice runs SNMP and ICMP for one device side by side. ok is false
// only when a probe blew up outright; an SNMP error just leaves snmpData
// empty.
func (s *Sweeper) probeDevice(ctx context.Context, d domain.Device) (res domain.ProbeResult, ok bool) {
	var (
		snmpData map[string]any
		icmpData domain.ICMPData
		g        errgroup.Group
	)

	g.Go(func() (err error) {
		defer recoverInto(&err)
		data, perr := s.SNMP.Probe(ctx, d)
		if perr != nil {
			s.Logger.Warn("snmp_failed", zap.String("host", d.IP), zap.Error(perr))
			data = nil
		}
		snmpData = data
		return nil
	})

	g.Go(func() (err error) {
		defer recoverInto(&err)
		cctx, cancel := context.WithTimeout(ctx, s.Timeout)
		defer cancel()
		icmpData = s.ICMP.Ping(cctx, d.IP)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.Logger.Error("probe_device_failed", zap.String("host", d.IP), zap.Error(err))
		return domain.ProbeResult{}, false
	}

	if snmpData == nil {
		snmpData = map[string]any{}
	}
	res = domain.ProbeResult{
		Host:      d.IP,
		SNMPData:  snmpData,
		ICMPData:  icmpData,
		Timestamp: s.now().UTC(),
	}
	s.Logger.Debug("probe_device_done",
		zap.String("host", d.IP),
		zap.Int("snmp_values", len(snmpData)),
		zap.Bool("alive", icmpData.Alive()),
	)
	return res, true
}
