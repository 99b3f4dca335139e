package probe

import (
	"context"
	"sync"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"

	"github.com/hamed0406/netcollector/internal/domain"
)

// echoer is the subset of *probing.Pinger the ICMP prober drives.
type echoer interface {
	Run() error
	Stop()
	Statistics() *probing.Statistics
}

// ICMPPinger sends a single echo request per call. All failures collapse
// into domain.Unreachable; nothing is returned as an error.
type ICMPPinger struct {
	Logger     *zap.Logger
	Timeout    time.Duration
	Privileged bool

	newEchoer  func(host string) (echoer, error)
	socketWarn sync.Once
}

func NewICMPPinger(logger *zap.Logger, timeout time.Duration, privileged bool) *ICMPPinger {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &ICMPPinger{Logger: logger, Timeout: timeout, Privileged: privileged}
	p.newEchoer = p.probingEchoer
	return p
}

func (p *ICMPPinger) probingEchoer(host string) (echoer, error) {
	pg, err := probing.NewPinger(host)
	if err != nil {
		return nil, err
	}
	pg.Count = 1
	pg.Timeout = p.Timeout
	pg.SetPrivileged(p.Privileged)
	return pg, nil
}

// Mode names the socket type in use: "privileged" (raw ICMP) or
// "unprivileged" (UDP ping, gated by net.ipv4.ping_group_range on Linux).
func (p *ICMPPinger) Mode() string {
	if p.Privileged {
		return "privileged"
	}
	return "unprivileged"
}

func (p *ICMPPinger) Ping(ctx context.Context, host string) (out domain.ICMPData) {
	defer func() {
		if rec := recover(); rec != nil {
			p.Logger.Warn("icmp_panic", zap.String("host", host), zap.Any("panic", rec))
			out = domain.Unreachable()
		}
	}()

	e, err := p.newEchoer(host)
	if err != nil {
		p.Logger.Debug("icmp_setup_error", zap.String("host", host), zap.Error(err))
		return domain.Unreachable()
	}

	done := make(chan error, 1)
	go func() { done <- e.Run() }()

	select {
	case err = <-done:
	case <-ctx.Done():
		e.Stop()
		<-done
		p.Logger.Debug("icmp_cancelled", zap.String("host", host), zap.Error(ctx.Err()))
		return domain.Unreachable()
	}
	if err != nil {
		// Run only fails on socket setup (permissions, ping_group_range),
		// which affects every host alike.
		warned := false
		p.socketWarn.Do(func() {
			warned = true
			p.Logger.Warn("icmp_socket_error",
				zap.String("host", host),
				zap.String("mode", p.Mode()),
				zap.Error(err),
			)
		})
		if !warned {
			p.Logger.Debug("icmp_error", zap.String("host", host), zap.Error(err))
		}
		return domain.Unreachable()
	}

	stats := e.Statistics()
	if stats == nil || stats.PacketsRecv == 0 {
		return domain.Unreachable()
	}
	return domain.Latency(float64(stats.AvgRtt) / float64(time.Millisecond))
}
