package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeEchoer struct {
	runErr error
	stats  *probing.Statistics
	block  chan struct{}
}

func (f *fakeEchoer) Run() error {
	if f.block != nil {
		<-f.block
	}
	return f.runErr
}

func (f *fakeEchoer) Stop() {
	if f.block != nil {
		close(f.block)
	}
}

func (f *fakeEchoer) Statistics() *probing.Statistics { return f.stats }

func pingerWith(e echoer, setupErr error) *ICMPPinger {
	p := NewICMPPinger(nil, time.Second, false)
	p.newEchoer = func(string) (echoer, error) {
		if setupErr != nil {
			return nil, setupErr
		}
		return e, nil
	}
	return p
}

func TestICMPPinger_ReportsAverageRTT(t *testing.T) {
	p := pingerWith(&fakeEchoer{stats: &probing.Statistics{PacketsRecv: 1, AvgRtt: 5 * time.Millisecond}}, nil)
	out := p.Ping(context.Background(), "10.0.0.1")
	if !out.Alive() || *out.LatencyMS != 5 {
		t.Fatalf("want 5ms, got %+v", out)
	}
}

func TestICMPPinger_FailuresDegradeToSentinel(t *testing.T) {
	cases := map[string]*ICMPPinger{
		"setup":    pingerWith(nil, errors.New("lookup failed")),
		"run":      pingerWith(&fakeEchoer{runErr: errors.New("socket: permission denied")}, nil),
		"no_reply": pingerWith(&fakeEchoer{stats: &probing.Statistics{PacketsSent: 1}}, nil),
	}
	for name, p := range cases {
		if out := p.Ping(context.Background(), "10.0.0.9"); out.Alive() {
			t.Fatalf("%s: want sentinel, got %+v", name, out)
		}
	}
}

func TestICMPPinger_CancelledContextStopsEcho(t *testing.T) {
	p := pingerWith(&fakeEchoer{block: make(chan struct{})}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if out := p.Ping(ctx, "10.0.0.9"); out.Alive() {
		t.Fatalf("want sentinel on cancel, got %+v", out)
	}
}

func TestICMPPinger_SocketErrorWarnsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := pingerWith(&fakeEchoer{runErr: errors.New("socket: permission denied")}, nil)
	p.Logger = zap.New(core)

	for _, host := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		if out := p.Ping(context.Background(), host); out.Alive() {
			t.Fatalf("%s: want sentinel, got %+v", host, out)
		}
	}

	warns := logs.FilterMessage("icmp_socket_error").FilterLevelExact(zapcore.WarnLevel).All()
	if len(warns) != 1 {
		t.Fatalf("want exactly one warn entry, got %d (all: %+v)", len(warns), logs.All())
	}
	ctx := warns[0].ContextMap()
	if ctx["mode"] != "unprivileged" || ctx["error"] != "socket: permission denied" {
		t.Fatalf("unexpected fields: %+v", ctx)
	}
}

func TestICMPPinger_NoReplyIsNotWarned(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := pingerWith(&fakeEchoer{stats: &probing.Statistics{PacketsSent: 1}}, nil)
	p.Logger = zap.New(core)

	p.Ping(context.Background(), "10.0.0.9")
	if n := logs.Len(); n != 0 {
		t.Fatalf("silent host should not log at info+, got %+v", logs.All())
	}
}

func TestICMPPinger_Mode(t *testing.T) {
	if m := NewICMPPinger(nil, time.Second, true).Mode(); m != "privileged" {
		t.Fatalf("got %q", m)
	}
	if m := NewICMPPinger(nil, time.Second, false).Mode(); m != "unprivileged" {
		t.Fatalf("got %q", m)
	}
}
