package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LatencyUnavailable is what the collector receives instead of a number
// when a host did not answer the echo request.
const LatencyUnavailable = "N/A"

// ICMPData carries the round-trip time of one echo in milliseconds.
// A nil LatencyMS means the host was unreachable.
type ICMPData struct {
	LatencyMS *float64
}

// Latency returns an ICMPData for a successful echo.
func Latency(ms float64) ICMPData {
	return ICMPData{LatencyMS: &ms}
}

// Unreachable is the sentinel ICMPData.
func Unreachable() ICMPData {
	return ICMPData{}
}

func (d ICMPData) Alive() bool { return d.LatencyMS != nil }

type icmpWire struct {
	Latency any `json:"latency"`
}

func (d ICMPData) MarshalJSON() ([]byte, error) {
	if d.LatencyMS == nil {
		return json.Marshal(icmpWire{Latency: LatencyUnavailable})
	}
	return json.Marshal(icmpWire{Latency: *d.LatencyMS})
}

func (d *ICMPData) UnmarshalJSON(b []byte) error {
	var w struct {
		Latency json.RawMessage `json:"latency"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	raw := bytes.TrimSpace(w.Latency)
	if len(raw) == 0 || raw[0] == '"' || bytes.Equal(raw, []byte("null")) {
		d.LatencyMS = nil
		return nil
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return fmt.Errorf("icmp latency: %w", err)
	}
	d.LatencyMS = &ms
	return nil
}

// ProbeResult is the outcome of monitoring one device in one sweep.
type ProbeResult struct {
	Host      string         `json:"host"`
	SNMPData  map[string]any `json:"snmpData"`
	ICMPData  ICMPData       `json:"icmpData"`
	Timestamp time.Time      `json:"timestamp"`
}
