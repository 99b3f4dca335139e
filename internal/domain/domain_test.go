package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestICMPData_MarshalsSentinel(t *testing.T) {
	b, err := json.Marshal(Unreachable())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"latency":"N/A"}` {
		t.Fatalf("unexpected sentinel encoding: %s", b)
	}

	b, err = json.Marshal(Latency(5))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"latency":5}` {
		t.Fatalf("unexpected latency encoding: %s", b)
	}
}

func TestICMPData_UnmarshalsBothForms(t *testing.T) {
	var d ICMPData
	if err := json.Unmarshal([]byte(`{"latency":"N/A"}`), &d); err != nil {
		t.Fatalf("unmarshal sentinel: %v", err)
	}
	if d.Alive() {
		t.Fatalf("sentinel should not be alive")
	}
	if err := json.Unmarshal([]byte(`{"latency":12.5}`), &d); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if !d.Alive() || *d.LatencyMS != 12.5 {
		t.Fatalf("want 12.5ms, got %+v", d)
	}
}

func TestProbeResult_EmptySNMPEncodesAsObject(t *testing.T) {
	r := ProbeResult{Host: "10.0.0.2", SNMPData: map[string]any{}, ICMPData: Unreachable()}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"snmpData":{}`) {
		t.Fatalf("snmpData should be an empty object: %s", b)
	}
}

func TestDevice_HasSNMP(t *testing.T) {
	cases := []struct {
		d    Device
		want bool
	}{
		{Device{IP: "a", SNMPCommunity: "public", SNMPOIDs: []string{"1.3"}}, true},
		{Device{IP: "a", SNMPCommunity: "public"}, false},
		{Device{IP: "a", SNMPOIDs: []string{"1.3"}}, false},
		{Device{IP: "a"}, false},
	}
	for _, c := range cases {
		if got := c.d.HasSNMP(); got != c.want {
			t.Fatalf("HasSNMP(%+v)=%v want %v", c.d, got, c.want)
		}
	}
}

func TestNormalizeDevices(t *testing.T) {
	in := []Device{{IP: "10.0.0.1"}, {IP: ""}, {IP: "10.0.0.1", SNMPCommunity: "x"}, {IP: "10.0.0.2"}}
	out, dropped := NormalizeDevices(in)
	if dropped != 2 || len(out) != 2 {
		t.Fatalf("want 2 kept / 2 dropped, got %d / %d", len(out), dropped)
	}
	if out[0].SNMPCommunity != "" {
		t.Fatalf("first occurrence should win, got %+v", out[0])
	}
}
