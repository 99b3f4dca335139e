package probe

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
)

func TestPDUValue(t *testing.T) {
	cases := []struct {
		name string
		pdu  gosnmp.SnmpPDU
		want any
	}{
		{"octets", gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte("core-sw-01")}, "core-sw-01"},
		{"timeticks", gosnmp.SnmpPDU{Type: gosnmp.TimeTicks, Value: uint32(12345)}, int64(12345)},
		{"integer", gosnmp.SnmpPDU{Type: gosnmp.Integer, Value: 2}, int64(2)},
		{"counter64", gosnmp.SnmpPDU{Type: gosnmp.Counter64, Value: uint64(1 << 40)}, uint64(1 << 40)},
		{"oid", gosnmp.SnmpPDU{Type: gosnmp.ObjectIdentifier, Value: ".1.3.6.1.4.1.9"}, ".1.3.6.1.4.1.9"},
		{"nosuch", gosnmp.SnmpPDU{Type: gosnmp.NoSuchInstance}, nil},
	}
	for _, c := range cases {
		if got := pduValue(c.pdu); got != c.want {
			t.Fatalf("%s: pduValue=%#v want %#v", c.name, got, c.want)
		}
	}
}

func TestParseSNMPVersion(t *testing.T) {
	if v, err := ParseSNMPVersion(""); err != nil || v != gosnmp.Version2c {
		t.Fatalf("empty should default to 2c, got %v %v", v, err)
	}
	if v, err := ParseSNMPVersion("1"); err != nil || v != gosnmp.Version1 {
		t.Fatalf("want v1, got %v %v", v, err)
	}
	if _, err := ParseSNMPVersion("3"); err == nil {
		t.Fatalf("v3 should be rejected")
	}
}

func TestSNMPClient_SilentAgentFailsWithErrSNMP(t *testing.T) {
	// a UDP socket that never answers
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("udp listen unavailable: %v", err)
	}
	defer pc.Close()
	port := pc.LocalAddr().(*net.UDPAddr).Port

	c, err := NewSNMPClient(port, "2c", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("NewSNMPClient: %v", err)
	}
	_, err = c.Get(context.Background(), "127.0.0.1", "public", []string{"1.3.6.1.2.1.1.3.0"})
	if !errors.Is(err, ErrSNMP) {
		t.Fatalf("want ErrSNMP, got %v", err)
	}
}
