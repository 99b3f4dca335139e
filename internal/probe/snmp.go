package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
)

// SNMPClient issues community-based GET requests. A fresh session is opened
// for every call and closed before returning.
type SNMPClient struct {
	Port    uint16
	Version gosnmp.SnmpVersion
	Timeout time.Duration
}

// NewSNMPClient builds a client for SNMP v1 or v2c.
func NewSNMPClient(port int, version string, timeout time.Duration) (*SNMPClient, error) {
	if port == 0 {
		port = 161
	}
	v, err := ParseSNMPVersion(version)
	if err != nil {
		return nil, err
	}
	return &SNMPClient{Port: uint16(port), Version: v, Timeout: timeout}, nil
}

// ParseSNMPVersion maps "1" and "2c" to gosnmp versions. Empty means 2c.
func ParseSNMPVersion(s string) (gosnmp.SnmpVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "v1":
		return gosnmp.Version1, nil
	case "", "2c", "v2c":
		return gosnmp.Version2c, nil
	default:
		return 0, fmt.Errorf("unsupported SNMP version: %s", s)
	}
}

func (c *SNMPClient) Get(ctx context.Context, host, community string, oids []string) (map[string]any, error) {
	sess := &gosnmp.GoSNMP{
		Context:   ctx,
		Target:    host,
		Port:      c.Port,
		Community: community,
		Version:   c.Version,
		Timeout:   c.Timeout,
		Retries:   0, // retries belong to Retrier
		MaxOids:   gosnmp.MaxOids,
	}
	if err := sess.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect %s: %w", ErrSNMP, host, err)
	}
	defer sess.Conn.Close()

	out := make(map[string]any, len(oids))
	for start := 0; start < len(oids); start += sess.MaxOids {
		end := min(start+sess.MaxOids, len(oids))
		pkt, err := sess.Get(oids[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: get %s: %w", ErrSNMP, host, err)
		}
		if pkt.Error != gosnmp.NoError {
			return nil, fmt.Errorf("%w: %s answered %v (index %d)", ErrSNMP, host, pkt.Error, pkt.ErrorIndex)
		}
		for _, pdu := range pkt.Variables {
			out[strings.TrimPrefix(pdu.Name, ".")] = pduValue(pdu)
		}
	}
	return out, nil
}

// pduValue converts a varbind into something encoding/json renders sensibly.
func pduValue(pdu gosnmp.SnmpPDU) any {
	switch pdu.Type {
	case gosnmp.OctetString:
		if b, ok := pdu.Value.([]byte); ok {
			return string(b)
		}
		return pdu.Value
	case gosnmp.ObjectIdentifier, gosnmp.IPAddress:
		return fmt.Sprint(pdu.Value)
	case gosnmp.Counter64:
		return gosnmp.ToBigInt(pdu.Value).Uint64()
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Uinteger32:
		return gosnmp.ToBigInt(pdu.Value).Int64()
	case gosnmp.Null, gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView:
		return nil
	default:
		return pdu.Value
	}
}
