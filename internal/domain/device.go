package domain

import "time"

// Device is one monitored target as delivered by the roster API.
type Device struct {
	IP            string   `json:"ip"`
	SNMPCommunity string   `json:"snmpCommunity,omitempty"`
	SNMPOIDs      []string `json:"snmpOids,omitempty"`
}

// HasSNMP reports whether the device carries enough configuration to be
// polled over SNMP. Both a community and at least one OID are required.
func (d Device) HasSNMP() bool {
	return d.SNMPCommunity != "" && len(d.SNMPOIDs) > 0
}

// NormalizeDevices drops entries without an IP and keeps the first entry
// for any repeated IP. The input slice is not modified.
func NormalizeDevices(in []Device) (out []Device, dropped int) {
	out = make([]Device, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, d := range in {
		if d.IP == "" {
			dropped++
			continue
		}
		if _, dup := seen[d.IP]; dup {
			dropped++
			continue
		}
		seen[d.IP] = struct{}{}
		out = append(out, d)
	}
	return out, dropped
}

// Sweep summarises one monitoring pass for the status API.
type Sweep struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
	Devices     int       `json:"devices"`
	Results     int       `json:"results"`
	Reported    bool      `json:"reported"`
	ReportError string    `json:"reportError,omitempty"`
}
