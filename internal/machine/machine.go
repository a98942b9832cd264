package machine

import "time"

// Status is the liveness state of a reporting machine.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusUnknown Status = "unknown"
)

// StatusFromString maps a wire status string onto a Status.
func StatusFromString(s string) Status {
	switch s {
	case "online":
		return StatusOnline
	case "offline":
		return StatusOffline
	default:
		return StatusUnknown
	}
}

// CPU describes a machine's processor and current load.
type CPU struct {
	Model        string  `json:"model"`
	Cores        int     `json:"cores"`
	UsagePercent float64 `json:"usage_percent"`
}

// Memory describes a machine's memory capacity and current usage.
type Memory struct {
	Total        string  `json:"total"`
	Available    string  `json:"available"`
	UsagePercent float64 `json:"usage_percent"`
}

// Storage describes a machine's root filesystem capacity and usage.
type Storage struct {
	Total        string  `json:"total"`
	Free         string  `json:"free"`
	UsagePercent float64 `json:"usage_percent"`
}

// Snapshot is one self-reported resource state from a machine.
// Fields contain no reference types, so a struct copy is a deep copy.
type Snapshot struct {
	Hostname  string  `json:"hostname"`
	IPAddress string  `json:"ip_address"`
	CPU       CPU     `json:"cpu"`
	Memory    Memory  `json:"memory"`
	Storage   Storage `json:"storage"`
}

// DefaultSnapshot returns a snapshot with the defaults applied for every
// field an inbound report may omit. Decoding unmarshals on top of this so
// absent fields never surface as zero values downstream.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Hostname:  "Unknown",
		IPAddress: "",
		CPU:       CPU{Model: "Unknown"},
		Memory:    Memory{Total: "Unknown", Available: "Unknown"},
		Storage:   Storage{Total: "Unknown", Free: "Unknown"},
	}
}

// Record is the registry's per-machine unit: the latest snapshot plus
// liveness metadata. LastSeen advances only on full-report ingestion.
type Record struct {
	ID       string    `json:"machine_id"`
	Snapshot Snapshot  `json:"snapshot"`
	Status   Status    `json:"status"`
	LastSeen time.Time `json:"last_seen"`
}
