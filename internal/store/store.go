package store

import (
	"context"
	"time"

	"fleetwatch/internal/machine"
)

// HistoryEntry is one persisted full report.
type HistoryEntry struct {
	ID           int64     `json:"id"`
	MachineID    string    `json:"machine_id"`
	Hostname     string    `json:"hostname"`
	IPAddress    string    `json:"ip_address"`
	CPUModel     string    `json:"cpu_model"`
	CPUCores     int       `json:"cpu_cores"`
	CPUUsage     float64   `json:"cpu_usage"`
	MemoryTotal  string    `json:"memory_total"`
	MemoryAvail  string    `json:"memory_available"`
	MemoryUsage  float64   `json:"memory_usage"`
	StorageTotal string    `json:"storage_total"`
	StorageFree  string    `json:"storage_free"`
	StorageUsage float64   `json:"storage_usage"`
	ReceivedAt   time.Time `json:"received_at"`
}

// ReportStore defines the interface for report history persistence.
type ReportStore interface {
	// RecordReport appends one full report to the history.
	RecordReport(ctx context.Context, rep machine.Report, receivedAt time.Time) error

	// History returns the most recent entries for a machine, newest first.
	History(ctx context.Context, machineID string, limit, offset int) ([]HistoryEntry, error)

	// Close closes the underlying connection pool.
	Close()
}
