package registry

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"fleetwatch/internal/machine"
)

// Registry holds the current state of every machine that has ever reported.
// It owns its records exclusively: all reads hand out copies, so callers can
// consume a listing while ingestion and the liveness sweep keep mutating.
type Registry struct {
	mu       sync.RWMutex
	machines map[string]*machine.Record // machine id → record
	logger   *slog.Logger
}

// New creates an empty machine registry.
func New(logger *slog.Logger) *Registry {
	return &Registry{
		machines: make(map[string]*machine.Record),
		logger:   logger.With("component", "registry"),
	}
}

// UpsertReport applies a full report: first contact creates the record,
// later reports replace the snapshot, advance LastSeen and take the status
// stated by the report. Last write wins by processing order; a full report
// may resurrect a machine a status-only update just marked offline.
// Returns the prior status and whether the record was created.
func (r *Registry) UpsertReport(id string, snap machine.Snapshot, status machine.Status, seenAt time.Time) (prev machine.Status, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.machines[id]
	if !ok {
		r.machines[id] = &machine.Record{
			ID:       id,
			Snapshot: snap,
			Status:   status,
			LastSeen: seenAt,
		}
		r.logger.Info("machine registered", "machine_id", id, "hostname", snap.Hostname)
		return machine.StatusUnknown, true
	}

	prev = rec.Status
	rec.Snapshot = snap
	rec.Status = status
	rec.LastSeen = seenAt
	return prev, false
}

// SetStatus updates the liveness status only. LastSeen and the snapshot are
// untouched. Unknown machines are ignored: a status correction for a machine
// that has never reported carries nothing worth materializing.
func (r *Registry) SetStatus(id string, status machine.Status) (prev machine.Status, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, found := r.machines[id]
	if !found {
		return machine.StatusUnknown, false
	}
	prev = rec.Status
	rec.Status = status
	return prev, true
}

// Get returns a copy of one machine's record.
func (r *Registry) Get(id string) (machine.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.machines[id]
	if !ok {
		return machine.Record{}, false
	}
	return *rec, true
}

// List returns copies of all records, sorted by hostname then machine id so
// repeated reads with no intervening mutation are byte-for-byte identical.
func (r *Registry) List() []machine.Record {
	r.mu.RLock()
	result := make([]machine.Record, 0, len(r.machines))
	for _, rec := range r.machines {
		result = append(result, *rec)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Snapshot.Hostname != result[j].Snapshot.Hostname {
			return result[i].Snapshot.Hostname < result[j].Snapshot.Hostname
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Len returns the number of tracked machines.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.machines)
}

// StatusCounts returns the number of machines in each liveness status.
func (r *Registry) StatusCounts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int, 3)
	for _, rec := range r.machines {
		counts[string(rec.Status)]++
	}
	return counts
}
