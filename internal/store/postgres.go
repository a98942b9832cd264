package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fleetwatch/internal/machine"
)

// PostgresStore implements ReportStore backed by a pgxpool connection.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and verifies connectivity.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Pool returns the underlying pgxpool for schema bootstrap.
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// RecordReport appends one full report to the history.
func (s *PostgresStore) RecordReport(ctx context.Context, rep machine.Report, receivedAt time.Time) error {
	const q = `
INSERT INTO machine_statuses (
    machine_id, hostname, ip_address,
    cpu_model, cpu_cores, cpu_usage,
    memory_total, memory_available, memory_usage,
    storage_total, storage_free, storage_usage,
    received_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`
	_, err := s.pool.Exec(ctx, q,
		rep.MachineID, rep.Hostname, rep.IPAddress,
		rep.CPU.Model, rep.CPU.Cores, rep.CPU.UsagePercent,
		rep.Memory.Total, rep.Memory.Available, rep.Memory.UsagePercent,
		rep.Storage.Total, rep.Storage.Free, rep.Storage.UsagePercent,
		receivedAt,
	)
	if err != nil {
		return fmt.Errorf("record report: %w", err)
	}
	return nil
}

// History returns the most recent entries for a machine, newest first.
func (s *PostgresStore) History(ctx context.Context, machineID string, limit, offset int) ([]HistoryEntry, error) {
	const q = `
SELECT id, machine_id, hostname, ip_address,
       cpu_model, cpu_cores, cpu_usage,
       memory_total, memory_available, memory_usage,
       storage_total, storage_free, storage_usage,
       received_at
FROM machine_statuses
WHERE machine_id = $1
ORDER BY received_at DESC
LIMIT $2 OFFSET $3
`
	rows, err := s.pool.Query(ctx, q, machineID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		err := rows.Scan(
			&e.ID, &e.MachineID, &e.Hostname, &e.IPAddress,
			&e.CPUModel, &e.CPUCores, &e.CPUUsage,
			&e.MemoryTotal, &e.MemoryAvail, &e.MemoryUsage,
			&e.StorageTotal, &e.StorageFree, &e.StorageUsage,
			&e.ReceivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return entries, nil
}
