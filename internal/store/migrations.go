package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS machine_statuses (
    id              BIGSERIAL PRIMARY KEY,
    machine_id      TEXT NOT NULL,
    hostname        TEXT NOT NULL DEFAULT 'Unknown',
    ip_address      TEXT NOT NULL DEFAULT '',
    cpu_model       TEXT NOT NULL DEFAULT 'Unknown',
    cpu_cores       INT NOT NULL DEFAULT 0,
    cpu_usage       DOUBLE PRECISION NOT NULL DEFAULT 0,
    memory_total    TEXT NOT NULL DEFAULT 'Unknown',
    memory_available TEXT NOT NULL DEFAULT 'Unknown',
    memory_usage    DOUBLE PRECISION NOT NULL DEFAULT 0,
    storage_total   TEXT NOT NULL DEFAULT 'Unknown',
    storage_free    TEXT NOT NULL DEFAULT 'Unknown',
    storage_usage   DOUBLE PRECISION NOT NULL DEFAULT 0,
    received_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_machine_statuses_machine_id ON machine_statuses(machine_id);
CREATE INDEX IF NOT EXISTS idx_machine_statuses_received_at ON machine_statuses(received_at);
`

// EnsureSchema creates the machine_statuses table and indexes if they don't exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
