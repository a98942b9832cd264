package collector

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCollectNeverReturnsEmptyFields(t *testing.T) {
	c := New("test-machine", testLogger())
	rep := c.Collect(context.Background())

	if rep.MachineID != "test-machine" {
		t.Errorf("machine_id = %q", rep.MachineID)
	}
	if rep.Hostname == "" {
		t.Error("hostname must never be empty")
	}
	if rep.CPU.Model == "" || rep.Memory.Total == "" || rep.Storage.Total == "" {
		t.Error("descriptor fields must carry defaults when probes fail")
	}
	if rep.OnlineStatus != "online" {
		t.Errorf("online_status = %q", rep.OnlineStatus)
	}
}
