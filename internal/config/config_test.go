package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleetwatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.Bus.URL != "nats://127.0.0.1:4222" {
		t.Errorf("bus url = %q", cfg.Bus.URL)
	}
	if cfg.Monitor.OfflineThreshold != 60*time.Second {
		t.Errorf("offline_threshold = %v", cfg.Monitor.OfflineThreshold)
	}
	if cfg.Monitor.SweepInterval != 5*time.Second {
		t.Errorf("sweep_interval = %v", cfg.Monitor.SweepInterval)
	}
	if cfg.Agent.PublishInterval != 60*time.Second {
		t.Errorf("publish_interval = %v", cfg.Agent.PublishInterval)
	}
}

func TestLoadFull(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
listen: ":9090"
bus:
  url: nats://broker:4222
  token: secret
monitor:
  offline_threshold: 2m
  sweep_interval: 10s
agent:
  publish_interval: 30s
  machine_id: test-machine
database_url: postgres://localhost/fleetwatch
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bus.URL != "nats://broker:4222" || cfg.Bus.Token != "secret" {
		t.Errorf("bus = %+v", cfg.Bus)
	}
	if cfg.Monitor.OfflineThreshold != 2*time.Minute {
		t.Errorf("offline_threshold = %v", cfg.Monitor.OfflineThreshold)
	}
	if cfg.Agent.MachineID != "test-machine" {
		t.Errorf("machine_id = %q", cfg.Agent.MachineID)
	}
	if cfg.DatabaseURL != "postgres://localhost/fleetwatch" {
		t.Errorf("database_url = %q", cfg.DatabaseURL)
	}
}

func TestLoadRejectsNegativeThreshold(t *testing.T) {
	_, err := Load(writeConfig(t, `
monitor:
  offline_threshold: -10s
`))
	if err == nil {
		t.Fatal("expected validation error for negative threshold")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "listen: [unterminated"))
	if err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
