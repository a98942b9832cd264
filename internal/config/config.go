package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"fleetwatch/internal/bus"
)

type Config struct {
	Listen      string     `yaml:"listen"`
	Bus         bus.Config `yaml:"bus"`
	Monitor     Monitor    `yaml:"monitor"`
	Agent       Agent      `yaml:"agent"`
	DatabaseURL string     `yaml:"database_url"`
}

type Monitor struct {
	OfflineThreshold time.Duration `yaml:"offline_threshold"`
	SweepInterval    time.Duration `yaml:"sweep_interval"`
}

type Agent struct {
	PublishInterval time.Duration `yaml:"publish_interval"`
	MachineID       string        `yaml:"machine_id"` // empty means derive from hardware
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}

	def := bus.DefaultConfig()
	if cfg.Bus.URL == "" {
		cfg.Bus.URL = def.URL
	}
	if cfg.Bus.ConnectTimeout == 0 {
		cfg.Bus.ConnectTimeout = def.ConnectTimeout
	}
	if cfg.Bus.ReconnectWait == 0 {
		cfg.Bus.ReconnectWait = def.ReconnectWait
	}
	if cfg.Bus.MaxReconnects == 0 {
		cfg.Bus.MaxReconnects = def.MaxReconnects
	}

	if cfg.Monitor.OfflineThreshold == 0 {
		cfg.Monitor.OfflineThreshold = 60 * time.Second
	}
	if cfg.Monitor.SweepInterval == 0 {
		cfg.Monitor.SweepInterval = 5 * time.Second
	}

	if cfg.Agent.PublishInterval == 0 {
		cfg.Agent.PublishInterval = 60 * time.Second
	}
}
