package config

import "fmt"

func validate(cfg *Config) error {
	if cfg.Monitor.OfflineThreshold <= 0 {
		return fmt.Errorf("config: monitor.offline_threshold must be > 0")
	}
	if cfg.Monitor.SweepInterval <= 0 {
		return fmt.Errorf("config: monitor.sweep_interval must be > 0")
	}
	if cfg.Agent.PublishInterval <= 0 {
		return fmt.Errorf("config: agent.publish_interval must be > 0")
	}
	if cfg.Bus.URL == "" {
		return fmt.Errorf("config: bus.url must not be empty")
	}
	return nil
}
