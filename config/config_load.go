package config

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"
)

// LoadFromFile reads a TOML configuration file over the defaults, applies
// environment overrides for secrets and validates the result.
func LoadFromFile(path string, logger *slog.Logger) (*Config, error) {
	cfg := NewDefaultConfig()

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		logger.Error("failed to decode config file", "path", path, "error", err)
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		logger.Warn("config file contains unknown keys", "path", path, "keys", undecoded)
	}

	cfg.Source = path
	cfg.FillEnvOverrides()

	if err := Validate(cfg); err != nil {
		logger.Error("configuration validation failed", "path", path, "error", err)
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	logger.Info("successfully loaded configuration", "path", path)
	return cfg, nil
}
