package config

import (
	"fmt"
	"log/slog"
)

// Reload re-reads the configuration file the provider was originally loaded
// from and swaps it in. A config built from defaults has no source and cannot
// be reloaded.
func Reload(provider *Provider, logger *slog.Logger) error {
	current := provider.Get()
	if current.Source == "" {
		return fmt.Errorf("config has no file source, nothing to reload")
	}

	newCfg, err := LoadFromFile(current.Source, logger)
	if err != nil {
		return fmt.Errorf("reload failed: %w", err)
	}

	provider.Update(newCfg)
	logger.Info("configuration reloaded", "path", current.Source)
	return nil
}
