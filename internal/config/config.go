package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	ProbeTimeoutMs       int      `json:"probeTimeoutMs"`
	SkipDomains          []string `json:"skipDomains"`
	DismissedSuggestions []string `json:"dismissedSuggestions"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		ProbeTimeoutMs: 8000,
		SkipDomains:    []string{},
	}
}

// Load reads config from the JSON file.
// Creates the file with defaults if it doesn't exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			// Non-fatal: return defaults even if save fails
			_ = Save(path, &cfg)
			return &cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := Default()
	if cfg.ProbeTimeoutMs == 0 {
		cfg.ProbeTimeoutMs = defaults.ProbeTimeoutMs
	}
	if cfg.SkipDomains == nil {
		cfg.SkipDomains = defaults.SkipDomains
	}

	return &cfg, nil
}

// Save writes config to the JSON file.
// Creates the directory if it doesn't exist.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the default config path: ~/.config/marksweep/config.json
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "marksweep", "config.json"), nil
}
