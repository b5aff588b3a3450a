// Package config provides engine configuration for daydreamer.
//
// The configuration file lives at ~/.daydreamer/config.toml and uses
// TOML format. Every value has a default, so the engine runs without a
// file; command-line flags and UCI setoption commands override whatever
// was loaded.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the engine settings read at startup.
type Config struct {
	// HashMB is the transposition table size in megabytes.
	HashMB int
	// MultiPV is the number of principal variations to report.
	MultiPV int
	// Ponder enables thinking on the opponent's time.
	Ponder bool
	// LogLevel is the stderr log threshold (debug, info, warning, error).
	LogLevel string
	// StorageEnabled controls the on-disk stats database.
	StorageEnabled bool
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() Config {
	return Config{
		HashMB:         64,
		MultiPV:        1,
		Ponder:         false,
		LogLevel:       "warning",
		StorageEnabled: true,
	}
}

// configFile is the TOML layout, split into engine and log sections.
type configFile struct {
	Engine engineConfig `toml:"engine"`
	Log    logConfig    `toml:"log"`
}

type engineConfig struct {
	HashMB         int  `toml:"hash_mb"`
	MultiPV        int  `toml:"multi_pv"`
	Ponder         bool `toml:"ponder"`
	StorageEnabled bool `toml:"storage_enabled"`
}

type logConfig struct {
	Level string `toml:"level"`
}

func defaultConfigFile() configFile {
	c := DefaultConfig()
	return configFile{
		Engine: engineConfig{
			HashMB:         c.HashMB,
			MultiPV:        c.MultiPV,
			Ponder:         c.Ponder,
			StorageEnabled: c.StorageEnabled,
		},
		Log: logConfig{Level: c.LogLevel},
	}
}

func fromFile(cf configFile) Config {
	cfg := Config{
		HashMB:         cf.Engine.HashMB,
		MultiPV:        cf.Engine.MultiPV,
		Ponder:         cf.Engine.Ponder,
		StorageEnabled: cf.Engine.StorageEnabled,
		LogLevel:       cf.Log.Level,
	}
	if cfg.HashMB <= 0 {
		cfg.HashMB = DefaultConfig().HashMB
	}
	if cfg.MultiPV <= 0 {
		cfg.MultiPV = 1
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultConfig().LogLevel
	}
	return cfg
}

// Dir returns the configuration directory, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".daydreamer")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	return dir, nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration file, returning defaults when it does
// not exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads a configuration file from an explicit path.
func LoadFrom(path string) (Config, error) {
	cf := defaultConfigFile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fromFile(cf), nil
	}
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return DefaultConfig(), fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return fromFile(cf), nil
}

// Save writes the configuration to its default location.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration to an explicit path.
func SaveTo(cfg Config, path string) error {
	cf := configFile{
		Engine: engineConfig{
			HashMB:         cfg.HashMB,
			MultiPV:        cfg.MultiPV,
			Ponder:         cfg.Ponder,
			StorageEnabled: cfg.StorageEnabled,
		},
		Log: logConfig{Level: cfg.LogLevel},
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("cannot write config: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cf)
}
