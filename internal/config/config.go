package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Cache configures the persistent name cache.
type Cache struct {
	Path       string `toml:"path"`
	MaxEntries int    `toml:"max_entries"`
}

// Player configures the playback connection.
type Player struct {
	Eager     bool    `toml:"eager"`
	MaxVolume float64 `toml:"max_volume"`
}

// Simulator configures the local in-process backend.
type Simulator struct {
	DatabasePath string   `toml:"database_path"`
	Devices      []string `toml:"devices"`
}

// Config is the root configuration document.
type Config struct {
	LogLevel  string    `toml:"log_level"`
	LogFormat string    `toml:"log_format"`
	Cache     Cache     `toml:"cache"`
	Player    Player    `toml:"player"`
	Simulator Simulator `toml:"simulator"`
}

// DefaultConfigPath returns the conventional configuration file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "aria", "config.toml"), nil
}

// Load reads the configuration at path, falling back to defaults for any
// missing file or omitted field. The returned bool reports whether a file was
// actually read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	resolved, err := expandPath(path)
	if err != nil {
		return nil, false, err
	}
	if resolved == "" {
		if resolved, err = DefaultConfigPath(); err != nil {
			return nil, false, err
		}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := cfg.normalize(); err != nil {
				return nil, false, err
			}
			return cfg, false, cfg.Validate()
		}
		return nil, false, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, false, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, false, err
	}
	return cfg, true, cfg.Validate()
}

func (c *Config) normalize() error {
	var err error
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	if c.Simulator.DatabasePath, err = expandPath(c.Simulator.DatabasePath); err != nil {
		return fmt.Errorf("simulator.database_path: %w", err)
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = defaultCacheMaxEntries
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
	return nil
}

// Validate checks semantic constraints the TOML schema cannot express.
func (c *Config) Validate() error {
	if c.Player.MaxVolume < 0 || c.Player.MaxVolume > 1 {
		return fmt.Errorf("player.max_volume must be between 0.0 and 1.0, got %v", c.Player.MaxVolume)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level %q is not recognized", c.LogLevel)
	}
	return nil
}

// CreateSample writes the embedded sample configuration to path. Unless
// overwrite is set, an existing file is left untouched and reported as an
// error.
func CreateSample(path string, overwrite bool) error {
	resolved, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if !overwrite {
		if _, err := os.Stat(resolved); err == nil {
			return fmt.Errorf("config file already exists at %s", resolved)
		}
	}
	if err := os.WriteFile(resolved, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return trimmed, nil
}
