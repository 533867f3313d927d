// Package config loads browsetree settings from TOML, YAML or JSON files
// with environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Version is the current configuration schema version
const Version = 1

const DefaultDataDir = "~/.local/share/browsetree"

// Tree store backends
const (
	TreeStoreBadger     = "badger"
	TreeStoreFilesystem = "filesystem"
)

// Config holds every browsetree setting
type Config struct {
	Version   int           `toml:"version" json:"version" yaml:"version"`
	DataDir   string        `toml:"data_dir" json:"data_dir" yaml:"data_dir"`
	TreeStore string        `toml:"tree_store" json:"tree_store" yaml:"tree_store"`
	Engine    EngineConfig  `toml:"engine" json:"engine" yaml:"engine"`
	Logging   LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
	Metrics   MetricsConfig `toml:"metrics" json:"metrics" yaml:"metrics"`
}

// EngineConfig tunes the browsing engine
type EngineConfig struct {
	// SessionDurationSeconds is the idle gap after which a new web
	// session starts.
	SessionDurationSeconds int `toml:"session_duration_seconds" json:"session_duration_seconds" yaml:"session_duration_seconds"`

	FrecencyHalfLifeDays float64 `toml:"frecency_half_life_days" json:"frecency_half_life_days" yaml:"frecency_half_life_days"`
}

type LoggingConfig struct {
	Level    string `toml:"level" json:"level" yaml:"level"`
	Format   string `toml:"format" json:"format" yaml:"format"`
	Output   string `toml:"output" json:"output" yaml:"output"`
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

type MetricsConfig struct {
	// Addr is the listen address of the /metrics endpoint, empty to disable
	Addr string `toml:"addr" json:"addr" yaml:"addr"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		Version:   Version,
		DataDir:   DefaultDataDir,
		TreeStore: TreeStoreBadger,
		Engine: EngineConfig{
			SessionDurationSeconds: 30 * 60 * 60,
			FrecencyHalfLifeDays:   30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	switch c.TreeStore {
	case TreeStoreBadger, TreeStoreFilesystem:
	default:
		return fmt.Errorf("tree_store must be %q or %q, got %q", TreeStoreBadger, TreeStoreFilesystem, c.TreeStore)
	}
	if c.Engine.SessionDurationSeconds <= 0 {
		return fmt.Errorf("engine.session_duration_seconds must be positive, got %d", c.Engine.SessionDurationSeconds)
	}
	if c.Engine.FrecencyHalfLifeDays <= 0 {
		return fmt.Errorf("engine.frecency_half_life_days must be positive, got %v", c.Engine.FrecencyHalfLifeDays)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.Logging.Output == "file" && c.Logging.FilePath == "" {
		return errors.New("logging.file_path is required when logging.output is file")
	}
	return nil
}

// ApplyEnvOverrides applies BROWSETREE_* environment variables
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("BROWSETREE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("BROWSETREE_TREE_STORE"); v != "" {
		c.TreeStore = v
	}
	if v := os.Getenv("BROWSETREE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("BROWSETREE_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
}

// DataDirPath returns DataDir with ~ expanded
func (c *Config) DataDirPath() string {
	return expandHome(c.DataDir)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

// DefaultPath returns the config file location under the XDG config home
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "browsetree", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "browsetree", "config.toml")
}

// Load reads the file at path, applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile parses a config file based on its extension
func loadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch filepath.Ext(path) {
	case ".toml", "":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
	return cfg, nil
}
