// Package config loads the harness's own run configuration (TOML) and fixture
// manifests (YAML).
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// HarnessConfig is the harness's run configuration: which binaries to launch
// and how patiently to wait for them.
type HarnessConfig struct {
	// TmpRoot is where run-scoped scratch directories are created. Empty
	// means the system temp directory.
	TmpRoot string `toml:"tmp_root"`

	Server ServerConfig `toml:"server"`
	Import ImportConfig `toml:"import"`
	Poll   PollConfig   `toml:"poll"`
}

// ServerConfig describes the backend server binary.
type ServerConfig struct {
	Binary string   `toml:"binary"`
	Args   []string `toml:"args"`
}

// ImportConfig describes the legacy-repository import binary.
type ImportConfig struct {
	Binary string   `toml:"binary"`
	Args   []string `toml:"args"`
}

// PollConfig bounds the readiness wait. Different services have different
// cold-start costs, so both knobs are per-configuration rather than constants.
type PollConfig struct {
	IntervalMS int `toml:"interval_ms"`
	Attempts   int `toml:"attempts"`
}

// PollInterval returns the configured poll interval as a duration.
func (c HarnessConfig) PollInterval() time.Duration {
	return time.Duration(c.Poll.IntervalMS) * time.Millisecond
}

// DefaultConfig returns the configuration used when no file is given: the
// production binary names resolved from PATH, and a worst-case readiness wait
// of about five seconds (50 × 100ms).
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Server: ServerConfig{Binary: "mononoke"},
		Import: ImportConfig{Binary: "blobimport"},
		Poll:   PollConfig{IntervalMS: 100, Attempts: 50},
	}
}

// Load reads and parses a harness configuration file, applying defaults for
// anything the file leaves unset.
func Load(fsys fs.FS, name string) (HarnessConfig, error) {
	cfg := DefaultConfig()

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return cfg, fmt.Errorf("reading harness config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing harness config: %w", err)
	}

	if cfg.Server.Binary == "" {
		cfg.Server.Binary = "mononoke"
	}
	if cfg.Import.Binary == "" {
		cfg.Import.Binary = "blobimport"
	}
	if cfg.Poll.IntervalMS <= 0 {
		cfg.Poll.IntervalMS = 100
	}
	if cfg.Poll.Attempts <= 0 {
		cfg.Poll.Attempts = 50
	}

	return cfg, nil
}

// LoadFile is Load against the real filesystem.
func LoadFile(path string) (HarnessConfig, error) {
	return Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}
