// Package config loads wlc's optional project configuration file,
// .wlcrc, searching upward from a given start directory in the same
// style as tugo.toml is located for its own project root.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the decoded contents of a .wlcrc file.
type Config struct {
	Verbose        bool   `toml:"verbose"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	LogFile        string `toml:"log_file"`
}

// Default returns the configuration used when no .wlcrc is found.
func Default() *Config {
	return &Config{Verbose: false, MaxDiagnostics: 1}
}

// FindAndLoad searches startDir and its ancestors for a .wlcrc file and
// loads it, or returns Default() if none is found.
func FindAndLoad(startDir string) (*Config, string, error) {
	path := find(startDir)
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func find(startDir string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, ".wlcrc")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load decodes the .wlcrc file at path, filling in defaults for any
// field the file leaves unset.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if cfg.MaxDiagnostics <= 0 {
		cfg.MaxDiagnostics = 1
	}
	return cfg, nil
}
