// Package config loads patchctl's runtime configuration: the target
// tree root and logging destination. Decoding follows an
// unmarshal-then-backfill-defaults shape.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the settings that govern one patchctl invocation.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WorkspaceConfig describes the target file tree the patch is applied against.
type WorkspaceConfig struct {
	// Root is the directory all file_path values in a patch are resolved against.
	Root string `yaml:"root"`
}

// LoggingConfig configures the zap-backed transaction logger.
type LoggingConfig struct {
	// Path is the log file destination. Empty disables logging.
	Path string `yaml:"path"`
	// Development switches to zap's human-readable console encoder.
	Development bool `yaml:"development"`
}

// Default returns the configuration used when no config file is supplied:
// the current working directory as root, logging disabled.
func Default() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	return &Config{Workspace: WorkspaceConfig{Root: cwd}}, nil
}

// Load reads and decodes a YAML config file, resolving Workspace.Root to an
// absolute path and filling in defaults after unmarshal.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Workspace.Root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		cfg.Workspace.Root = cwd
	}

	absRoot, err := filepath.Abs(cfg.Workspace.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	cfg.Workspace.Root = absRoot

	return &cfg, nil
}
