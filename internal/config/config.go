// Package config loads the celeris configuration and resolves the
// config/cache directory layout.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configFile   = "config.yaml"
	defaultDepth = 10
)

// SearchRoot is a directory tree to crawl for git repositories.
type SearchRoot struct {
	Path     string   `yaml:"path"`
	Depth    int      `yaml:"depth"`    // 0 inherits the global depth
	Excludes []string `yaml:"excludes"` // merged with the global excludes
}

type Config struct {
	SearchRoots   []SearchRoot `yaml:"search_roots"`
	Excludes      []string     `yaml:"excludes"`
	Depth         int          `yaml:"depth"`
	SearchSubdirs bool         `yaml:"search_subdirs"`
	Editor        string       `yaml:"editor"`
}

// Load reads the config from <config-dir>/config.yaml. A missing file yields
// the defaults; a file that names nonexistent search roots is an error.
func Load(dirs *Dirs) (*Config, error) {
	cfg := &Config{Depth: defaultDepth}

	path := filepath.Join(dirs.ConfigDir(), configFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Depth == 0 {
		cfg.Depth = defaultDepth
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for _, root := range c.SearchRoots {
		info, err := os.Stat(root.Path)
		if err != nil {
			return fmt.Errorf("search root not found: %s", root.Path)
		}
		if !info.IsDir() {
			return fmt.Errorf("search root is not a directory: %s", root.Path)
		}
	}
	return nil
}

// EditorCommand picks the layout editor: config, then $EDITOR, then vi.
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}
