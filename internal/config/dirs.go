package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	projectDir = "celeris"
	layoutsDir = "layouts"
)

// Dirs resolves where configuration, layouts, and cached state live.
type Dirs struct {
	configDir  string
	cacheDir   string
	layoutsDir string
}

// NewDirs resolves the directory layout. Empty paths fall back to the
// user-level config and cache directories; custom paths must already exist.
// Default directories (and the layouts subdirectory) are created on demand.
func NewDirs(customConfig, customCache string) (*Dirs, error) {
	configDir, err := resolveDir(customConfig, os.UserConfigDir, "config")
	if err != nil {
		return nil, err
	}
	cacheDir, err := resolveDir(customCache, os.UserCacheDir, "cache")
	if err != nil {
		return nil, err
	}

	layouts := filepath.Join(configDir, layoutsDir)
	if err := os.MkdirAll(layouts, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create layouts dir %s: %w", layouts, err)
	}

	return &Dirs{configDir: configDir, cacheDir: cacheDir, layoutsDir: layouts}, nil
}

func resolveDir(custom string, userDir func() (string, error), kind string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err != nil {
			return "", fmt.Errorf("custom %s directory not found: %s", kind, custom)
		}
		return custom, nil
	}

	base, err := userDir()
	if err != nil {
		return "", fmt.Errorf("couldn't locate the user %s directory: %w", kind, err)
	}
	dir := filepath.Join(base, projectDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s directory %s: %w", kind, dir, err)
	}
	return dir, nil
}

func (d *Dirs) ConfigDir() string  { return d.configDir }
func (d *Dirs) CacheDir() string   { return d.cacheDir }
func (d *Dirs) LayoutsDir() string { return d.layoutsDir }
