// Package config loads lsix settings from TOML files and the environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName = "lsix"

	DefaultTileSize        = 360
	DefaultCacheMaxAgeDays = 30
)

type Config struct {
	TileSize        int    `koanf:"tile_size"`          // tile edge in pixels (default: 360)
	Colors          int    `koanf:"colors"`             // color budget override, 0 keeps the probed value
	Shadow          bool   `koanf:"shadow"`             // drop shadow under each tile
	CacheDir        string `koanf:"cache_dir"`          // row cache location (default: $XDG_CACHE_HOME/lsix)
	CacheMaxAgeDays int    `koanf:"cache_max_age_days"` // prune row artifacts older than this (default: 30)
	Recursive       bool   `koanf:"recursive"`          // descend into directories
	LongLabels      bool   `koanf:"long_labels"`        // label tiles with the full path
	Workers         int    `koanf:"workers"`            // render workers, 0 means NumCPU
}

// Load reads every config file that exists, later files overriding earlier
// ones, and fills in defaults.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom is Load with an explicit list of candidate files.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		TileSize:        DefaultTileSize,
		CacheMaxAgeDays: DefaultCacheMaxAgeDays,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.TileSize <= 0 {
		c.TileSize = DefaultTileSize
	}
	if c.Colors < 0 {
		c.Colors = 0
	}
	if c.CacheMaxAgeDays <= 0 {
		c.CacheMaxAgeDays = DefaultCacheMaxAgeDays
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
	if c.CacheDir == "" {
		c.CacheDir = filepath.Join(xdg.CacheHome, appName)
	} else {
		c.CacheDir = expandPath(c.CacheDir)
	}
}

// ApplyEnv lets the environment overrides win over file values.
func (c *Config) ApplyEnv(env Env) {
	if env.TileSize > 0 {
		c.TileSize = env.TileSize
	}
	if env.Colors > 0 {
		c.Colors = env.Colors
	}
	if env.Shadow != nil {
		c.Shadow = *env.Shadow
	}
}

// Dir returns the lsix directory under the XDG config home.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/lsix/config.toml
		filepath.Join(Dir(), "config.toml"),
		// 2. ./.lsix.toml (pwd, highest priority)
		".lsix.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
