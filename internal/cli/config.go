package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk configuration, read from
// $XDG_CONFIG_HOME/storyflow/config.toml. Every field is optional; zero
// values fall back to the file store under the user data directory and a
// file cache under the user cache directory.
type Config struct {
	// FlowsDir overrides where the file store keeps flow documents.
	FlowsDir string `toml:"flows_dir"`

	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects the pipeline cache backend.
type CacheConfig struct {
	// Disabled turns caching off entirely.
	Disabled bool `toml:"disabled"`

	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`

	// Redis, when Addr is set, is used instead of the file cache.
	Redis RedisConfig `toml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// StoreConfig selects the flow store backend: "file" (default) or "mongo".
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// defaultServerAddr is used when the config file sets no server address.
const defaultServerAddr = ":8799"

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error; defaults are returned.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return defaultConfig(), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultServerAddr
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: defaultServerAddr},
	}
}
