package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Point the config dir at an empty temp dir so no real file is found.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.Addr != defaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, defaultServerAddr)
	}
	if cfg.Store.Backend != "" {
		t.Errorf("Store.Backend = %q, want empty (file default)", cfg.Store.Backend)
	}
	if cfg.Cache.Disabled {
		t.Error("cache should be enabled by default")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
flows_dir = "/srv/flows"

[cache]
dir = "/srv/cache"

[cache.redis]
addr = "localhost:6379"
db = 2

[store]
backend = "mongo"

[store.mongo]
uri = "mongodb://localhost:27017"
database = "dialogs"

[server]
addr = ":9000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.FlowsDir != "/srv/flows" {
		t.Errorf("FlowsDir = %q, want /srv/flows", cfg.FlowsDir)
	}
	if cfg.Cache.Dir != "/srv/cache" {
		t.Errorf("Cache.Dir = %q, want /srv/cache", cfg.Cache.Dir)
	}
	if cfg.Cache.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want localhost:6379", cfg.Cache.Redis.Addr)
	}
	if cfg.Cache.Redis.DB != 2 {
		t.Errorf("Redis.DB = %d, want 2", cfg.Cache.Redis.DB)
	}
	if cfg.Store.Backend != "mongo" {
		t.Errorf("Store.Backend = %q, want mongo", cfg.Store.Backend)
	}
	if cfg.Store.Mongo.Database != "dialogs" {
		t.Errorf("Mongo.Database = %q, want dialogs", cfg.Store.Mongo.Database)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadConfig() with an explicit missing path should fail")
	}
}
