package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".cache", appName)
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	want := filepath.Join("/tmp/custom-cache", appName)
	if dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestConfigDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")

	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}

	want := filepath.Join("/tmp/custom-config", appName)
	if dir != want {
		t.Errorf("configDir() with XDG_CONFIG_HOME = %q, want %q", dir, want)
	}
}

func TestFlowsDirDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	os.Unsetenv("XDG_DATA_HOME")

	dir, err := flowsDir()
	if err != nil {
		t.Fatalf("flowsDir() error: %v", err)
	}

	if !strings.HasSuffix(dir, filepath.Join(appName, "flows")) {
		t.Errorf("flowsDir() = %q, should end with %s/flows", dir, appName)
	}
}

func TestFlowsDirXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/custom-data")

	dir, err := flowsDir()
	if err != nil {
		t.Fatalf("flowsDir() error: %v", err)
	}

	want := filepath.Join("/tmp/custom-data", appName, "flows")
	if dir != want {
		t.Errorf("flowsDir() with XDG_DATA_HOME = %q, want %q", dir, want)
	}
}
