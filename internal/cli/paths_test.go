package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")

	dir, err := dataDir()
	if err != nil {
		t.Fatalf("dataDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".local", "share", appName)
	if dir != expected {
		t.Errorf("dataDir() = %q, want %q", dir, expected)
	}
}

func TestDataDirXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/custom-data")

	dir, err := dataDir()
	if err != nil {
		t.Fatalf("dataDir() error: %v", err)
	}

	expected := filepath.Join("/tmp/custom-data", appName)
	if dir != expected {
		t.Errorf("dataDir() with XDG_DATA_HOME = %q, want %q", dir, expected)
	}
}

func TestResolveStore(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/custom-data")

	if got := resolveStore("mem://"); got != "mem://" {
		t.Errorf("resolveStore(mem://) = %q", got)
	}
	got := resolveStore("")
	if !strings.HasPrefix(got, "file://") || !strings.HasSuffix(got, appName) {
		t.Errorf("resolveStore(\"\") = %q, want file store in the data directory", got)
	}
}
