package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/tilecascade/pkg/errors"
)

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend error: %v", err)
	}

	if _, ok, err := b.Get(ctx, "tile/0/0/0"); err != nil || ok {
		t.Fatalf("Get on empty backend = (%v, %v), want miss", ok, err)
	}

	for _, k := range []string{"tile/1/0/0", "tile/1/1/1", "tile/2/3/3", "tile/10/0/0"} {
		if err := b.Set(ctx, k, []byte(k)); err != nil {
			t.Fatalf("Set(%q) error: %v", k, err)
		}
	}

	data, ok, err := b.Get(ctx, "tile/1/1/1")
	if err != nil || !ok || string(data) != "tile/1/1/1" {
		t.Errorf("Get = (%q, %v, %v)", data, ok, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tile", "1", "1", "1"+tileExt)); err != nil {
		t.Errorf("tile file not laid out by key: %v", err)
	}

	keys, err := b.Keys(ctx, "tile/1/")
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(keys)
	if want := []string{"tile/1/0/0", "tile/1/1/1"}; !slices.Equal(keys, want) {
		t.Errorf("Keys(tile/1/) = %v, want %v", keys, want)
	}

	if err := b.Delete(ctx, "tile/1/0/0"); err != nil {
		t.Fatal(err)
	}
	if err := b.Delete(ctx, "tile/1/0/0"); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
	if _, ok, _ := b.Get(ctx, "tile/1/0/0"); ok {
		t.Error("Delete should remove the file")
	}
}

func TestFileBackendKeysMissingDirectory(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	keys, err := b.Keys(context.Background(), "tile/7/")
	if err != nil || len(keys) != 0 {
		t.Errorf("Keys on missing depth = (%v, %v), want empty", keys, err)
	}
}

func TestFileBackendRejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"", "../outside", "/abs/key", "tile/../../x"} {
		if err := b.Set(ctx, key, []byte("x")); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Set(%q) = %v, want INVALID_INPUT", key, err)
		}
	}
}

func TestNewFileBackendValidatesDirectory(t *testing.T) {
	if _, err := NewFileBackend(""); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewFileBackend(\"\") = %v, want INVALID_CONFIG", err)
	}
}
