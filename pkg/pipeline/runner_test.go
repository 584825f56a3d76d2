package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/tilecascade/pkg/cascade"
	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/pyramid"
	"github.com/matzehuels/tilecascade/pkg/raster"
	"github.com/matzehuels/tilecascade/pkg/store"
)

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	uri := "file://" + t.TempDir()

	seedStore, err := store.Open(ctx, uri)
	if err != nil {
		t.Fatal(err)
	}
	tile := raster.NewBuffer(raster.TileSize, 3, raster.Uint8)
	tile.Fill(33)
	for _, a := range []pyramid.Address{{Depth: 2, X: 3, Y: 3}, {Depth: 2, X: 0, Y: 0}} {
		if err := seedStore.Write(ctx, a, tile); err != nil {
			t.Fatal(err)
		}
	}

	var progress cascade.Counter
	result, err := NewRunner(nil).Execute(ctx, Options{
		Store:      uri,
		Mode:       "RGB",
		StartDepth: 2,
		Retry:      true,
	}, &progress)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.Mode.Name != "RGB" || result.Merger != DefaultMerger {
		t.Errorf("result mode/merger = %s/%s", result.Mode.Name, result.Merger)
	}
	if result.Stats.Written != 3 || result.Stats.Skipped != 2 {
		t.Errorf("stats = %+v, want 3 written and 2 skipped", result.Stats)
	}
	if progress.Visited() != 5 {
		t.Errorf("progress ticks = %d, want 5", progress.Visited())
	}

	root, ok, err := seedStore.Read(ctx, pyramid.Root, raster.ModeRGB)
	if err != nil || !ok {
		t.Fatalf("root not written: ok=%v err=%v", ok, err)
	}
	if st := root.Stats(); st.Min != 33 || st.Max != 33 {
		t.Errorf("root range = [%v, %v], want 33", st.Min, st.Max)
	}
}

func TestRunnerExecuteModeMismatch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	uri := "file://" + dir

	s, err := store.Open(ctx, uri)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, pyramid.Address{Depth: 1}, raster.NewBuffer(raster.TileSize, 1, raster.Uint16)); err != nil {
		t.Fatal(err)
	}

	_, err = NewRunner(nil).Execute(ctx, Options{Store: uri, Mode: "L", StartDepth: 1}, nil)
	if !errors.Is(err, errors.ErrCodeShape) {
		t.Errorf("Execute error = %v, want SHAPE_MISMATCH", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "tile", "0")); !os.IsNotExist(statErr) {
		t.Error("root should not be written after a failed cascade")
	}
}

func TestRunnerExecuteInvalidOptions(t *testing.T) {
	_, err := NewRunner(nil).Execute(context.Background(), Options{StartDepth: 2}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Execute error = %v, want INVALID_CONFIG", err)
	}
}

func TestRunnerOpenStoreRetry(t *testing.T) {
	s, err := NewRunner(nil).OpenStore(context.Background(), Options{Store: "mem://", Retry: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*store.Retrying); !ok {
		t.Errorf("OpenStore with Retry returned %T, want *store.Retrying", s)
	}
}
