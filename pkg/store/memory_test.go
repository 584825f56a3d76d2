package store

import (
	"context"
	"testing"

	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/pyramid"
	"github.com/matzehuels/tilecascade/pkg/raster"
)

func uniformTile(v float64) *raster.Buffer {
	b := raster.NewBuffer(raster.TileSize, 1, raster.Uint8)
	b.Fill(v)
	return b
}

func TestMemoryReadWrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	addr := pyramid.Address{Depth: 2, X: 1, Y: 3}

	buf, ok, err := m.Read(ctx, addr, raster.ModeL)
	if err != nil || ok || buf != nil {
		t.Fatalf("Read on empty store = (%v, %v, %v), want (nil, false, nil)", buf, ok, err)
	}

	in := uniformTile(42)
	if err := m.Write(ctx, addr, in); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	in.Fill(0) // the store keeps its own copy

	out, ok, err := m.Read(ctx, addr, raster.ModeL)
	if err != nil || !ok {
		t.Fatalf("Read = (%v, %v), want hit", ok, err)
	}
	if v, ok := out.Uniform(); !ok || v != 42 {
		t.Errorf("Read tile uniform = (%v, %v), want (42, true)", v, ok)
	}

	reads, writes := m.Counts()
	if reads != 2 || writes != 1 {
		t.Errorf("Counts() = (%d, %d), want (2, 1)", reads, writes)
	}
}

func TestMemoryReadModeMismatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Write(ctx, pyramid.Root, uniformTile(1)); err != nil {
		t.Fatal(err)
	}

	_, _, err := m.Read(ctx, pyramid.Root, raster.ModeRGB)
	if !errors.Is(err, errors.ErrCodeShape) {
		t.Errorf("Read with wrong mode = %v, want SHAPE_MISMATCH", err)
	}
}

func TestMemoryReadKeepsMask(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Write(ctx, pyramid.Root, uniformTile(255)); err != nil {
		t.Fatal(err)
	}

	// The sentinel only matters at ingest; stored valid samples stay valid.
	out, ok, err := m.Read(ctx, pyramid.Root, raster.ModeL.WithNoData(255))
	if err != nil || !ok {
		t.Fatalf("Read = (%v, %v)", ok, err)
	}
	if out.ValidCount() != out.Len() {
		t.Errorf("ValidCount = %d, want %d", out.ValidCount(), out.Len())
	}
}

func TestMemoryListDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	addrs := []pyramid.Address{{Depth: 2, X: 3}, {Depth: 2, Y: 1}, {Depth: 1}, {Depth: 2, X: 1}}
	for _, a := range addrs {
		if err := m.Write(ctx, a, uniformTile(1)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := m.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []pyramid.Address{{Depth: 2, X: 1}, {Depth: 2, X: 3}, {Depth: 2, Y: 1}}
	if len(got) != len(want) {
		t.Fatalf("List(2) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List(2)[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if err := m.Delete(ctx, pyramid.Address{Depth: 2, X: 3}); err != nil {
		t.Fatal(err)
	}
	if m.Has(pyramid.Address{Depth: 2, X: 3}) {
		t.Error("Delete should remove the tile")
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
}
