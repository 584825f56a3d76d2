package store

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/pyramid"
	"github.com/matzehuels/tilecascade/pkg/raster"
)

// Memory is a goroutine-safe in-process tile store. Buffers are copied on
// both read and write so callers may reuse theirs.
type Memory struct {
	mu     sync.RWMutex
	tiles  map[pyramid.Address]*raster.Buffer
	reads  int
	writes int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tiles: make(map[pyramid.Address]*raster.Buffer)}
}

// Read implements TileStore.
func (m *Memory) Read(ctx context.Context, addr pyramid.Address, mode raster.Mode) (*raster.Buffer, bool, error) {
	m.mu.Lock()
	m.reads++
	buf, ok := m.tiles[addr]
	m.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	if !mode.Matches(buf) {
		return nil, false, errors.New(errors.ErrCodeShape, "tile %s is %sx%d, mode %s wants %sx%d",
			addr, buf.DType, buf.Bands, mode.Name, mode.DType, mode.Bands)
	}
	return buf.Clone(), true, nil
}

// Write implements TileStore.
func (m *Memory) Write(ctx context.Context, addr pyramid.Address, buf *raster.Buffer) error {
	if buf == nil {
		return errors.New(errors.ErrCodeStoreWrite, "write tile %s: nil buffer", addr)
	}
	c := buf.Clone()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	m.tiles[addr] = c
	return nil
}

// Delete implements Deleter.
func (m *Memory) Delete(ctx context.Context, addr pyramid.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tiles, addr)
	return nil
}

// List implements Lister. Addresses are sorted row-major.
func (m *Memory) List(ctx context.Context, depth int) ([]pyramid.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []pyramid.Address
	for a := range m.tiles {
		if a.Depth == depth {
			out = append(out, a)
		}
	}
	sortAddresses(out)
	return out, nil
}

// Has reports whether a tile is stored at addr.
func (m *Memory) Has(addr pyramid.Address) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tiles[addr]
	return ok
}

// Len returns the number of stored tiles.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tiles)
}

// Counts returns the number of Read and Write calls served so far.
func (m *Memory) Counts() (reads, writes int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads, m.writes
}

func sortAddresses(addrs []pyramid.Address) {
	sort.Slice(addrs, func(i, j int) bool {
		a, b := addrs[i], addrs[j]
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}

// Ensure Memory implements the store interfaces.
var (
	_ TileStore = (*Memory)(nil)
	_ Lister    = (*Memory)(nil)
	_ Deleter   = (*Memory)(nil)
)
