package store

import (
	"context"

	"github.com/matzehuels/tilecascade/pkg/pyramid"
	"github.com/matzehuels/tilecascade/pkg/raster"
)

// TileStore reads and writes tiles by address.
type TileStore interface {
	// Read returns the tile at addr decoded for mode. The boolean is false,
	// with a nil error, when no tile is stored at addr.
	Read(ctx context.Context, addr pyramid.Address, mode raster.Mode) (*raster.Buffer, bool, error)

	// Write persists buf at addr, replacing any existing tile.
	Write(ctx context.Context, addr pyramid.Address, buf *raster.Buffer) error
}

// Lister is implemented by stores that can enumerate their tiles.
type Lister interface {
	// List returns the addresses of all tiles stored at depth.
	List(ctx context.Context, depth int) ([]pyramid.Address, error)
}

// Deleter is implemented by stores that can remove tiles.
type Deleter interface {
	// Delete removes the tile at addr. Deleting an absent tile is not an error.
	Delete(ctx context.Context, addr pyramid.Address) error
}

// Close releases the resources held by s if it implements io.Closer.
func Close(s TileStore) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// AsLister returns s as a Lister, looking through wrappers such as Retrying.
func AsLister(s TileStore) (Lister, bool) {
	for s != nil {
		if l, ok := s.(Lister); ok {
			return l, true
		}
		s = unwrap(s)
	}
	return nil, false
}

// AsDeleter returns s as a Deleter, looking through wrappers such as Retrying.
func AsDeleter(s TileStore) (Deleter, bool) {
	for s != nil {
		if d, ok := s.(Deleter); ok {
			return d, true
		}
		s = unwrap(s)
	}
	return nil, false
}

func unwrap(s TileStore) TileStore {
	if w, ok := s.(interface{ Unwrap() TileStore }); ok {
		return w.Unwrap()
	}
	return nil
}
