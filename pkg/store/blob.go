package store

import (
	"context"

	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/observability"
	"github.com/matzehuels/tilecascade/pkg/pyramid"
	"github.com/matzehuels/tilecascade/pkg/raster"
)

// BlobStore is a TileStore that keeps encoded tiles in a Backend.
type BlobStore struct {
	Backend Backend
	Keyer   Keyer
}

// NewBlobStore creates a store on top of backend.
// If keyer is nil, a DefaultKeyer is used.
func NewBlobStore(backend Backend, keyer Keyer) *BlobStore {
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	return &BlobStore{Backend: backend, Keyer: keyer}
}

// Read implements TileStore.
func (s *BlobStore) Read(ctx context.Context, addr pyramid.Address, mode raster.Mode) (*raster.Buffer, bool, error) {
	hooks := observability.Store()
	data, ok, err := s.Backend.Get(ctx, s.Keyer.TileKey(addr))
	if err != nil {
		hooks.OnStoreError(ctx, s.Backend.Name(), "get", err)
		return nil, false, errors.Wrap(errors.ErrCodeStoreRead, err, "read tile %s from %s", addr, s.Backend.Name())
	}
	hooks.OnTileRead(ctx, s.Backend.Name(), ok)
	if !ok {
		return nil, false, nil
	}

	buf, err := DecodeTile(data)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStoreRead, err, "decode tile %s", addr)
	}
	if buf.Size != raster.TileSize {
		return nil, false, errors.New(errors.ErrCodeShape, "tile %s is %dx%d, want %dx%d",
			addr, buf.Size, buf.Size, raster.TileSize, raster.TileSize)
	}
	if !mode.Matches(buf) {
		return nil, false, errors.New(errors.ErrCodeShape, "tile %s is %sx%d, mode %s wants %sx%d",
			addr, buf.DType, buf.Bands, mode.Name, mode.DType, mode.Bands)
	}
	return buf, true, nil
}

// Write implements TileStore.
func (s *BlobStore) Write(ctx context.Context, addr pyramid.Address, buf *raster.Buffer) error {
	data, err := EncodeTile(buf)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "encode tile %s", addr)
	}
	if err := s.Backend.Set(ctx, s.Keyer.TileKey(addr), data); err != nil {
		observability.Store().OnStoreError(ctx, s.Backend.Name(), "set", err)
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "write tile %s to %s", addr, s.Backend.Name())
	}
	observability.Store().OnTileWrite(ctx, s.Backend.Name(), len(data))
	return nil
}

// Delete implements Deleter.
func (s *BlobStore) Delete(ctx context.Context, addr pyramid.Address) error {
	if err := s.Backend.Delete(ctx, s.Keyer.TileKey(addr)); err != nil {
		observability.Store().OnStoreError(ctx, s.Backend.Name(), "delete", err)
		return errors.Wrap(errors.ErrCodeStoreWrite, err, "delete tile %s from %s", addr, s.Backend.Name())
	}
	return nil
}

// List implements Lister. Keys that don't parse as tile keys are ignored.
func (s *BlobStore) List(ctx context.Context, depth int) ([]pyramid.Address, error) {
	keys, err := s.Backend.Keys(ctx, s.Keyer.DepthPrefix(depth))
	if err != nil {
		observability.Store().OnStoreError(ctx, s.Backend.Name(), "keys", err)
		return nil, errors.Wrap(errors.ErrCodeStoreRead, err, "list depth %d in %s", depth, s.Backend.Name())
	}
	addrs := make([]pyramid.Address, 0, len(keys))
	for _, k := range keys {
		if a, ok := s.Keyer.ParseTileKey(k); ok && a.Depth == depth {
			addrs = append(addrs, a)
		}
	}
	sortAddresses(addrs)
	return addrs, nil
}

// Close closes the backend.
func (s *BlobStore) Close() error {
	return s.Backend.Close()
}

// Ensure BlobStore implements the store interfaces.
var (
	_ TileStore = (*BlobStore)(nil)
	_ Lister    = (*BlobStore)(nil)
	_ Deleter   = (*BlobStore)(nil)
)
