// Package store persists pyramid tiles.
//
// # Overview
//
// The cascade engine talks to storage through [TileStore], which reads and
// writes [raster.Buffer] values by [pyramid.Address]. A missing tile is not
// an error: Read returns (nil, false, nil) so sparse pyramids need no
// placeholder tiles.
//
// Implementations:
//
//   - [Memory]: in-process map, used by tests and dry runs
//   - [BlobStore]: encodes tiles with the zstd tile codec and keeps them in a
//     [Backend] (file system, Redis, MongoDB or the discarding null backend)
//
// [Open] builds a store from a URI:
//
//	mem://
//	null://
//	file:///var/lib/tiles          (or a plain path)
//	redis://localhost:6379/0?prefix=ortho:
//	mongodb://localhost:27017/gis?collection=tiles&prefix=ortho:
//
// # Errors and Retries
//
// Backend failures surface as STORE_READ or STORE_WRITE errors. Backends
// mark transient failures (timeouts, dropped connections) with [Retryable];
// wrap a store with [NewRetrying] to retry those. The cascade engine itself
// never retries.
package store
