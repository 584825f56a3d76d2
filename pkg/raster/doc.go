// Package raster provides the pixel buffer type shared by every stage of
// the tile cascade.
//
// # Overview
//
// A [Buffer] is a square, multi-band array of samples with a per-sample
// validity mask. Samples are held as float64 regardless of the element type
// so that mergers can accumulate without overflow; every write goes through
// [DType.Cast] so the stored value is always representable in the buffer's
// element type.
//
// A [Mode] describes how tiles of a pyramid are typed: element type, band
// count and the optional no-data sentinel. Modes are looked up by name with
// [LookupMode]:
//
//	mode, err := raster.LookupMode("RGB")
//	buf, err := mode.NewBuffer(raster.TileSize)
//
// # No-data
//
// A sample is no-data when its mask bit is false. Sentinel values
// ([Mode.NoData], or NaN for floating modes) are translated into mask bits
// once, when pixels are ingested, with [Mode.Apply]. From then on the mask
// is authoritative: stores keep it and a merged value that happens to equal
// the sentinel stays valid.
package raster

const (
	// TileSize is the edge length of a single pyramid tile.
	TileSize = 256

	// CompositeSize is the edge length of a 2x2 block of tiles.
	CompositeSize = 2 * TileSize

	// MaxBands is the largest band count a mode may declare.
	MaxBands = 64
)
