// Package merge implements the 2x2 downsampling step of the tile cascade.
//
// # Merger Protocol
//
// A [Merger] turns a 512x512 composite (four child tiles laid out as
// top-left, top-right, bottom-left, bottom-right) into one 256x256 parent
// tile. Every implementation must:
//
//   - halve height and width while keeping the band count
//   - return a buffer of the same element type as its input
//   - exclude no-data samples from the reduction, producing no-data only
//     when all four samples of a block are no-data
//   - leave the composite untouched; the caller reuses it for the next tile
//
// # Available Mergers
//
//   - [Average]: no-data aware arithmetic mean (the default)
//   - [Max]: maximum of the valid samples
//   - [Nearest]: first valid sample in quadrant order (decimation)
//
// Custom mergers can be passed directly to the cascade engine as any value
// implementing [Merger], or wrapped with [MergerFunc], and made available by
// name with [Register].
package merge
