// Package cascade builds the shallower levels of a tile pyramid from a
// populated deep level.
//
// # Overview
//
// Given a start depth N whose tiles are already in a [store.TileStore],
// [Engine.Cascade] visits every address from depth N-1 up to the root.
// For each address it reads the four children, assembles them into a
// 512x512 composite (top-left, top-right, bottom-left, bottom-right),
// hands the composite to a [merge.Merger] and writes the 256x256 result.
//
//	eng := cascade.New(cascade.WithLogger(logger))
//	stats, err := eng.Cascade(ctx, st, raster.ModeRGB, 12, merge.Average, nil)
//
// # Sparse Pyramids
//
// An address whose four children are all absent is skipped: nothing is
// merged or written, so empty regions stay empty all the way up. Quadrants
// of a partially covered parent stay no-data in the composite and are
// excluded by no-data aware mergers.
//
// # Progress and Cancellation
//
// A [Progress] observer receives exactly one Tick per visited address,
// written or skipped, so its total is [pyramid.TileCountBelow] of the
// start depth. Observers implementing [Sizer] are told that total before
// the first tick.
//
// The context is checked between addresses only. A store or merger
// failure aborts the call; the engine never retries. Wrap the store with
// [store.NewRetrying] for resilience against transient backend errors.
package cascade
