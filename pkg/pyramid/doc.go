// Package pyramid implements quad-tree tile addressing.
//
// Depth 0 holds the single root tile; depth d holds 2^d x 2^d tiles. A tile
// at (d, x, y) has four children at depth d+1 which, in the canonical order
// used throughout tilecascade, are:
//
//	0: (2x,   2y)   top-left
//	1: (2x+1, 2y)   top-right
//	2: (2x,   2y+1) bottom-left
//	3: (2x+1, 2y+1) bottom-right
//
// The cascade engine consumes addressing through the [Topology] interface so
// alternative enumerations can be plugged in; [VerifyChildOrder] and
// [VerifyLevels] guard against topologies whose child order would transpose
// quadrants.
package pyramid
