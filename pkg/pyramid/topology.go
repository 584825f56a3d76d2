package pyramid

import (
	"iter"

	"github.com/matzehuels/tilecascade/pkg/errors"
)

// Topology enumerates pyramid addresses for the cascade engine.
type Topology interface {
	// Children returns the four child addresses in quadrant order
	// (top-left, top-right, bottom-left, bottom-right).
	Children(a Address) [4]Address

	// Addresses yields every valid address at depth exactly once.
	Addresses(depth int) iter.Seq[Address]

	// TileCountBelow returns the number of addresses at all depths
	// strictly shallower than depth.
	TileCountBelow(depth int) int
}

// QuadTree is the standard quad-tree topology with row-major enumeration.
type QuadTree struct{}

// Children implements Topology.
func (QuadTree) Children(a Address) [4]Address {
	return a.Children()
}

// Addresses implements Topology, enumerating row by row.
func (QuadTree) Addresses(depth int) iter.Seq[Address] {
	return func(yield func(Address) bool) {
		if depth < 0 || depth > errors.MaxDepth {
			return
		}
		n := Side(depth)
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				if !yield(Address{Depth: depth, X: x, Y: y}) {
					return
				}
			}
		}
	}
}

// TileCountBelow implements Topology.
func (QuadTree) TileCountBelow(depth int) int {
	return TileCountBelow(depth)
}

// Quadrant offsets in tile units, indexed by child position.
var Quadrants = [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// VerifyChildOrder checks that topo returns the children of a in quadrant
// order. A mismatch is a configuration error: assembling composites from a
// differently ordered topology would transpose tiles silently.
func VerifyChildOrder(topo Topology, a Address) error {
	return CheckChildren(a, topo.Children(a))
}

// VerifyLevels runs VerifyChildOrder on the first and last address of
// every depth shallower than depth.
func VerifyLevels(topo Topology, depth int) error {
	for d := 0; d < depth; d++ {
		last := Side(d) - 1
		for _, a := range []Address{{Depth: d}, {Depth: d, X: last, Y: last}} {
			if err := VerifyChildOrder(topo, a); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckChildren fails with TOPOLOGY_MISMATCH unless children are the
// children of a in quadrant order.
func CheckChildren(a Address, children [4]Address) error {
	for i, c := range children {
		want := Address{Depth: a.Depth + 1, X: 2*a.X + Quadrants[i][0], Y: 2*a.Y + Quadrants[i][1]}
		if c != want {
			return errors.New(errors.ErrCodeTopology,
				"child %d of %s is %s, want %s (children must be ordered top-left, top-right, bottom-left, bottom-right)",
				i, a, c, want)
		}
	}
	return nil
}
