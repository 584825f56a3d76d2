package pyramid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/tilecascade/pkg/errors"
)

// Address identifies one tile of the pyramid.
type Address struct {
	Depth int
	X     int
	Y     int
}

// Root is the single tile at depth 0.
var Root = Address{}

// Valid reports whether the coordinates lie inside the level.
func (a Address) Valid() bool {
	if a.Depth < 0 || a.Depth > errors.MaxDepth {
		return false
	}
	n := Side(a.Depth)
	return a.X >= 0 && a.Y >= 0 && a.X < n && a.Y < n
}

// Parent returns the tile one level up. The root is its own parent.
func (a Address) Parent() Address {
	if a.Depth == 0 {
		return a
	}
	return Address{Depth: a.Depth - 1, X: a.X / 2, Y: a.Y / 2}
}

// Children returns the four tiles one level down in quadrant order.
func (a Address) Children() [4]Address {
	d, x, y := a.Depth+1, 2*a.X, 2*a.Y
	return [4]Address{
		{Depth: d, X: x, Y: y},
		{Depth: d, X: x + 1, Y: y},
		{Depth: d, X: x, Y: y + 1},
		{Depth: d, X: x + 1, Y: y + 1},
	}
}

// Quadrant returns which child of its parent a is (0..3).
func (a Address) Quadrant() int {
	return (a.Y%2)*2 + a.X%2
}

// String formats the address as "depth/x/y".
func (a Address) String() string {
	return fmt.Sprintf("%d/%d/%d", a.Depth, a.X, a.Y)
}

// ParseAddress parses the "depth/x/y" form produced by String.
func ParseAddress(s string) (Address, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Address{}, errors.New(errors.ErrCodeInvalidAddress, "address %q must have the form depth/x/y", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Address{}, errors.New(errors.ErrCodeInvalidAddress, "address %q: %q is not an integer", s, p)
		}
		v[i] = n
	}
	a := Address{Depth: v[0], X: v[1], Y: v[2]}
	if !a.Valid() {
		return Address{}, errors.New(errors.ErrCodeInvalidAddress, "address %s is outside the pyramid", a)
	}
	return a, nil
}

// Side returns the number of tiles along one edge at depth.
func Side(depth int) int {
	return 1 << depth
}

// TilesAt returns the number of tiles at depth (4^depth).
func TilesAt(depth int) int {
	return 1 << (2 * depth)
}

// TileCountBelow returns the number of tiles at all depths strictly
// shallower than depth: sum of 4^k for k < depth.
func TileCountBelow(depth int) int {
	if depth <= 0 {
		return 0
	}
	return (TilesAt(depth) - 1) / 3
}
