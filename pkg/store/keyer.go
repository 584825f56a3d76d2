package store

import (
	"fmt"
	"strings"

	"github.com/matzehuels/tilecascade/pkg/pyramid"
)

// Keyer maps tile addresses to backend keys.
type Keyer interface {
	// TileKey returns the key under which the tile at a is stored.
	TileKey(a pyramid.Address) string

	// DepthPrefix returns the common prefix of all tile keys at depth.
	DepthPrefix(depth int) string

	// ParseTileKey reverses TileKey. ok is false for foreign keys.
	ParseTileKey(key string) (a pyramid.Address, ok bool)
}

// DefaultKeyer produces keys of the form "tile/<depth>/<x>/<y>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TileKey implements Keyer.
func (DefaultKeyer) TileKey(a pyramid.Address) string {
	return fmt.Sprintf("tile/%d/%d/%d", a.Depth, a.X, a.Y)
}

// DepthPrefix implements Keyer.
func (DefaultKeyer) DepthPrefix(depth int) string {
	return fmt.Sprintf("tile/%d/", depth)
}

// ParseTileKey implements Keyer.
func (DefaultKeyer) ParseTileKey(key string) (pyramid.Address, bool) {
	rest, ok := strings.CutPrefix(key, "tile/")
	if !ok {
		return pyramid.Address{}, false
	}
	a, err := pyramid.ParseAddress(rest)
	if err != nil {
		return pyramid.Address{}, false
	}
	return a, true
}

// ScopedKeyer wraps a Keyer with a prefix so several pyramids can share one
// backend.
//
// Example usage:
//
//	// Separate namespaces for two products in the same Redis database
//	ortho := NewScopedKeyer(NewDefaultKeyer(), "ortho:")
//	dem := NewScopedKeyer(NewDefaultKeyer(), "dem:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TileKey implements Keyer.
func (k *ScopedKeyer) TileKey(a pyramid.Address) string {
	return k.prefix + k.inner.TileKey(a)
}

// DepthPrefix implements Keyer.
func (k *ScopedKeyer) DepthPrefix(depth int) string {
	return k.prefix + k.inner.DepthPrefix(depth)
}

// ParseTileKey implements Keyer.
func (k *ScopedKeyer) ParseTileKey(key string) (pyramid.Address, bool) {
	rest, ok := strings.CutPrefix(key, k.prefix)
	if !ok {
		return pyramid.Address{}, false
	}
	return k.inner.ParseTileKey(rest)
}
