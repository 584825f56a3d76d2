package merge

import (
	"sort"
	"sync"

	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/raster"
)

// DefaultMerger is the name of the merger used when none is configured.
const DefaultMerger = "average"

// Merger downsamples a 512x512 composite into a 256x256 tile.
type Merger interface {
	Merge(composite *raster.Buffer) (*raster.Buffer, error)
}

// MergerFunc adapts an ordinary function to the Merger interface.
type MergerFunc func(composite *raster.Buffer) (*raster.Buffer, error)

// Merge calls f(composite).
func (f MergerFunc) Merge(composite *raster.Buffer) (*raster.Buffer, error) {
	return f(composite)
}

// CheckComposite fails with SHAPE_MISMATCH unless c is a square 512x512
// buffer with consistent backing storage.
func CheckComposite(c *raster.Buffer) error {
	if c == nil {
		return errors.New(errors.ErrCodeShape, "composite is nil")
	}
	if c.Size != raster.CompositeSize {
		return errors.New(errors.ErrCodeShape, "composite is %dx%d, want %dx%d",
			c.Size, c.Size, raster.CompositeSize, raster.CompositeSize)
	}
	return c.CheckShape(raster.CompositeSize, c.Bands, c.DType)
}

// Reduce builds a Merger from a block reduction. For every 2x2 block and
// band, fn receives the valid samples in quadrant order (top-left,
// top-right, bottom-left, bottom-right) and returns the output value.
// Blocks without any valid sample become no-data without calling fn.
func Reduce(fn func(valid []float64) float64) Merger {
	return MergerFunc(func(c *raster.Buffer) (*raster.Buffer, error) {
		if err := CheckComposite(c); err != nil {
			return nil, err
		}
		out := raster.NewBuffer(raster.TileSize, c.Bands, c.DType)
		var vals [4]float64
		for oy := 0; oy < raster.TileSize; oy++ {
			for ox := 0; ox < raster.TileSize; ox++ {
				for band := 0; band < c.Bands; band++ {
					n := 0
					for _, d := range blockOffsets {
						i := c.Index(2*ox+d[0], 2*oy+d[1], band)
						if c.Valid[i] {
							vals[n] = c.Samples[i]
							n++
						}
					}
					if n > 0 {
						out.Set(ox, oy, band, fn(vals[:n]))
					}
				}
			}
		}
		return out, nil
	})
}

// blockOffsets lists (dx, dy) of a 2x2 block in quadrant order.
var blockOffsets = [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

var (
	registryMu sync.RWMutex
	registry   = map[string]Merger{}
)

// Register makes a merger available by name, replacing any previous
// registration under the same name.
func Register(name string, m Merger) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if m != nil {
		registry[name] = m
	}
}

// Lookup returns the merger registered under name.
func Lookup(name string) (Merger, error) {
	if name == "" {
		name = DefaultMerger
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := registry[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown merger %q (available: %v)", name, namesLocked())
	}
	return m, nil
}

// Names returns the registered merger names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("average", Average)
	Register("max", Max)
	Register("nearest", Nearest)
}
