package cascade

import (
	"context"
	"testing"

	"github.com/matzehuels/tilecascade/pkg/merge"
	"github.com/matzehuels/tilecascade/pkg/pyramid"
	"github.com/matzehuels/tilecascade/pkg/raster"
	"github.com/matzehuels/tilecascade/pkg/store"
)

func TestCounter(t *testing.T) {
	var c Counter
	if c.Fraction() != 0 {
		t.Errorf("Fraction() without total = %v, want 0", c.Fraction())
	}

	c.SetTotal(4)
	c.Tick()
	if got := c.Fraction(); got != 0.25 {
		t.Errorf("Fraction() = %v, want 0.25", got)
	}
	for range 5 {
		c.Tick()
	}
	if c.Visited() != 6 {
		t.Errorf("Visited() = %d, want 6", c.Visited())
	}
	if got := c.Fraction(); got != 1 {
		t.Errorf("Fraction() = %v, want clamped to 1", got)
	}
}

func TestArenaReuse(t *testing.T) {
	var a arena
	first := a.composite(3, raster.Uint8)
	first.Samples[0], first.Valid[0] = 7, true

	again := a.composite(3, raster.Uint8)
	if again != first {
		t.Fatal("same layout should reuse the buffer")
	}
	if again.Valid[0] || again.Samples[0] != 0 {
		t.Error("reused composite was not cleared")
	}
	if other := a.composite(1, raster.Uint8); other == first || other.Bands != 1 {
		t.Error("layout change should allocate a new buffer")
	}
}

func TestCascadeTypedNilProgress(t *testing.T) {
	observers := []struct {
		name     string
		progress Progress
	}{
		{"nil counter", (*Counter)(nil)},
		{"nil func", ProgressFunc(nil)},
	}

	for _, tt := range observers {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemory()
			seed(t, s, map[pyramid.Address]float64{{Depth: 1, X: 1, Y: 1}: 7})

			stats, err := Cascade(context.Background(), s, raster.ModeL, 1, merge.Average, tt.progress)
			if err != nil {
				t.Fatalf("Cascade error: %v", err)
			}
			if stats.Written != 1 {
				t.Errorf("Written = %d, want 1", stats.Written)
			}
		})
	}

	var c *Counter
	if c.Visited() != 0 || c.Total() != 0 || c.Fraction() != 0 {
		t.Error("nil Counter should report zero")
	}
}
