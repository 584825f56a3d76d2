package merge_test

import (
	"fmt"

	"github.com/matzehuels/tilecascade/pkg/merge"
	"github.com/matzehuels/tilecascade/pkg/raster"
)

func ExampleAverage() {
	composite := raster.NewBuffer(raster.CompositeSize, 1, raster.Uint8)

	// One block with two valid samples, the other two are no-data.
	composite.Set(0, 0, 0, 10)
	composite.Set(1, 1, 0, 20)

	tile, err := merge.Average.Merge(composite)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	v, ok := tile.At(0, 0, 0)
	fmt.Println("Size:", tile.Size)
	fmt.Println("Value:", v, ok)
	_, ok = tile.At(1, 0, 0)
	fmt.Println("Empty block valid:", ok)
	// Output:
	// Size: 256
	// Value: 15 true
	// Empty block valid: false
}

func ExampleReduce() {
	// Minimum pooling as a custom merger.
	minimum := merge.Reduce(func(valid []float64) float64 {
		m := valid[0]
		for _, v := range valid[1:] {
			m = min(m, v)
		}
		return m
	})

	composite := raster.NewBuffer(raster.CompositeSize, 1, raster.Float32)
	composite.Fill(4)
	composite.Set(1, 0, 0, 2)

	tile, _ := minimum.Merge(composite)
	v, _ := tile.At(0, 0, 0)
	fmt.Println(v)
	// Output: 2
}
