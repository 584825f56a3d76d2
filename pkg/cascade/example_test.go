package cascade_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/tilecascade/pkg/cascade"
	"github.com/matzehuels/tilecascade/pkg/merge"
	"github.com/matzehuels/tilecascade/pkg/pyramid"
	"github.com/matzehuels/tilecascade/pkg/raster"
	"github.com/matzehuels/tilecascade/pkg/store"
)

func Example() {
	ctx := context.Background()
	st := store.NewMemory()

	// Populate one corner of depth 2.
	tile, _ := raster.ModeL.NewBuffer(raster.TileSize)
	tile.Fill(128)
	_ = st.Write(ctx, pyramid.Address{Depth: 2, X: 0, Y: 0}, tile)

	var progress cascade.Counter
	stats, err := cascade.New().Cascade(ctx, st, raster.ModeL, 2, merge.Average, &progress)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("written:", stats.Written)
	fmt.Println("skipped:", stats.Skipped)
	fmt.Printf("progress: %d/%d\n", progress.Visited(), progress.Total())
	// Output:
	// written: 2
	// skipped: 3
	// progress: 5/5
}
