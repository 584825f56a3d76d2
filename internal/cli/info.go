package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/pyramid"
	"github.com/matzehuels/tilecascade/pkg/raster"
	"github.com/matzehuels/tilecascade/pkg/store"
)

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var (
		depth    int
		storeURI string
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the size of each pyramid level",
		Long: `Show tile counts and pixel extents for every level down to --depth.

With --store, the number of tiles present at each level is listed too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateDepth(depth); err != nil {
				return err
			}

			var present map[int]int
			if storeURI != "" {
				var err error
				present, err = c.countTiles(cmd.Context(), storeURI, depth)
				if err != nil {
					return err
				}
			}

			fmt.Println(StyleTitle.Render(fmt.Sprintf("Pyramid to depth %d", depth)))
			headers, rows := infoTable(depth, present)
			fmt.Println(renderTable(headers, rows, 1, 2, 3, 4))
			printDetail("%d tiles above depth %d", pyramid.TileCountBelow(depth), depth)
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "deepest level to show")
	storeFlag(cmd, &storeURI)
	_ = cmd.MarkFlagRequired("depth")

	return cmd
}

// countTiles lists the tiles present at each depth of the store.
func (c *CLI) countTiles(ctx context.Context, uri string, depth int) (map[int]int, error) {
	s, err := store.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer store.Close(s)

	l, ok := store.AsLister(s)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "store %s cannot list tiles", store.Scheme(uri))
	}
	counts := make(map[int]int, depth+1)
	for d := 0; d <= depth; d++ {
		addrs, err := l.List(ctx, d)
		if err != nil {
			return nil, err
		}
		counts[d] = len(addrs)
		c.Logger.Debug("listed depth", "depth", d, "tiles", len(addrs))
	}
	return counts, nil
}

// infoTable builds the rows of the info table. present may be nil.
func infoTable(depth int, present map[int]int) ([]string, [][]string) {
	headers := []string{"Depth", "Tiles", "Edge (px)", "Tiles above"}
	if present != nil {
		headers = append(headers, "Present")
	}

	rows := make([][]string, 0, depth+1)
	for d := 0; d <= depth; d++ {
		row := []string{
			strconv.Itoa(d),
			strconv.Itoa(pyramid.TilesAt(d)),
			strconv.Itoa(pyramid.Side(d) * raster.TileSize),
			strconv.Itoa(pyramid.TileCountBelow(d)),
		}
		if present != nil {
			n := present[d]
			row = append(row, fmt.Sprintf("%d (%.1f%%)", n, 100*float64(n)/float64(pyramid.TilesAt(d))))
		}
		rows = append(rows, row)
	}
	return headers, rows
}
