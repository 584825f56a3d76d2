package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/pipeline"
	"github.com/matzehuels/tilecascade/pkg/pyramid"
	"github.com/matzehuels/tilecascade/pkg/raster"
	"github.com/matzehuels/tilecascade/pkg/store"
)

// tileFlags holds the flags shared by the tile subcommands.
type tileFlags struct {
	store  string
	mode   string
	nodata float64
}

// options builds pipeline options for opening the store and resolving the mode.
func (f tileFlags) options(cmd *cobra.Command) pipeline.Options {
	opts := pipeline.Options{Store: resolveStore(f.store), Mode: f.mode}
	if cmd.Flags().Changed("nodata") {
		v := f.nodata
		opts.NoData = &v
	}
	return opts
}

func (f *tileFlags) register(cmd *cobra.Command) {
	storeFlag(cmd, &f.store)
	cmd.Flags().StringVarP(&f.mode, "mode", "m", pipeline.DefaultMode, "pixel mode of the pyramid")
	cmd.Flags().Float64Var(&f.nodata, "nodata", 0, "sample value that marks no-data")
	_ = cmd.RegisterFlagCompletionFunc("mode", completeNames(raster.ModeNames))
}

// tileCommand creates the tile command group.
func (c *CLI) tileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tile",
		Short: "Inspect, export, import or remove single tiles",
		Long: `Inspect, export, import or remove single tiles.

Addresses are written depth/x/y, e.g. 3/5/2. Images are PNG or TIFF,
chosen by file extension; 16-bit modes need TIFF or 16-bit PNG.`,
	}

	cmd.AddCommand(c.tileGetCommand())
	cmd.AddCommand(c.tileExportCommand())
	cmd.AddCommand(c.tileImportCommand())
	cmd.AddCommand(c.tileRmCommand())

	return cmd
}

// withTileStore opens the store and resolves the mode for a tile subcommand.
func (c *CLI) withTileStore(ctx context.Context, cmd *cobra.Command, f tileFlags, fn func(store.TileStore, raster.Mode) error) error {
	opts := f.options(cmd)
	runner := c.newRunner(nil)
	s, err := runner.OpenStore(ctx, opts)
	if err != nil {
		return err
	}
	defer store.Close(s)

	mode, err := opts.ResolveMode()
	if err != nil {
		return err
	}
	return fn(s, mode)
}

// tileGetCommand creates the "tile get" subcommand.
func (c *CLI) tileGetCommand() *cobra.Command {
	var flags tileFlags
	cmd := &cobra.Command{
		Use:   "get <address>",
		Short: "Print a tile's statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := pyramid.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return c.withTileStore(cmd.Context(), cmd, flags, func(s store.TileStore, mode raster.Mode) error {
				buf, ok, err := s.Read(cmd.Context(), addr, mode)
				if err != nil {
					return err
				}
				if !ok {
					printWarning("Tile %s is absent", addr)
					return nil
				}
				printTileStats(addr, mode, buf)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// printTileStats prints the summary shown by "tile get".
func printTileStats(addr pyramid.Address, mode raster.Mode, buf *raster.Buffer) {
	st := buf.Stats()
	printKeyValue("Address", addr.String())
	printKeyValue("Mode", mode.String())
	printKeyValue("Size", fmt.Sprintf("%dx%d", buf.Size, buf.Size))
	printKeyValue("Valid", fmt.Sprintf("%d/%d (%.1f%%)", st.Valid, buf.Len(), 100*float64(st.Valid)/float64(buf.Len())))
	if st.Valid > 0 {
		printKeyValue("Min", fmt.Sprintf("%g", st.Min))
		printKeyValue("Max", fmt.Sprintf("%g", st.Max))
		printKeyValue("Mean", fmt.Sprintf("%.3f", st.Mean))
	}
}

// tileExportCommand creates the "tile export" subcommand.
func (c *CLI) tileExportCommand() *cobra.Command {
	var flags tileFlags
	cmd := &cobra.Command{
		Use:     "export <address> <file>",
		Short:   "Write a tile to a PNG or TIFF image",
		Example: "  tilecascade tile export 0/0/0 root.png --mode RGB",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := pyramid.ParseAddress(args[0])
			if err != nil {
				return err
			}
			return c.withTileStore(cmd.Context(), cmd, flags, func(s store.TileStore, mode raster.Mode) error {
				buf, ok, err := s.Read(cmd.Context(), addr, mode)
				if err != nil {
					return err
				}
				if !ok {
					return errors.New(errors.ErrCodeInvalidInput, "tile %s is absent", addr)
				}
				img, err := toImage(buf, mode)
				if err != nil {
					return err
				}
				if err := writeImageFile(args[1], img); err != nil {
					return err
				}
				printSuccess("Exported tile %s", addr)
				printFile(args[1])
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// tileImportCommand creates the "tile import" subcommand.
func (c *CLI) tileImportCommand() *cobra.Command {
	var flags tileFlags
	cmd := &cobra.Command{
		Use:     "import <address> <file>",
		Short:   "Store a PNG or TIFF image as a tile",
		Example: "  tilecascade tile import 12/2048/1361 scan.tif --mode 'I;16' --nodata 0",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := pyramid.ParseAddress(args[0])
			if err != nil {
				return err
			}
			t := newTimer(c.Logger)
			img, err := readImageFile(args[1])
			if err != nil {
				return err
			}
			return c.withTileStore(cmd.Context(), cmd, flags, func(s store.TileStore, mode raster.Mode) error {
				buf, err := fromImage(img, mode)
				if err != nil {
					return err
				}
				if err := s.Write(cmd.Context(), addr, buf); err != nil {
					return err
				}
				t.done(fmt.Sprintf("Imported tile %s", addr))
				printSuccess("Stored %s as tile %s", args[1], addr)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// tileRmCommand creates the "tile rm" subcommand.
func (c *CLI) tileRmCommand() *cobra.Command {
	var flags tileFlags
	cmd := &cobra.Command{
		Use:   "rm <address>...",
		Short: "Remove tiles from the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addrs := make([]pyramid.Address, len(args))
			for i, a := range args {
				addr, err := pyramid.ParseAddress(a)
				if err != nil {
					return err
				}
				addrs[i] = addr
			}
			return c.withTileStore(cmd.Context(), cmd, flags, func(s store.TileStore, _ raster.Mode) error {
				d, ok := store.AsDeleter(s)
				if !ok {
					return errors.New(errors.ErrCodeUnsupported, "store %s cannot delete tiles", store.Scheme(flags.options(cmd).Store))
				}
				for _, addr := range addrs {
					if err := d.Delete(cmd.Context(), addr); err != nil {
						return err
					}
				}
				printSuccess("Removed %d tiles", len(addrs))
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}
