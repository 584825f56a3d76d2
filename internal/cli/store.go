package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/store"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage tile stores",
	}

	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	var (
		storeURI string
		maxDepth int
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every tile down to --max-depth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateDepth(maxDepth); err != nil {
				return err
			}

			uri := resolveStore(storeURI)
			if storeURI == "" {
				dir, err := dataDir()
				if err != nil {
					return fmt.Errorf("get data dir: %w", err)
				}
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					printInfo("Store is empty")
					return nil
				}
			}

			s, err := store.Open(ctx, uri)
			if err != nil {
				return err
			}
			defer store.Close(s)

			l, canList := store.AsLister(s)
			d, canDelete := store.AsDeleter(s)
			if !canList || !canDelete {
				return errors.New(errors.ErrCodeUnsupported, "store %s cannot be cleared", store.Scheme(uri))
			}

			spinner := newSpinnerWithContext(ctx, "Clearing tiles...")
			spinner.Start()
			count := 0
			for depth := 0; depth <= maxDepth; depth++ {
				addrs, err := l.List(ctx, depth)
				if err != nil {
					spinner.StopWithError("Clear failed")
					return err
				}
				for _, a := range addrs {
					if err := d.Delete(ctx, a); err != nil {
						spinner.StopWithError("Clear failed")
						return err
					}
					count++
				}
				spinner.SetMessage(fmt.Sprintf("Clearing tiles... depth %d, %d removed", depth, count))
			}

			spinner.StopWithSuccess(fmt.Sprintf("Cleared %d tiles", count))
			printDetail("Store: %s", uri)
			return nil
		},
	}

	storeFlag(cmd, &storeURI)
	cmd.Flags().IntVar(&maxDepth, "max-depth", 20, "deepest level to clear")

	return cmd
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default store directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dataDir()
			if err != nil {
				return fmt.Errorf("get data dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
