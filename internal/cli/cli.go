// Package cli implements the tilecascade command-line interface.
//
// # Commands
//
//   - cascade: build every shallower pyramid level from a populated depth
//   - info: print per-depth tile counts, optionally with store coverage
//   - tile: inspect, export, import or remove single tiles
//   - store: manage the default file store
//   - completion: generate shell completion scripts
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tilecascade/pkg/buildinfo"
	"github.com/matzehuels/tilecascade/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tilecascade"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Tilecascade builds image tile pyramids from their deepest level",
		Long:         `Tilecascade derives every lower-resolution level of a quad-tree tile pyramid by merging 2x2 blocks of child tiles, preserving sparse coverage and no-data.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.cascadeCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.tileCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(logger *log.Logger) *pipeline.Runner {
	if logger == nil {
		logger = c.Logger
	}
	return pipeline.NewRunner(logger)
}

// =============================================================================
// Paths
// =============================================================================

// dataDir returns the default tile directory using the XDG standard
// (~/.local/share/tilecascade/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// defaultStoreURI returns the URI of the default file store.
func defaultStoreURI() string {
	dir, err := dataDir()
	if err != nil {
		return "mem://"
	}
	return "file://" + dir
}

// storeFlag registers the shared --store flag.
func storeFlag(cmd *cobra.Command, uri *string) {
	cmd.Flags().StringVarP(uri, "store", "s", "", "tile store URI (default: file store in the data directory)")
}

// resolveStore returns uri or the default store when uri is empty.
func resolveStore(uri string) string {
	if uri == "" {
		return defaultStoreURI()
	}
	return uri
}
