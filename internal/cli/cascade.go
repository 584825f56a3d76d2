package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilecascade/pkg/cascade"
	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/merge"
	"github.com/matzehuels/tilecascade/pkg/pipeline"
	"github.com/matzehuels/tilecascade/pkg/raster"
)

// cascadeFlags holds the flag values of the cascade command.
type cascadeFlags struct {
	config   string
	store    string
	mode     string
	nodata   float64
	depth    int
	merger   string
	retry    bool
	noVerify bool
	tui      bool
}

// cascadeCommand creates the cascade command.
func (c *CLI) cascadeCommand() *cobra.Command {
	var flags cascadeFlags

	cmd := &cobra.Command{
		Use:   "cascade",
		Short: "Build every shallower level from a populated pyramid depth",
		Long: `Build every shallower level of a tile pyramid from the tiles stored at --depth.

Each parent tile is the merge of its four children. Parents whose children
are all absent are skipped, so sparse pyramids stay sparse.

Flags override values read from --config.`,
		Example: `  tilecascade cascade --depth 12 --mode RGB
  tilecascade cascade --store 'redis://localhost:6379/0?prefix=dem:' --mode 'I;16' --nodata 0 --depth 14 --retry
  tilecascade cascade --config cascade.toml --tui`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cascadeOptions(cmd, flags)
			if err != nil {
				return err
			}
			if flags.tui {
				return c.runCascadeTUI(cmd.Context(), opts)
			}
			return c.runCascade(cmd.Context(), opts)
		},
	}

	flags.register(cmd)
	return cmd
}

// register binds the cascade flags to cmd.
func (f *cascadeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "TOML config file")
	storeFlag(cmd, &f.store)
	cmd.Flags().StringVarP(&f.mode, "mode", "m", pipeline.DefaultMode, fmt.Sprintf("pixel mode %v or <dtype>x<bands>", raster.ModeNames()))
	cmd.Flags().Float64Var(&f.nodata, "nodata", 0, "sample value that marks no-data")
	cmd.Flags().IntVarP(&f.depth, "depth", "d", 0, "populated start depth")
	cmd.Flags().StringVar(&f.merger, "merger", pipeline.DefaultMerger, fmt.Sprintf("merger %v", merge.Names()))
	cmd.Flags().BoolVar(&f.retry, "retry", false, "retry transient store failures")
	cmd.Flags().BoolVar(&f.noVerify, "no-verify", false, "skip the child order check")
	cmd.Flags().BoolVar(&f.tui, "tui", false, "show a live progress view")

	_ = cmd.RegisterFlagCompletionFunc("mode", completeNames(raster.ModeNames))
	_ = cmd.RegisterFlagCompletionFunc("merger", completeNames(merge.Names))
}

// completeNames completes a flag from a fixed list of names.
func completeNames(names func() []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return names(), cobra.ShellCompDirectiveNoFileComp
	}
}

// cascadeOptions merges the config file with explicitly set flags.
func cascadeOptions(cmd *cobra.Command, flags cascadeFlags) (pipeline.Options, error) {
	var opts pipeline.Options
	if flags.config != "" {
		loaded, err := pipeline.LoadConfig(flags.config)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts = loaded
	} else if !cmd.Flags().Changed("depth") {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "--depth is required without --config")
	}

	changed := cmd.Flags().Changed
	if changed("store") {
		opts.Store = flags.store
	}
	if changed("mode") || opts.Mode == "" {
		opts.Mode = flags.mode
	}
	if changed("nodata") {
		v := flags.nodata
		opts.NoData = &v
	}
	if changed("depth") {
		opts.StartDepth = flags.depth
	}
	if changed("merger") || opts.Merger == "" {
		opts.Merger = flags.merger
	}
	if changed("retry") {
		opts.Retry = flags.retry
	}
	if changed("no-verify") {
		opts.SkipVerify = flags.noVerify
	}
	opts.Store = resolveStore(opts.Store)

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// runCascade runs the cascade with a spinner showing progress.
func (c *CLI) runCascade(ctx context.Context, opts pipeline.Options) error {
	printInfo("Cascading %s from depth %d", StyleValue.Render(opts.Store), opts.StartDepth)

	var spinner *Spinner
	var progress cascade.Progress
	if c.Logger.GetLevel() > LogDebug {
		spinner = newSpinnerWithContext(ctx, "Cascading...")
		spinner.Start()
		defer spinner.Stop()
		progress = &spinnerProgress{spinner: spinner}
	}

	result, err := c.newRunner(nil).Execute(ctx, opts, progress)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		if result != nil && result.Stats.Written > 0 {
			printWarning("Stopped after writing %d tiles", result.Stats.Written)
		}
		return err
	}

	printCascadeResult(opts, result)
	return nil
}

// printCascadeResult prints the summary of a finished run.
func printCascadeResult(opts pipeline.Options, result *pipeline.Result) {
	printSuccess("Cascaded %d levels with %s", opts.StartDepth, StyleValue.Render(result.Merger))
	fmt.Println(formatStats(result.Stats))
	printDetail("Run: %s", result.RunID)
	printNextStep("Inspect coverage", fmt.Sprintf("%s info --depth %d --store %s", appName, opts.StartDepth, opts.Store))
}

// spinnerProgress reports cascade progress in a spinner message.
type spinnerProgress struct {
	spinner *Spinner
	counter cascade.Counter

	mu   sync.Mutex
	last time.Time
}

// Tick implements cascade.Progress.
func (p *spinnerProgress) Tick() {
	p.counter.Tick()

	p.mu.Lock()
	defer p.mu.Unlock()
	if time.Since(p.last) < 100*time.Millisecond && p.counter.Visited() < p.counter.Total() {
		return
	}
	p.last = time.Now()
	p.spinner.SetMessage(progressMessage(p.counter.Visited(), p.counter.Total()))
}

// SetTotal implements cascade.Sizer.
func (p *spinnerProgress) SetTotal(total int) {
	p.counter.SetTotal(total)
	p.spinner.SetMessage(progressMessage(0, total))
}

// progressMessage formats "Cascading 42% (1234/2730 tiles)".
func progressMessage(visited, total int) string {
	if total <= 0 {
		return fmt.Sprintf("Cascading... (%d tiles)", visited)
	}
	pct := int(100 * float64(visited) / float64(total))
	return fmt.Sprintf("Cascading %d%% (%d/%d tiles)", pct, visited, total)
}

var (
	_ cascade.Progress = (*spinnerProgress)(nil)
	_ cascade.Sizer    = (*spinnerProgress)(nil)
)
