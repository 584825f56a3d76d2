package pipeline

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tilecascade/pkg/cascade"
	"github.com/matzehuels/tilecascade/pkg/merge"
	"github.com/matzehuels/tilecascade/pkg/store"
)

// Runner executes cascade runs.
//
// The Runner is stateless except for the logger, so multiple goroutines
// can safely use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, output is discarded.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Logger: logger}
}

// Execute opens the configured store, runs the cascade and closes the store.
// progress may be nil.
func (r *Runner) Execute(ctx context.Context, opts Options, progress cascade.Progress) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	mode, err := opts.ResolveMode()
	if err != nil {
		return nil, err
	}
	merger, err := merge.Lookup(opts.Merger)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:  uuid.NewString(),
		Mode:   mode,
		Merger: opts.Merger,
	}
	logger := r.Logger.With("run", result.RunID[:8])

	s, err := r.OpenStore(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := store.Close(s); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	logger.Info("starting cascade",
		"store", store.Scheme(opts.Store),
		"mode", mode.Name,
		"depth", opts.StartDepth,
		"merger", opts.Merger)

	eng := cascade.New(
		cascade.WithLogger(logger),
		cascade.WithVerify(!opts.SkipVerify),
	)
	stats, err := eng.Cascade(ctx, s, mode, opts.StartDepth, merger, progress)
	result.Stats = stats
	if err != nil {
		return result, err
	}
	return result, nil
}

// OpenStore opens the configured store, wrapping it with retries when
// enabled. Callers must close the returned store with store.Close.
func (r *Runner) OpenStore(ctx context.Context, opts Options) (store.TileStore, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, opts.Store)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("opened store", "uri", opts.Store)
	if opts.Retry {
		return store.NewRetrying(s).WithPolicy(opts.RetryAttempts, opts.RetryDelay), nil
	}
	return s, nil
}
