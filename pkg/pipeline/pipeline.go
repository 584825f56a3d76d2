// Package pipeline wires configuration, tile stores and the cascade engine
// into a single run.
//
// The CLI and any embedding program build an [Options] value (from flags,
// a TOML file via [LoadConfig], or both), then hand it to a [Runner]:
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Store:      "redis://localhost:6379/0?prefix=ortho:",
//	    Mode:       "RGB",
//	    StartDepth: 14,
//	    Retry:      true,
//	}, nil)
//
// Execute opens the store, resolves the mode and merger by name, runs the
// cascade and closes the store again.
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/tilecascade/pkg/cascade"
	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/merge"
	"github.com/matzehuels/tilecascade/pkg/raster"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMode is the pixel mode used when none is configured.
	DefaultMode = "L"

	// DefaultMerger is the merger used when none is configured.
	DefaultMerger = merge.DefaultMerger

	// DefaultRetryAttempts is the number of attempts per store call when
	// retries are enabled.
	DefaultRetryAttempts = 3

	// DefaultRetryDelay is the initial backoff between attempts.
	DefaultRetryDelay = time.Second
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options contains all configuration for one cascade run.
// Field tags match the keys of the TOML config file.
type Options struct {
	Store      string   `json:"store" toml:"store"`
	Mode       string   `json:"mode,omitempty" toml:"mode"`
	NoData     *float64 `json:"nodata,omitempty" toml:"nodata"` // overrides the mode's no-data value
	StartDepth int      `json:"depth" toml:"depth"`
	Merger     string   `json:"merger,omitempty" toml:"merger"`
	SkipVerify bool     `json:"skip_verify,omitempty" toml:"skip_verify"` // skip the child order check

	// Store resilience
	Retry         bool          `json:"retry,omitempty" toml:"retry"`
	RetryAttempts int           `json:"retry_attempts,omitempty" toml:"retry_attempts"`
	RetryDelay    time.Duration `json:"retry_delay,omitempty" toml:"retry_delay"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outcome of a run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Mode is the resolved pixel mode.
	Mode raster.Mode

	// Merger is the name of the merger that was used.
	Merger string

	// Stats are the cascade statistics.
	Stats cascade.Stats
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Store == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store is required")
	}
	if err := errors.ValidateDepth(o.StartDepth); err != nil {
		return err
	}

	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Merger == "" {
		o.Merger = DefaultMerger
	}
	if o.RetryAttempts == 0 {
		o.RetryAttempts = DefaultRetryAttempts
	}
	if o.RetryDelay == 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.RetryAttempts < 0 || o.RetryDelay < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "retry_attempts and retry_delay cannot be negative")
	}

	if _, err := o.ResolveMode(); err != nil {
		return err
	}
	if _, err := merge.Lookup(o.Merger); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ResolveMode looks up the configured mode and applies the no-data override.
func (o *Options) ResolveMode() (raster.Mode, error) {
	name := o.Mode
	if name == "" {
		name = DefaultMode
	}
	mode, err := raster.LookupMode(name)
	if err != nil {
		return raster.Mode{}, err
	}
	if o.NoData != nil {
		mode = mode.WithNoData(*o.NoData)
	}
	if err := mode.Validate(); err != nil {
		return raster.Mode{}, err
	}
	return mode, nil
}

// String summarises the options for log lines.
func (o Options) String() string {
	return fmt.Sprintf("store=%s mode=%s depth=%d merger=%s", o.Store, o.Mode, o.StartDepth, o.Merger)
}
