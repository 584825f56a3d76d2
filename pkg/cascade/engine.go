package cascade

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilecascade/pkg/errors"
	"github.com/matzehuels/tilecascade/pkg/merge"
	"github.com/matzehuels/tilecascade/pkg/observability"
	"github.com/matzehuels/tilecascade/pkg/pyramid"
	"github.com/matzehuels/tilecascade/pkg/raster"
	"github.com/matzehuels/tilecascade/pkg/store"
)

// Stats summarises one cascade call.
type Stats struct {
	Visited  int           // addresses visited, written or skipped
	Written  int           // tiles merged and written
	Skipped  int           // addresses without any present child
	Duration time.Duration // wall time of the call
}

// Engine runs cascades. An Engine holds no per-call state, so one value
// may run several cascades on independent stores concurrently.
type Engine struct {
	// Topology enumerates addresses and children. Nil means pyramid.QuadTree.
	Topology pyramid.Topology

	// Logger receives per-depth debug lines and a completion line.
	// Nil discards output.
	Logger *log.Logger

	// Verify checks the topology's child order on every depth before
	// reading any tile, and again for each visited address.
	Verify bool
}

// Option configures an Engine built by New.
type Option func(*Engine)

// WithTopology sets the pyramid topology.
func WithTopology(t pyramid.Topology) Option {
	return func(e *Engine) { e.Topology = t }
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.Logger = l }
}

// WithVerify enables or disables the child order check.
func WithVerify(v bool) Option {
	return func(e *Engine) { e.Verify = v }
}

// New creates an engine on the quad-tree topology with child order
// verification enabled.
func New(opts ...Option) *Engine {
	e := &Engine{Topology: pyramid.QuadTree{}, Verify: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cascade runs a cascade with a default engine.
func Cascade(ctx context.Context, s store.TileStore, mode raster.Mode, startDepth int, m merge.Merger, progress Progress) (Stats, error) {
	return New().Cascade(ctx, s, mode, startDepth, m, progress)
}

// Cascade derives every level shallower than startDepth from the tiles
// stored at startDepth. A startDepth of 0 does nothing. progress may be
// nil; a typed nil is only safe for observers whose methods accept a nil
// receiver, such as *Counter and ProgressFunc.
//
// The first error aborts the call. Tiles written before the failure are
// left in place.
func (e *Engine) Cascade(ctx context.Context, s store.TileStore, mode raster.Mode, startDepth int, m merge.Merger, progress Progress) (stats Stats, err error) {
	if s == nil {
		return stats, errors.New(errors.ErrCodeInvalidInput, "cascade: store is nil")
	}
	if m == nil {
		return stats, errors.New(errors.ErrCodeInvalidInput, "cascade: merger is nil")
	}
	if err := errors.ValidateDepth(startDepth); err != nil {
		return stats, err
	}
	if err := mode.Validate(); err != nil {
		return stats, err
	}
	if startDepth == 0 {
		return stats, nil
	}

	topo := e.topology()
	if e.Verify {
		if err := pyramid.VerifyLevels(topo, startDepth); err != nil {
			return stats, err
		}
	}

	logger := e.logger()
	hooks := observability.Cascade()
	total := topo.TileCountBelow(startDepth)
	if sz, ok := progress.(Sizer); ok {
		sz.SetTotal(total)
	}
	hooks.OnCascadeStart(ctx, startDepth, total)

	start := time.Now()
	defer func() {
		stats.Duration = time.Since(start)
		hooks.OnCascadeComplete(ctx, stats.Visited, stats.Written, stats.Duration, err)
	}()

	run := &run{ctx: ctx, store: s, mode: mode, merger: m, topo: topo, verify: e.Verify}
	for depth := startDepth - 1; depth >= 0; depth-- {
		levelStart := time.Now()
		written, skipped := 0, 0

		for addr := range topo.Addresses(depth) {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			wrote, err := run.visit(addr)
			if err != nil {
				return stats, err
			}
			if wrote {
				written++
			} else {
				skipped++
			}
			stats.Visited++
			if progress != nil {
				progress.Tick()
			}
		}

		stats.Written += written
		stats.Skipped += skipped
		levelDur := time.Since(levelStart)
		logger.Debug("cascaded level", "depth", depth, "written", written, "skipped", skipped, "duration", levelDur)
		hooks.OnLevelComplete(ctx, depth, written, skipped, levelDur)
	}

	logger.Info("cascade complete",
		"start_depth", startDepth,
		"written", stats.Written,
		"skipped", stats.Skipped,
		"duration", time.Since(start).Round(time.Millisecond))
	return stats, nil
}

func (e *Engine) topology() pyramid.Topology {
	if e.Topology == nil {
		return pyramid.QuadTree{}
	}
	return e.Topology
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

// run carries the state of one Cascade call.
type run struct {
	ctx    context.Context
	store  store.TileStore
	mode   raster.Mode
	merger merge.Merger
	topo   pyramid.Topology
	verify bool
	arena  arena
}

// visit merges the children of addr into a new tile. It reports false
// when every child is absent.
func (r *run) visit(addr pyramid.Address) (bool, error) {
	children := r.topo.Children(addr)
	if r.verify {
		if err := pyramid.CheckChildren(addr, children); err != nil {
			return false, err
		}
	}

	var (
		tiles [4]*raster.Buffer
		first *raster.Buffer
	)
	for i, child := range children {
		buf, ok, err := r.store.Read(r.ctx, child, r.mode)
		if err != nil {
			return false, storeError(errors.ErrCodeStoreRead, err, "read tile %s", child)
		}
		if !ok {
			continue
		}
		if buf == nil {
			return false, errors.New(errors.ErrCodeStoreRead, "read tile %s: store reported a nil tile", child)
		}
		if buf.Size != raster.TileSize {
			return false, errors.New(errors.ErrCodeShape, "tile %s is %dx%d, want %dx%d",
				child, buf.Size, buf.Size, raster.TileSize, raster.TileSize)
		}
		if first == nil {
			first = buf
		} else if !first.SameLayout(buf) {
			return false, errors.New(errors.ErrCodeShape, "children of %s disagree: %sx%d and %sx%d",
				addr, first.DType, first.Bands, buf.DType, buf.Bands)
		}
		tiles[i] = buf
	}
	if first == nil {
		return false, nil
	}

	composite := r.arena.composite(first.Bands, first.DType)
	for i, tile := range tiles {
		if tile == nil {
			continue
		}
		q := pyramid.Quadrants[i]
		if err := composite.Blit(tile, q[0]*raster.TileSize, q[1]*raster.TileSize); err != nil {
			return false, err
		}
	}

	out, err := r.merger.Merge(composite)
	if err != nil {
		if errors.GetCode(err) == "" {
			return false, errors.Wrap(errors.ErrCodeInternal, err, "merge %s", addr)
		}
		return false, err
	}
	if out == composite {
		return false, errors.New(errors.ErrCodeShape, "merger returned its input for %s", addr)
	}
	if err := out.CheckShape(raster.TileSize, first.Bands, first.DType); err != nil {
		return false, errors.Wrap(errors.ErrCodeShape, err, "merger output for %s", addr)
	}

	if err := r.store.Write(r.ctx, addr, out); err != nil {
		return false, storeError(errors.ErrCodeStoreWrite, err, "write tile %s", addr)
	}
	return true, nil
}

// storeError gives uncoded store failures the code of the failed
// operation. Coded errors and context errors pass through unchanged.
func storeError(code errors.Code, err error, format string, args ...any) error {
	if errors.GetCode(err) != "" || isContextErr(err) {
		return err
	}
	return errors.Wrap(code, err, format, args...)
}

func isContextErr(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
