// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about cascade execution and tile store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the core
// packages free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCascadeHooks(&myCascadeHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Cascade().OnLevelComplete(ctx, depth, written, skipped, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Cascade Hooks
// =============================================================================

// CascadeHooks receives events from the cascade engine.
type CascadeHooks interface {
	// OnCascadeStart is called once before the first address is visited.
	// total is the number of addresses the call will visit.
	OnCascadeStart(ctx context.Context, startDepth, total int)

	// OnLevelComplete is called after every address of a depth was visited.
	OnLevelComplete(ctx context.Context, depth, written, skipped int, duration time.Duration)

	// OnCascadeComplete is called once when the cascade returns.
	OnCascadeComplete(ctx context.Context, visited, written int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from tile store backends.
type StoreHooks interface {
	// OnTileRead records a read; hit is false when the tile was absent.
	OnTileRead(ctx context.Context, backend string, hit bool)

	// OnTileWrite records a write of an encoded tile of size bytes.
	OnTileWrite(ctx context.Context, backend string, size int)

	// OnStoreError records a failed backend operation.
	OnStoreError(ctx context.Context, backend, op string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCascadeHooks is a no-op implementation of CascadeHooks.
type NoopCascadeHooks struct{}

func (NoopCascadeHooks) OnCascadeStart(context.Context, int, int)                          {}
func (NoopCascadeHooks) OnLevelComplete(context.Context, int, int, int, time.Duration)     {}
func (NoopCascadeHooks) OnCascadeComplete(context.Context, int, int, time.Duration, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnTileRead(context.Context, string, bool)            {}
func (NoopStoreHooks) OnTileWrite(context.Context, string, int)            {}
func (NoopStoreHooks) OnStoreError(context.Context, string, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	cascadeHooks CascadeHooks = NoopCascadeHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	hooksMu      sync.RWMutex
)

// SetCascadeHooks registers custom cascade hooks.
// This should be called once at application startup before any cascade runs.
func SetCascadeHooks(h CascadeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cascadeHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store is opened.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Cascade returns the registered cascade hooks.
func Cascade() CascadeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cascadeHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	cascadeHooks = NoopCascadeHooks{}
	storeHooks = NoopStoreHooks{}
}
