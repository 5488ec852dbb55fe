// Package observability provides hooks for tracing and metrics.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about flipbook builds, cache operations, and outgoing HTTP
// calls. [NewTracingHooks] is the OpenTelemetry-backed implementation used by
// the server.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    tracing := observability.NewTracingHooks()
//	    observability.SetFlipbookHooks(tracing)
//	    observability.SetHTTPHooks(tracing)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Flipbook().OnBuildStart(ctx, eventID, style)
//	// ... build ...
//	observability.Flipbook().OnBuildComplete(ctx, eventID, style, pages, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Flipbook Hooks
// =============================================================================

// FlipbookHooks receives events from flipbook builds.
type FlipbookHooks interface {
	// Build events
	OnBuildStart(ctx context.Context, eventID, style string)
	OnBuildComplete(ctx context.Context, eventID, style string, pages int, duration time.Duration, err error)

	// OnStageComplete records one orchestration stage (load, render, upload, convert, persist).
	OnStageComplete(ctx context.Context, eventID, stage string, duration time.Duration, err error)

	// OnPhotoSkipped records a photo left out of a document.
	OnPhotoSkipped(ctx context.Context, eventID, storageKey string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFlipbookHooks is a no-op implementation of FlipbookHooks.
type NoopFlipbookHooks struct{}

func (NoopFlipbookHooks) OnBuildStart(context.Context, string, string) {}
func (NoopFlipbookHooks) OnBuildComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopFlipbookHooks) OnStageComplete(context.Context, string, string, time.Duration, error) {}
func (NoopFlipbookHooks) OnPhotoSkipped(context.Context, string, string, error)                 {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	flipbookHooks FlipbookHooks = NoopFlipbookHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetFlipbookHooks registers custom flipbook hooks.
// This should be called once at application startup before any build runs.
func SetFlipbookHooks(h FlipbookHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		flipbookHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Flipbook returns the registered flipbook hooks.
func Flipbook() FlipbookHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return flipbookHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	flipbookHooks = NoopFlipbookHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
