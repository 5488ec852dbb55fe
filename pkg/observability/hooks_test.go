package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Flipbook hooks
	f := NoopFlipbookHooks{}
	f.OnBuildStart(ctx, "evt_1", "memory_archive")
	f.OnBuildComplete(ctx, "evt_1", "memory_archive", 4, time.Second, nil)
	f.OnStageComplete(ctx, "evt_1", "render", time.Second, nil)
	f.OnPhotoSkipped(ctx, "evt_1", "events/evt_1/a.jpg", errors.New("boom"))

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "photo")
	c.OnCacheMiss(ctx, "photo")
	c.OnCacheSet(ctx, "photo", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "convert.example", "/api/v1/flipbooks")
	h.OnResponse(ctx, "POST", "convert.example", "/api/v1/flipbooks", 200, time.Second)
	h.OnError(ctx, "POST", "convert.example", "/api/v1/flipbooks", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Flipbook().(NoopFlipbookHooks); !ok {
		t.Error("Flipbook() should return NoopFlipbookHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customFlipbook := &testFlipbookHooks{}
	SetFlipbookHooks(customFlipbook)
	if Flipbook() != customFlipbook {
		t.Error("SetFlipbookHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Flipbook().(NoopFlipbookHooks); !ok {
		t.Error("Reset() should restore NoopFlipbookHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testFlipbookHooks{}
	SetFlipbookHooks(custom)
	SetFlipbookHooks(nil)

	if Flipbook() != custom {
		t.Error("SetFlipbookHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testFlipbookHooks struct{ NoopFlipbookHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
