package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryExclusive(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	release, err := m.Acquire(ctx, "evt_1", time.Minute)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	if _, err := m.Acquire(ctx, "evt_1", time.Minute); !errors.Is(err, ErrLocked) {
		t.Errorf("second Acquire = %v, want ErrLocked", err)
	}
	if _, err := m.Acquire(ctx, "evt_2", time.Minute); err != nil {
		t.Errorf("other key Acquire: %v", err)
	}

	_ = release(ctx)
	if _, err := m.Acquire(ctx, "evt_1", time.Minute); err != nil {
		t.Errorf("Acquire after release: %v", err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Unix(1000, 0)
	m.clock = func() time.Time { return now }

	stale, _ := m.Acquire(ctx, "k", time.Second)
	now = now.Add(2 * time.Second)

	fresh, err := m.Acquire(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("Acquire after expiry: %v", err)
	}

	// The stale holder must not release the new holder's lock.
	_ = stale(ctx)
	if _, err := m.Acquire(ctx, "k", time.Minute); !errors.Is(err, ErrLocked) {
		t.Errorf("stale release freed the lock: %v", err)
	}
	_ = fresh(ctx)
}

func TestMemoryConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	var mu sync.Mutex
	won := 0
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Acquire(ctx, "same", time.Minute); err == nil {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if won != 1 {
		t.Errorf("%d goroutines acquired the lock, want 1", won)
	}
}

func TestMemoryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemory().Acquire(ctx, "k", time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire = %v, want context.Canceled", err)
	}
}
