// Package lock provides short-lived exclusive locks keyed by name.
//
// The flipbook build holds one lock per event so two concurrent builds of
// the same event cannot race on the stored flipbook URL. [Memory] serves a
// single process; [Redis] coordinates several server instances.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLocked is returned by Acquire when the key is already held.
var ErrLocked = errors.New("lock: already held")

// Release gives up a held lock. Releasing twice, or after the TTL has
// lapsed and someone else acquired the key, is a no-op.
type Release func(ctx context.Context) error

// Locker hands out non-blocking exclusive locks.
type Locker interface {
	// Acquire takes key for at most ttl or returns ErrLocked.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// Memory is an in-process Locker.
type Memory struct {
	mu    sync.Mutex
	held  map[string]heldLock
	seq   uint64
	clock func() time.Time
}

type heldLock struct {
	id        uint64
	expiresAt time.Time
}

// NewMemory creates an in-process Locker.
func NewMemory() *Memory {
	return &Memory{held: make(map[string]heldLock), clock: time.Now}
}

// Acquire implements Locker.
func (m *Memory) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	if h, ok := m.held[key]; ok && now.Before(h.expiresAt) {
		return nil, ErrLocked
	}
	m.seq++
	id := m.seq
	m.held[key] = heldLock{id: id, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if h, ok := m.held[key]; ok && h.id == id {
			delete(m.held, key)
		}
		return nil
	}, nil
}

var _ Locker = (*Memory)(nil)
