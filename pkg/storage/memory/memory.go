// Package memory provides in-process event and photo repositories.
// They are safe for concurrent use and intended for tests and local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matzehuels/snapshare/pkg/event"
)

// Events is an in-memory event.Events.
type Events struct {
	mu     sync.RWMutex
	events map[string]event.Event
}

// NewEvents creates an empty repository.
func NewEvents() *Events {
	return &Events{events: make(map[string]event.Event)}
}

func (r *Events) Create(ctx context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[e.ID] = e
	return nil
}

func (r *Events) Get(ctx context.Context, id, hostID string) (event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok || e.HostID != hostID {
		return event.Event{}, event.ErrNotFound
	}
	return e, nil
}

func (r *Events) GetByShareCode(ctx context.Context, code string) (event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.events {
		if e.ShareCode == code {
			return e, nil
		}
	}
	return event.Event{}, event.ErrNotFound
}

func (r *Events) List(ctx context.Context, hostID string) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []event.Event
	for _, e := range r.events {
		if e.HostID == hostID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *Events) Delete(ctx context.Context, id, hostID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.HostID != hostID {
		return event.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *Events) SetFlipbook(ctx context.Context, id, url string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return event.ErrNotFound
	}
	at = at.UTC()
	e.FlipbookURL = url
	e.FlipbookCreatedAt = &at
	r.events[id] = e
	return nil
}

// Photos is an in-memory event.Photos. ListByEvent returns photos in
// insertion order.
type Photos struct {
	mu     sync.RWMutex
	photos []event.Photo
}

// NewPhotos creates an empty repository.
func NewPhotos() *Photos {
	return &Photos{}
}

func (r *Photos) Create(ctx context.Context, p event.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.photos = append(r.photos, p)
	return nil
}

func (r *Photos) ListByEvent(ctx context.Context, eventID string) ([]event.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []event.Photo
	for _, p := range r.photos {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Photos) CountByDevice(ctx context.Context, eventID, deviceID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, p := range r.photos {
		if p.EventID == eventID && p.DeviceID == deviceID {
			n++
		}
	}
	return n, nil
}

var (
	_ event.Events = (*Events)(nil)
	_ event.Photos = (*Photos)(nil)
)
