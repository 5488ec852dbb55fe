package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/snapshare/pkg/event"
)

func TestEventsOwnership(t *testing.T) {
	ctx := context.Background()
	r := NewEvents()
	e, _ := event.New("host_a", event.Create{Name: "Wedding", FlipbookStyle: "typography_collage"}, time.Now())
	if err := r.Create(ctx, e); err != nil {
		t.Fatal(err)
	}

	if _, err := r.Get(ctx, e.ID, "host_b"); !errors.Is(err, event.ErrNotFound) {
		t.Errorf("Get by other host = %v, want ErrNotFound", err)
	}

	got, err := r.Get(ctx, e.ID, "host_a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FlipbookStyle != event.StyleTypographyCollage {
		t.Errorf("FlipbookStyle = %q, want typography_collage", got.FlipbookStyle)
	}

	byCode, err := r.GetByShareCode(ctx, e.ShareCode)
	if err != nil || byCode.ID != e.ID {
		t.Errorf("GetByShareCode = (%v, %v)", byCode.ID, err)
	}

	if err := r.Delete(ctx, e.ID, "host_b"); !errors.Is(err, event.ErrNotFound) {
		t.Errorf("Delete by other host = %v, want ErrNotFound", err)
	}
}

func TestEventsSetFlipbook(t *testing.T) {
	ctx := context.Background()
	r := NewEvents()
	e, _ := event.New("h", event.Create{Name: "n"}, time.Now())
	_ = r.Create(ctx, e)

	at := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if err := r.SetFlipbook(ctx, e.ID, "https://viewer/x", at); err != nil {
		t.Fatal(err)
	}
	got, _ := r.Get(ctx, e.ID, "h")
	if got.FlipbookURL != "https://viewer/x" || got.FlipbookCreatedAt == nil || !got.FlipbookCreatedAt.Equal(at) {
		t.Errorf("flipbook fields = (%q, %v)", got.FlipbookURL, got.FlipbookCreatedAt)
	}
	if err := r.SetFlipbook(ctx, "missing", "u", at); !errors.Is(err, event.ErrNotFound) {
		t.Errorf("SetFlipbook missing = %v", err)
	}
}

func TestPhotos(t *testing.T) {
	ctx := context.Background()
	r := NewPhotos()
	_ = r.Create(ctx, event.Photo{ID: "1", EventID: "e1", DeviceID: "d1"})
	_ = r.Create(ctx, event.Photo{ID: "2", EventID: "e1", DeviceID: "d2"})
	_ = r.Create(ctx, event.Photo{ID: "3", EventID: "e2", DeviceID: "d1"})
	_ = r.Create(ctx, event.Photo{ID: "4", EventID: "e1", DeviceID: "d1"})

	list, _ := r.ListByEvent(ctx, "e1")
	if len(list) != 3 || list[0].ID != "1" || list[2].ID != "4" {
		t.Errorf("ListByEvent = %+v", list)
	}
	n, _ := r.CountByDevice(ctx, "e1", "d1")
	if n != 2 {
		t.Errorf("CountByDevice = %d, want 2", n)
	}
}
