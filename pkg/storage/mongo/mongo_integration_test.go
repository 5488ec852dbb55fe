//go:build integration

package mongo

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/snapshare/pkg/event"
	"github.com/matzehuels/snapshare/pkg/session"
	"github.com/matzehuels/snapshare/pkg/storage"
)

func testDB(t *testing.T) (context.Context, *Events, *Photos, *Sessions, *Blobs) {
	t.Helper()
	uri := os.Getenv("MONGO_URL")
	if uri == "" {
		t.Skip("MONGO_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	client, err := Connect(ctx, uri)
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	db := client.Database("snapshare_test_" + event.NewEventID())
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("EnsureIndexes() error: %v", err)
	}
	blobs, err := NewBlobs(db, "http://files.test")
	if err != nil {
		t.Fatalf("NewBlobs() error: %v", err)
	}
	return ctx, NewEvents(db), NewPhotos(db), NewSessions(db), blobs
}

func TestEvents_Integration(t *testing.T) {
	ctx, events, photos, _, _ := testDB(t)

	e, _ := event.New("host", event.Create{Name: "Party"}, time.Now())
	if err := events.Create(ctx, e); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := events.Get(ctx, e.ID, "other"); !errors.Is(err, event.ErrNotFound) {
		t.Errorf("Get(other host) = %v, want ErrNotFound", err)
	}
	at := time.Now().UTC().Truncate(time.Millisecond)
	if err := events.SetFlipbook(ctx, e.ID, "https://viewer/1", at); err != nil {
		t.Fatalf("SetFlipbook() error: %v", err)
	}
	got, err := events.GetByShareCode(ctx, e.ShareCode)
	if err != nil {
		t.Fatalf("GetByShareCode() error: %v", err)
	}
	if got.FlipbookURL != "https://viewer/1" {
		t.Errorf("FlipbookURL = %q", got.FlipbookURL)
	}

	_ = photos.Create(ctx, event.Photo{ID: "p2", EventID: e.ID, DeviceID: "d", StorageKey: "k2", UploadedAt: at.Add(time.Second)})
	_ = photos.Create(ctx, event.Photo{ID: "p1", EventID: e.ID, DeviceID: "d", StorageKey: "k1", UploadedAt: at})
	list, err := photos.ListByEvent(ctx, e.ID)
	if err != nil || len(list) != 2 || list[0].ID != "p1" {
		t.Errorf("ListByEvent() = %+v, %v", list, err)
	}
	if n, _ := photos.CountByDevice(ctx, e.ID, "d"); n != 2 {
		t.Errorf("CountByDevice() = %d, want 2", n)
	}
}

func TestSessions_Integration(t *testing.T) {
	ctx, _, _, sessions, _ := testDB(t)

	sess, _ := session.New("user_1", time.Hour)
	if err := sessions.Set(ctx, sess); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := sessions.Get(ctx, sess.Token)
	if err != nil || got.UserID != "user_1" {
		t.Errorf("Get() = %+v, %v", got, err)
	}
	if _, err := sessions.Get(ctx, "missing"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
}

func TestBlobs_Integration(t *testing.T) {
	ctx, _, _, _, blobs := testDB(t)

	url, err := blobs.Put(ctx, "flipbooks/e/1.pdf", []byte("%PDF"), "application/pdf")
	if err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if url != "http://files.test/files/flipbooks/e/1.pdf" {
		t.Errorf("Put() url = %q", url)
	}
	data, ct, err := blobs.Open(ctx, "flipbooks/e/1.pdf")
	if err != nil || string(data) != "%PDF" || ct != "application/pdf" {
		t.Errorf("Open() = %q, %q, %v", data, ct, err)
	}
	if _, err := blobs.Fetch(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Fetch(missing) = %v, want ErrNotFound", err)
	}
	if _, err := blobs.Fetch(ctx, "../etc/passwd"); !errors.Is(err, storage.ErrAccessDenied) {
		t.Errorf("Fetch(traversal) = %v, want ErrAccessDenied", err)
	}
}

func TestBlobsDeadlineDoesNotStick_Integration(t *testing.T) {
	ctx, _, _, _, blobs := testDB(t)

	expired, cancel := context.WithDeadline(ctx, time.Now().Add(-time.Second))
	defer cancel()
	if _, err := blobs.Put(expired, "flipbooks/e/late.pdf", []byte("%PDF"), "application/pdf"); err == nil {
		t.Fatal("Put with an expired deadline succeeded")
	}
	if _, err := blobs.Fetch(expired, "flipbooks/e/late.pdf"); err == nil {
		t.Fatal("Fetch with an expired deadline succeeded")
	}

	// A later call without a deadline must not inherit the expired one.
	plain := context.WithoutCancel(ctx)
	if _, err := blobs.Put(plain, "flipbooks/e/late.pdf", []byte("%PDF"), "application/pdf"); err != nil {
		t.Fatalf("Put after expired deadline: %v", err)
	}
	if data, err := blobs.Fetch(plain, "flipbooks/e/late.pdf"); err != nil || string(data) != "%PDF" {
		t.Fatalf("Fetch after expired deadline = %q, %v", data, err)
	}
}

func TestBlobsReadDuringUpload_Integration(t *testing.T) {
	ctx, _, _, _, blobs := testDB(t)
	if _, err := blobs.Put(ctx, "events/e/a.jpg", []byte("jpeg"), "image/jpeg"); err != nil {
		t.Fatal(err)
	}

	big := make([]byte, 8<<20)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := blobs.Put(ctx, "flipbooks/e/big.pdf", big, "application/pdf"); err != nil {
			t.Errorf("Put(big): %v", err)
		}
	}()
	for range 20 {
		if data, err := blobs.Fetch(ctx, "events/e/a.jpg"); err != nil || string(data) != "jpeg" {
			t.Errorf("Fetch during upload = %q, %v", data, err)
		}
	}
	wg.Wait()
}
