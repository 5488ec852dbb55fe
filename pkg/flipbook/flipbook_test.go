package flipbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/snapshare/pkg/conversion"
	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/event"
	"github.com/matzehuels/snapshare/pkg/lock"
	"github.com/matzehuels/snapshare/pkg/render/layout"
	"github.com/matzehuels/snapshare/pkg/storage/local"
	"github.com/matzehuels/snapshare/pkg/storage/memory"
)

type fakeConverter struct {
	configured bool
	result     conversion.Result
	err        error
	calls      atomic.Int32
	last       conversion.Request
}

func (f *fakeConverter) Configured() bool { return f.configured }

func (f *fakeConverter) Submit(ctx context.Context, req conversion.Request) (conversion.Result, error) {
	f.calls.Add(1)
	f.last = req
	return f.result, f.err
}

type failingStore struct{}

func (failingStore) Put(context.Context, string, []byte, string) (string, error) {
	return "", errors.New("disk full")
}

type fixture struct {
	events    *memory.Events
	photos    *memory.Photos
	blobs     *local.Store
	converter *fakeConverter
	event     event.Event
	deps      Deps
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// newFixture creates an event owned by "host-1" with n stored photos.
func newFixture(t *testing.T, style string, n int) *fixture {
	t.Helper()
	ctx := context.Background()
	blobs, err := local.New(t.TempDir(), "http://files.test")
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{
		events:    memory.NewEvents(),
		photos:    memory.NewPhotos(),
		blobs:     blobs,
		converter: &fakeConverter{configured: true, result: conversion.Result{URL: "https://viewer.test/fb"}},
	}
	base := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	f.event, err = event.New("host-1", event.Create{Name: "Garden Party", Date: "June 1, 2026", FlipbookStyle: style}, base)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.events.Create(ctx, f.event); err != nil {
		t.Fatal(err)
	}
	for i := range n {
		key := fmt.Sprintf("events/%s/photos/dev/%d.png", f.event.ID, i)
		if _, err := blobs.Put(ctx, key, pngBytes(t, 40+i, 30), "image/png"); err != nil {
			t.Fatal(err)
		}
		p := event.Photo{
			ID:         event.NewPhotoID(),
			EventID:    f.event.ID,
			DeviceID:   "dev",
			Filename:   fmt.Sprintf("%d.png", i),
			StorageKey: key,
			UploadedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := f.photos.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	f.deps = Deps{
		Events:    f.events,
		Photos:    f.photos,
		Source:    blobs,
		Store:     blobs,
		Converter: f.converter,
		Now:       func() time.Time { return base.Add(time.Hour) },
	}
	return f
}

func (f *fixture) storedEvent(t *testing.T) event.Event {
	t.Helper()
	ev, err := f.events.Get(context.Background(), f.event.ID, "host-1")
	if err != nil {
		t.Fatal(err)
	}
	return ev
}

func TestBuildSuccess(t *testing.T) {
	f := newFixture(t, "", 3)
	res, err := NewRunner(f.deps).Build(context.Background(), f.event.ID, "host-1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !res.Success || res.FlipbookURL != "https://viewer.test/fb" {
		t.Errorf("result = %+v", res)
	}
	if res.Report.Style != event.StyleMemoryArchive {
		t.Errorf("style = %s, want memory_archive", res.Report.Style)
	}
	if res.Report.Pages != 4 || res.Report.Rendered != 3 {
		t.Errorf("pages=%d rendered=%d, want 4 and 3", res.Report.Pages, res.Report.Rendered)
	}

	wantKey := fmt.Sprintf("flipbooks/%s/%d.pdf", f.event.ID, f.deps.Now().UnixMilli())
	if res.DocumentURL != "http://files.test/files/"+wantKey {
		t.Errorf("DocumentURL = %q", res.DocumentURL)
	}
	data, contentType, err := f.blobs.Open(context.Background(), wantKey)
	if err != nil {
		t.Fatalf("stored document: %v", err)
	}
	if contentType != ContentType || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("stored %q with prefix %q", contentType, data[:min(len(data), 8)])
	}

	if f.converter.last.DocumentURL != res.DocumentURL || f.converter.last.Title != "Garden Party" {
		t.Errorf("conversion request = %+v", f.converter.last)
	}

	ev := f.storedEvent(t)
	if ev.FlipbookURL != res.FlipbookURL || ev.FlipbookCreatedAt == nil {
		t.Errorf("event not updated: %+v", ev)
	}
}

func TestBuildPageCounts(t *testing.T) {
	tests := []struct {
		style string
		n     int
		want  int
	}{
		{"memory_archive", 5, 5},
		{"typography_collage", 5, 4},
		{"minimalist_story", 5, 7},
		{"retro", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			f := newFixture(t, tt.style, tt.n)
			res, err := NewRunner(f.deps).Build(context.Background(), f.event.ID, "host-1")
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if res.Report.Pages != tt.want {
				t.Errorf("pages = %d, want %d", res.Report.Pages, tt.want)
			}
		})
	}
}

func TestBuildSkipsMissingPhoto(t *testing.T) {
	f := newFixture(t, "minimalist_story", 2)
	missing := event.Photo{
		ID:         event.NewPhotoID(),
		EventID:    f.event.ID,
		StorageKey: "events/" + f.event.ID + "/photos/dev/gone.jpg",
		UploadedAt: time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC),
	}
	if err := f.photos.Create(context.Background(), missing); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(f.deps).Build(context.Background(), f.event.ID, "host-1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Report.Pages != 5 || res.Report.Rendered != 2 || len(res.Report.Skipped) != 1 {
		t.Fatalf("report = %+v", res.Report)
	}
	if res.Report.Skipped[0].StorageKey != missing.StorageKey {
		t.Errorf("skipped %q", res.Report.Skipped[0].StorageKey)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name     string
		photos   int
		host     string
		mutate   func(f *fixture)
		wantCode apperr.Code
		uploaded bool
	}{
		{
			name:     "unknown host",
			photos:   1,
			host:     "someone-else",
			wantCode: apperr.ErrCodeNotFound,
		},
		{
			name:     "no photos",
			photos:   0,
			host:     "host-1",
			wantCode: apperr.ErrCodeValidation,
		},
		{
			name:     "missing credentials",
			photos:   1,
			host:     "host-1",
			mutate:   func(f *fixture) { f.converter.configured = false },
			wantCode: apperr.ErrCodeConfiguration,
		},
		{
			name:     "upload failure",
			photos:   1,
			host:     "host-1",
			mutate:   func(f *fixture) { f.deps.Store = failingStore{} },
			wantCode: apperr.ErrCodeUpload,
		},
		{
			name:     "empty conversion response",
			photos:   1,
			host:     "host-1",
			mutate:   func(f *fixture) { f.converter.result = conversion.Result{} },
			wantCode: apperr.ErrCodeConversion,
			uploaded: true,
		},
		{
			name:   "conversion transport error",
			photos: 1,
			host:   "host-1",
			mutate: func(f *fixture) {
				f.converter.err = errors.New("connection reset")
			},
			wantCode: apperr.ErrCodeConversion,
			uploaded: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", tt.photos)
			if tt.mutate != nil {
				tt.mutate(f)
			}
			_, err := NewRunner(f.deps).Build(context.Background(), f.event.ID, tt.host)
			if got := apperr.GetCode(err); got != tt.wantCode {
				t.Fatalf("code = %q (%v), want %q", got, err, tt.wantCode)
			}
			if ev := f.storedEvent(t); ev.FlipbookURL != "" || ev.FlipbookCreatedAt != nil {
				t.Errorf("event modified on failure: %+v", ev)
			}
			if !tt.uploaded && f.converter.calls.Load() != 0 {
				t.Errorf("converter called %d times", f.converter.calls.Load())
			}
		})
	}
}

func TestBuildConversionServiceEmptyObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := newFixture(t, "", 2)
	f.deps.Converter = conversion.New(conversion.Config{
		Endpoint: srv.URL,
		ClientID: "id",
		APIKey:   "key",
	}, conversion.WithHTTPClient(srv.Client()))

	_, err := NewRunner(f.deps).Build(context.Background(), f.event.ID, "host-1")
	if !apperr.Is(err, apperr.ErrCodeConversion) {
		t.Fatalf("err = %v, want CONVERSION", err)
	}
	if ev := f.storedEvent(t); ev.FlipbookURL != "" {
		t.Errorf("flipbook_url = %q, want unset", ev.FlipbookURL)
	}
}

func TestBuildConcurrentSameEvent(t *testing.T) {
	f := newFixture(t, "", 1)
	locker := lock.NewMemory()
	f.deps.Locker = locker

	release, err := locker.Acquire(context.Background(), "flipbook:"+f.event.ID, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewRunner(f.deps).Build(context.Background(), f.event.ID, "host-1")
	if !apperr.Is(err, apperr.ErrCodeConflict) {
		t.Fatalf("err = %v, want CONFLICT", err)
	}

	if err := release(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRunner(f.deps).Build(context.Background(), f.event.ID, "host-1"); err != nil {
		t.Fatalf("Build after release: %v", err)
	}
}

func TestBuildReleasesLockOnFailure(t *testing.T) {
	f := newFixture(t, "", 1)
	locker := lock.NewMemory()
	f.deps.Locker = locker
	f.converter.configured = false

	runner := NewRunner(f.deps)
	if _, err := runner.Build(context.Background(), f.event.ID, "host-1"); err == nil {
		t.Fatal("expected error")
	}
	release, err := locker.Acquire(context.Background(), "flipbook:"+f.event.ID, time.Minute)
	if err != nil {
		t.Fatalf("lock still held: %v", err)
	}
	release(context.Background())
}

func TestBuildKeepsStyleRoundTrip(t *testing.T) {
	f := newFixture(t, "typography_collage", 1)
	if got := f.storedEvent(t).FlipbookStyle; got != event.StyleTypographyCollage {
		t.Fatalf("stored style = %q", got)
	}
	res, err := NewRunner(f.deps).Build(context.Background(), f.event.ID, "host-1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Report.Style != event.StyleTypographyCollage {
		t.Errorf("rendered style = %q", res.Report.Style)
	}
	if f.converter.last.Options.Style != "typography_collage" {
		t.Errorf("conversion style = %q", f.converter.last.Options.Style)
	}
	if !strings.HasPrefix(f.converter.last.Options.Background, "#") {
		t.Errorf("background = %q", f.converter.last.Options.Background)
	}
}

func TestRenderQualityOverride(t *testing.T) {
	opts := RenderOptions{Qualities: map[event.Style]int{event.StyleMinimalistStory: 70}}
	tests := []struct {
		style string
		want  int
	}{
		{"minimalist_story", 70},
		{"memory_archive", 85},
		{"typography_collage", 85},
	}
	for _, tt := range tests {
		if got := opts.Quality(layout.Select(tt.style)); got != tt.want {
			t.Errorf("Quality(%s) = %d, want %d", tt.style, got, tt.want)
		}
	}
}

type photoMap map[string][]byte

func (m photoMap) Fetch(ctx context.Context, key string) ([]byte, error) {
	return m[key], nil
}

// noisePhotos returns n JPEG photos of pseudo-random pixels, which neither
// JPEG nor Flate can shrink much.
func noisePhotos(t *testing.T, n, w, h int) ([]event.PhotoRecord, photoMap, int) {
	t.Helper()
	src := photoMap{}
	recs := make([]event.PhotoRecord, n)
	total := 0
	seed := uint32(42)
	for i := range recs {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for p := range img.Pix {
			seed = seed*1664525 + 1013904223
			img.Pix[p] = uint8(seed >> 24)
			if p%4 == 3 {
				img.Pix[p] = 0xff
			}
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 92}); err != nil {
			t.Fatal(err)
		}
		key := fmt.Sprintf("events/evt_size/%d.jpg", i)
		src[key] = buf.Bytes()
		total += buf.Len()
		recs[i] = event.PhotoRecord{StorageKey: key, Filename: key, Order: i}
	}
	return recs, src, total
}

func TestRenderDocumentSize(t *testing.T) {
	recs, src, total := noisePhotos(t, 3, 400, 300)
	meta := event.Metadata{ID: "evt_size", DisplayName: "Size", Style: event.StyleMinimalistStory}

	sizes := map[int]int{}
	for _, q := range []int{85, 95} {
		opts := RenderOptions{Qualities: map[event.Style]int{event.StyleMinimalistStory: q}}
		doc, err := Render(context.Background(), meta, recs, src, opts)
		if err != nil {
			t.Fatalf("Render(quality %d) error: %v", q, err)
		}
		if doc.Report.Rendered != len(recs) {
			t.Fatalf("rendered = %d, want %d", doc.Report.Rendered, len(recs))
		}
		if limit := 2*total + 128<<10; len(doc.Data) > limit {
			t.Errorf("quality %d: sealed %d bytes from %d bytes of photos, want <= %d", q, len(doc.Data), total, limit)
		}
		sizes[q] = len(doc.Data)
	}
	if sizes[85] == sizes[95] {
		t.Errorf("quality 85 and 95 sealed to the same size %d", sizes[85])
	}
}
