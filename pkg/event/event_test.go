package event

import (
	"strings"
	"testing"
	"time"

	apperr "github.com/matzehuels/snapshare/pkg/errors"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"memory_archive", StyleMemoryArchive},
		{"typography_collage", StyleTypographyCollage},
		{"minimalist_story", StyleMinimalistStory},
		{" minimalist_story ", StyleMinimalistStory},
		{"", StyleMemoryArchive},
		{"retro", StyleMemoryArchive},
		{"MEMORY_ARCHIVE", StyleMemoryArchive},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseStyle(tt.in); got != tt.want {
				t.Errorf("ParseStyle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	e, err := New("user_1", Create{Name: "Party", Date: "2025-01-15"}, now)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !strings.HasPrefix(e.ID, "evt_") || len(e.ID) != 16 {
		t.Errorf("ID = %q, want evt_ + 12 chars", e.ID)
	}
	if e.FlipbookStyle != StyleMemoryArchive {
		t.Errorf("FlipbookStyle = %q, want %q", e.FlipbookStyle, StyleMemoryArchive)
	}
	if e.FilterType != DefaultFilter || e.MaxPhotos != DefaultMaxPhotos {
		t.Errorf("defaults = (%q, %d)", e.FilterType, e.MaxPhotos)
	}
	if len(e.ShareCode) != 8 {
		t.Errorf("ShareCode = %q, want 8 chars", e.ShareCode)
	}
	if !e.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", e.CreatedAt, now)
	}
}

func TestNewKeepsRequestedStyle(t *testing.T) {
	for _, s := range Styles {
		e, err := New("h", Create{Name: "n", FlipbookStyle: string(s)}, time.Now())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if e.FlipbookStyle != s {
			t.Errorf("FlipbookStyle = %q, want %q", e.FlipbookStyle, s)
		}
		if e.Metadata().Style != s {
			t.Errorf("Metadata().Style = %q, want %q", e.Metadata().Style, s)
		}
	}
}

func TestNewRejectsEmptyName(t *testing.T) {
	_, err := New("h", Create{Name: "  "}, time.Now())
	if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestShareCode(t *testing.T) {
	tests := []struct {
		eventID, hostID string
		want            string
	}{
		{"evt_1", "user_1", "0f1be2cd"},
		{"evt_2", "user_1", "e0d40915"},
	}
	for _, tt := range tests {
		if got := ShareCode(tt.eventID, tt.hostID); got != tt.want {
			t.Errorf("ShareCode(%q, %q) = %q, want %q", tt.eventID, tt.hostID, got, tt.want)
		}
	}
}

func TestRecordsOrdering(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	photos := []Photo{
		{ID: "c", StorageKey: "k3", UploadedAt: base.Add(2 * time.Minute)},
		{ID: "a", StorageKey: "k1", UploadedAt: base},
		{ID: "b1", StorageKey: "k2a", UploadedAt: base.Add(time.Minute)},
		{ID: "b2", StorageKey: "k2b", UploadedAt: base.Add(time.Minute)},
	}
	records, err := Records(photos)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	want := []string{"k1", "k2a", "k2b", "k3"}
	for i, r := range records {
		if r.StorageKey != want[i] {
			t.Errorf("records[%d].StorageKey = %q, want %q", i, r.StorageKey, want[i])
		}
		if r.Order != i {
			t.Errorf("records[%d].Order = %d, want %d", i, r.Order, i)
		}
	}
	if photos[0].ID != "c" {
		t.Error("Records must not reorder the caller's slice")
	}
}

func TestRecordsRejectsMissingKey(t *testing.T) {
	_, err := Records([]Photo{{ID: "p1"}})
	if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestRecordsEmpty(t *testing.T) {
	records, err := Records(nil)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len = %d, want 0", len(records))
	}
}
