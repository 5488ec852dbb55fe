package event

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apperr "github.com/matzehuels/snapshare/pkg/errors"
)

// ErrNotFound is returned by repositories when a record does not exist or is
// not visible to the caller.
var ErrNotFound = errors.New("event: not found")

// Default values applied to new events.
const (
	DefaultFilter    = "warm"
	DefaultMaxPhotos = 5
)

// Event is the stored event document.
type Event struct {
	ID                string     `json:"event_id" bson:"event_id"`
	HostID            string     `json:"host_id" bson:"host_id"`
	Name              string     `json:"name" bson:"name"`
	Date              string     `json:"date" bson:"date"`
	LogoURL           string     `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
	FilterType        string     `json:"filter_type" bson:"filter_type"`
	MaxPhotos         int        `json:"max_photos" bson:"max_photos"`
	ShareCode         string     `json:"share_url" bson:"share_url"`
	FlipbookStyle     Style      `json:"flipbook_style" bson:"flipbook_style"`
	FlipbookURL       string     `json:"flipbook_url,omitempty" bson:"flipbook_url,omitempty"`
	FlipbookCreatedAt *time.Time `json:"flipbook_created_at,omitempty" bson:"flipbook_created_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at" bson:"created_at"`
}

// Create holds the host-supplied fields of a new event.
type Create struct {
	Name          string `json:"name"`
	Date          string `json:"date"`
	LogoURL       string `json:"logo_url,omitempty"`
	FilterType    string `json:"filter_type,omitempty"`
	MaxPhotos     int    `json:"max_photos,omitempty"`
	FlipbookStyle string `json:"flipbook_style,omitempty"`
}

// New builds an Event for hostID from c, filling defaults and identifiers.
// The flipbook style is stored exactly as requested when it is a supported
// value and as DefaultStyle otherwise.
func New(hostID string, c Create, now time.Time) (Event, error) {
	if strings.TrimSpace(c.Name) == "" {
		return Event{}, apperr.New(apperr.ErrCodeInvalidInput, "event name is required")
	}
	if c.MaxPhotos < 0 {
		return Event{}, apperr.New(apperr.ErrCodeInvalidInput, "max_photos cannot be negative")
	}
	e := Event{
		ID:            NewEventID(),
		HostID:        hostID,
		Name:          c.Name,
		Date:          c.Date,
		LogoURL:       c.LogoURL,
		FilterType:    c.FilterType,
		MaxPhotos:     c.MaxPhotos,
		FlipbookStyle: ParseStyle(c.FlipbookStyle),
		CreatedAt:     now.UTC(),
	}
	if e.FilterType == "" {
		e.FilterType = DefaultFilter
	}
	if e.MaxPhotos == 0 {
		e.MaxPhotos = DefaultMaxPhotos
	}
	e.ShareCode = ShareCode(e.ID, hostID)
	return e, nil
}

// Metadata is the read-only view of an event used while rendering.
type Metadata struct {
	ID          string
	DisplayName string
	DisplayDate string
	Style       Style
}

// Metadata returns the rendering view of e.
func (e Event) Metadata() Metadata {
	return Metadata{
		ID:          e.ID,
		DisplayName: e.Name,
		DisplayDate: e.Date,
		Style:       ParseStyle(string(e.FlipbookStyle)),
	}
}

// Photo is the stored record of one guest upload.
type Photo struct {
	ID         string    `json:"photo_id" bson:"photo_id"`
	EventID    string    `json:"event_id" bson:"event_id"`
	DeviceID   string    `json:"device_id" bson:"device_id"`
	Filename   string    `json:"filename" bson:"filename"`
	StorageKey string    `json:"s3_key" bson:"s3_key"`
	Note       string    `json:"note,omitempty" bson:"note,omitempty"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// PhotoRecord is one entry of the ordered rendering input.
type PhotoRecord struct {
	StorageKey string
	Filename   string
	Order      int // zero-based upload sequence
}

// Records orders photos by upload time and converts them into PhotoRecords.
// Photos sharing a timestamp keep their repository order. A photo without a
// storage key is rejected.
func Records(photos []Photo) ([]PhotoRecord, error) {
	sorted := make([]Photo, len(photos))
	copy(sorted, photos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UploadedAt.Before(sorted[j].UploadedAt)
	})

	records := make([]PhotoRecord, 0, len(sorted))
	for i, p := range sorted {
		if p.StorageKey == "" {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "photo %q has no storage key", p.ID)
		}
		records = append(records, PhotoRecord{
			StorageKey: p.StorageKey,
			Filename:   p.Filename,
			Order:      i,
		})
	}
	return records, nil
}

// Events persists event documents.
type Events interface {
	Create(ctx context.Context, e Event) error
	// Get returns the event only when it belongs to hostID.
	Get(ctx context.Context, id, hostID string) (Event, error)
	GetByShareCode(ctx context.Context, code string) (Event, error)
	List(ctx context.Context, hostID string) ([]Event, error)
	Delete(ctx context.Context, id, hostID string) error
	SetFlipbook(ctx context.Context, id, url string, at time.Time) error
}

// Photos persists photo records.
type Photos interface {
	Create(ctx context.Context, p Photo) error
	ListByEvent(ctx context.Context, eventID string) ([]Photo, error)
	CountByDevice(ctx context.Context, eventID, deviceID string) (int, error)
}

// NewEventID returns a fresh event identifier ("evt_" + 12 hex chars).
func NewEventID() string { return "evt_" + shortID() }

// NewPhotoID returns a fresh photo identifier ("pht_" + 12 hex chars).
func NewPhotoID() string { return "pht_" + shortID() }

// ShareCode derives the 8-character guest link code for an event: the first
// 8 hex digits of md5(eventID + hostID).
func ShareCode(eventID, hostID string) string {
	sum := md5.Sum([]byte(eventID + hostID))
	return hex.EncodeToString(sum[:])[:8]
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
