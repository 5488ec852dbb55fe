package layout

import (
	"context"
	"image/color"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/event"
	"github.com/matzehuels/snapshare/pkg/observability"
	"github.com/matzehuels/snapshare/pkg/render/document"
	"github.com/matzehuels/snapshare/pkg/render/photo"
)

// Surface is the page-composition API strategies draw on. It is satisfied
// by *document.Builder.
type Surface interface {
	Width() float64
	Height() float64
	OpenPage()
	Commit()
	FillRect(x, y, w, h float64, fill color.Color)
	RoundedRect(x, y, w, h, radius float64, fill color.Color)
	Circle(cx, cy, r float64, fill color.Color)
	Line(x1, y1, x2, y2, width float64, c color.Color)
	Image(jpeg []byte, x, y, w, h float64)
	Text(s string, x, y float64, font document.Font, c color.Color, align document.Align)
	TextWidth(s string, font document.Font) float64
}

// Loader produces normalized photos. It is satisfied by *photo.Normalizer.
type Loader interface {
	Normalize(ctx context.Context, key string) (*photo.Image, error)
}

// Strategy lays out one visual style.
type Strategy interface {
	Style() event.Style
	Theme() Theme
	// PageCount returns the total pages for n photos, cover and closing
	// included.
	PageCount(n int) int
	Cover(s Surface, meta event.Metadata, n int)
	// Content draws every content page, loading photos through p.
	Content(s Surface, photos []event.PhotoRecord, p *Placer)
	Closing(s Surface, meta event.Metadata)
}

// Skipped records a photo left out of the document.
type Skipped struct {
	StorageKey string
	Order      int
	Err        error
}

// Report summarizes a rendered document.
type Report struct {
	Style    event.Style
	Pages    int
	Rendered int
	Skipped  []Skipped
}

// Placer loads photos for a content pass. A photo that fails to load is
// logged and recorded as skipped; the page carries on without it.
type Placer struct {
	ctx     context.Context
	load    Loader
	logger  *log.Logger
	eventID string
	report  *Report
}

// Place loads rec and hands it to draw, releasing it afterwards. It
// reports whether the photo was drawn.
func (p *Placer) Place(rec event.PhotoRecord, draw func(img *photo.Image)) bool {
	img, err := p.load.Normalize(p.ctx, rec.StorageKey)
	if err != nil {
		p.logger.Warn("skipping photo", "storage_key", rec.StorageKey, "order", rec.Order, "error", err)
		p.report.Skipped = append(p.report.Skipped, Skipped{StorageKey: rec.StorageKey, Order: rec.Order, Err: err})
		observability.Flipbook().OnPhotoSkipped(p.ctx, p.eventID, rec.StorageKey, err)
		return false
	}
	defer img.Release()
	draw(img)
	p.report.Rendered++
	return true
}

var strategies = map[event.Style]Strategy{
	event.StyleMemoryArchive:     memoryArchive{},
	event.StyleTypographyCollage: typographyCollage{},
	event.StyleMinimalistStory:   minimalistStory{},
}

// Select returns the strategy for a style name. Unknown or empty names
// select memory_archive.
func Select(name string) Strategy {
	return strategies[event.ParseStyle(name)]
}

// Render draws the complete document for photos on s: cover, content
// pages, closing. An empty photo sequence is a VALIDATION error and opens
// no page.
func Render(ctx context.Context, s Surface, strat Strategy, meta event.Metadata, photos []event.PhotoRecord, load Loader, logger *log.Logger) (Report, error) {
	report := Report{Style: strat.Style()}
	if len(photos) == 0 {
		return report, apperr.New(apperr.ErrCodeValidation, "no photos to create flipbook")
	}
	if logger == nil {
		logger = log.Default()
	}

	strat.Cover(s, meta, len(photos))
	report.Pages++

	placer := &Placer{ctx: ctx, load: load, logger: logger, eventID: meta.ID, report: &report}
	strat.Content(s, photos, placer)
	report.Pages += strat.PageCount(len(photos)) - 2

	strat.Closing(s, meta)
	report.Pages++

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// chunk splits photos into consecutive groups of size n.
func chunk(photos []event.PhotoRecord, n int) [][]event.PhotoRecord {
	var out [][]event.PhotoRecord
	for len(photos) > 0 {
		k := min(n, len(photos))
		out = append(out, photos[:k])
		photos = photos[k:]
	}
	return out
}

// ceilDiv returns ceil(n / d) for positive d.
func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

// fitFontSize shrinks size by step until text fits maxWidth or size
// reaches floor.
func fitFontSize(s Surface, text string, size, floor, step, maxWidth float64, bold bool) float64 {
	for size > floor && s.TextWidth(text, document.Font{Size: size, Bold: bold}) > maxWidth {
		size = max(size-step, floor)
	}
	return size
}

func fullBleed(s Surface, c color.Color) {
	s.FillRect(0, 0, s.Width(), s.Height(), c)
}

func drawImage(s Surface, img *photo.Image, b Box) {
	s.Image(img.Encoded, b.X, b.Y, b.W, b.H)
}
