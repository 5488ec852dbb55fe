package flipbook

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/snapshare/pkg/cache"
	"github.com/matzehuels/snapshare/pkg/event"
	"github.com/matzehuels/snapshare/pkg/render/document"
	"github.com/matzehuels/snapshare/pkg/render/layout"
	"github.com/matzehuels/snapshare/pkg/render/photo"
	"github.com/matzehuels/snapshare/pkg/storage"
)

// ContentType is the media type of a sealed flipbook document.
const ContentType = "application/pdf"

// RenderOptions tunes document rendering.
type RenderOptions struct {
	// Qualities overrides the JPEG quality per style. Styles without an
	// entry use their theme default (85 for multi-photo pages, 95 for one
	// photo per page).
	Qualities map[event.Style]int

	// MaxPixels bounds the longer edge of each embedded photo.
	MaxPixels int

	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Quality returns the JPEG quality used for strat.
func (o RenderOptions) Quality(strat layout.Strategy) int {
	if q, ok := o.Qualities[strat.Style()]; ok && q > 0 && q <= 100 {
		return q
	}
	return strat.Theme().Quality
}

// Document is a sealed flipbook PDF.
type Document struct {
	Data   []byte
	Report layout.Report
}

// Render lays out photos in the style named by meta and seals the result.
// An empty photo list is a VALIDATION error.
func Render(ctx context.Context, meta event.Metadata, photos []event.PhotoRecord, source storage.PhotoSource, opts RenderOptions) (*Document, error) {
	strat := layout.Select(string(meta.Style))

	normalizerOpts := []photo.Option{
		photo.WithQuality(opts.Quality(strat)),
	}
	if opts.MaxPixels > 0 {
		normalizerOpts = append(normalizerOpts, photo.WithMaxPixels(opts.MaxPixels))
	}
	if opts.Cache != nil {
		normalizerOpts = append(normalizerOpts, photo.WithCache(opts.Cache, opts.Keyer))
	}
	normalizer := photo.New(source, normalizerOpts...)

	b, err := document.New(document.WithInfo(meta.DisplayName, meta.DisplayDate))
	if err != nil {
		return nil, err
	}
	report, err := layout.Render(ctx, b, strat, meta, photos, normalizer, opts.Logger)
	if err != nil {
		return nil, err
	}
	data, err := b.Seal()
	if err != nil {
		return nil, err
	}
	return &Document{Data: data, Report: report}, nil
}
