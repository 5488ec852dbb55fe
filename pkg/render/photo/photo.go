// Package photo normalizes guest photos into opaque, size-bounded JPEG
// rasters ready for placement in a document.
//
// Every [Image] returned by [Normalizer.Normalize] owns its encoded bytes
// until [Image.Release] is called. Callers release each
// image exactly once on every path, typically with defer:
//
//	img, err := n.Normalize(ctx, key)
//	if err != nil {
//	    return err
//	}
//	defer img.Release()
package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"sync/atomic"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/snapshare/pkg/cache"
	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/observability"
	"github.com/matzehuels/snapshare/pkg/storage"
)

// Defaults for a Normalizer.
const (
	DefaultQuality   = 85
	DefaultMaxPixels = 2400
)

// Causes carried by RENDER errors.
var (
	ErrFetchFailed  = errors.New("fetch failed")
	ErrDecodeFailed = errors.New("decode failed")
)

// Image is a normalized photo: an opaque JPEG and its pixel size. It holds
// no decoded pixels; a document decodes Encoded only while it is sealed.
type Image struct {
	Width, Height int
	// Encoded is the JPEG at the Normalizer's quality.
	Encoded []byte

	once    sync.Once
	release func()
}

// Release drops the encoded bytes. Only the first call has an effect.
func (i *Image) Release() {
	i.once.Do(func() {
		i.Encoded = nil
		if i.release != nil {
			i.release()
		}
	})
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithQuality sets the JPEG quality (1-100).
func WithQuality(q int) Option {
	return func(n *Normalizer) {
		if q > 0 && q <= 100 {
			n.quality = q
		}
	}
}

// WithMaxPixels bounds the longer edge of the output. Zero disables
// downscaling.
func WithMaxPixels(px int) Option {
	return func(n *Normalizer) { n.maxPixels = px }
}

// WithBackground sets the color transparent pixels are flattened onto.
func WithBackground(c color.Color) Option {
	return func(n *Normalizer) { n.background = c }
}

// WithCache memoizes encoded output across builds.
func WithCache(c cache.Cache, keyer cache.Keyer) Option {
	return func(n *Normalizer) {
		n.cache = c
		if keyer != nil {
			n.keyer = keyer
		}
	}
}

// Normalizer fetches photos from a source and normalizes them. It is safe
// for concurrent use.
type Normalizer struct {
	source     storage.PhotoSource
	quality    int
	maxPixels  int
	background color.Color
	cache      cache.Cache
	keyer      cache.Keyer

	outstanding atomic.Int64
}

// New creates a Normalizer reading from source.
func New(source storage.PhotoSource, opts ...Option) *Normalizer {
	n := &Normalizer{
		source:     source,
		quality:    DefaultQuality,
		maxPixels:  DefaultMaxPixels,
		background: color.White,
		cache:      cache.NewNullCache(),
		keyer:      cache.NewDefaultKeyer(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Quality returns the JPEG quality in use.
func (n *Normalizer) Quality() int { return n.quality }

// Outstanding returns the number of images handed out and not yet released.
func (n *Normalizer) Outstanding() int64 { return n.outstanding.Load() }

// Normalize fetches the photo stored under key and returns it as an opaque
// JPEG. Failures are RENDER errors wrapping ErrFetchFailed or
// ErrDecodeFailed.
func (n *Normalizer) Normalize(ctx context.Context, key string) (*Image, error) {
	keyOpts := cache.PhotoKeyOpts{Quality: n.quality, MaxPixels: n.maxPixels}
	if v, ok := n.source.(storage.Versioner); ok {
		ver, err := v.Version(ctx, key)
		if err != nil {
			return nil, renderError(key, ErrFetchFailed, err)
		}
		keyOpts.Version = ver
	}
	cacheKey := n.keyer.PhotoKey(key, keyOpts)

	encoded, hit, err := n.cache.Get(ctx, cacheKey)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "photo")
		encoded, err = n.encode(ctx, key)
		if err != nil {
			return nil, err
		}
		if err := n.cache.Set(ctx, cacheKey, encoded, cache.PhotoTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "photo", len(encoded))
		}
	} else {
		observability.Cache().OnCacheHit(ctx, "photo")
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(encoded))
	if err != nil {
		return nil, renderError(key, ErrDecodeFailed, err)
	}

	n.outstanding.Add(1)
	return &Image{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Encoded: encoded,
		release: func() { n.outstanding.Add(-1) },
	}, nil
}

func (n *Normalizer) encode(ctx context.Context, key string) ([]byte, error) {
	raw, err := n.source.Fetch(ctx, key)
	if err != nil {
		return nil, renderError(key, ErrFetchFailed, err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, renderError(key, ErrDecodeFailed, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, renderError(key, ErrDecodeFailed, errors.New("empty image"))
	}

	img = n.flatten(img)
	if n.maxPixels > 0 {
		b := img.Bounds()
		if b.Dx() > n.maxPixels || b.Dy() > n.maxPixels {
			img = imaging.Fit(img, n.maxPixels, n.maxPixels, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(n.quality)); err != nil {
		return nil, renderError(key, ErrDecodeFailed, err)
	}
	return buf.Bytes(), nil
}

// flatten composites images with an alpha or palette channel onto the
// background color.
func (n *Normalizer) flatten(img image.Image) image.Image {
	if !needsFlatten(img) {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), n.background)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func needsFlatten(img image.Image) bool {
	switch img.(type) {
	case *image.Paletted, *image.Alpha, *image.Alpha16:
		return true
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}

func renderError(key string, kind, cause error) error {
	return apperr.Wrap(apperr.ErrCodeRender, fmt.Errorf("%w: %w", kind, cause), "photo %s", key)
}
