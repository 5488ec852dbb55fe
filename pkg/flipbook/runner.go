package flipbook

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/snapshare/pkg/cache"
	"github.com/matzehuels/snapshare/pkg/conversion"
	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/event"
	"github.com/matzehuels/snapshare/pkg/lock"
	"github.com/matzehuels/snapshare/pkg/observability"
	"github.com/matzehuels/snapshare/pkg/render/layout"
	"github.com/matzehuels/snapshare/pkg/storage"
)

// DefaultLockTTL bounds how long a crashed build can block the next one.
const DefaultLockTTL = 10 * time.Minute

// Stage names reported to observability hooks.
const (
	StageLoad    = "load"
	StageRender  = "render"
	StageUpload  = "upload"
	StageConvert = "convert"
	StagePersist = "persist"
)

// Converter submits a stored document for conversion. It is satisfied by
// *conversion.Client.
type Converter interface {
	Configured() bool
	Submit(ctx context.Context, req conversion.Request) (conversion.Result, error)
}

// Deps are the collaborators of a Runner. Events, Photos, Source, Store
// and Converter are required.
type Deps struct {
	Events    event.Events
	Photos    event.Photos
	Source    storage.PhotoSource
	Store     storage.DocumentStore
	Converter Converter

	Locker  lock.Locker
	LockTTL time.Duration
	Render  RenderOptions
	Logger  *log.Logger
	Now     func() time.Time
}

// Runner executes flipbook builds. It holds no per-build state and is safe
// for concurrent use.
type Runner struct {
	deps Deps
}

// NewRunner creates a Runner. A nil Locker defaults to an in-process lock
// and a nil cache disables photo caching.
func NewRunner(d Deps) *Runner {
	if d.Locker == nil {
		d.Locker = lock.NewMemory()
	}
	if d.LockTTL <= 0 {
		d.LockTTL = DefaultLockTTL
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	if d.Render.Cache == nil {
		d.Render.Cache = cache.NewNullCache()
	}
	if d.Render.Logger == nil {
		d.Render.Logger = d.Logger
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Runner{deps: d}
}

// Result is the outcome of a successful build.
type Result struct {
	Success     bool          `json:"success"`
	FlipbookURL string        `json:"flipbook_url"`
	DocumentURL string        `json:"document_url"`
	Report      layout.Report `json:"-"`
	Stats       Stats         `json:"-"`
}

// Stats holds per-stage timings.
type Stats struct {
	LoadTime    time.Duration
	RenderTime  time.Duration
	UploadTime  time.Duration
	ConvertTime time.Duration
	Total       time.Duration
}

// Build runs every stage for eventID on behalf of hostID.
func (r *Runner) Build(ctx context.Context, eventID, hostID string) (res *Result, err error) {
	d := r.deps
	start := time.Now()
	style := ""
	logger := d.Logger.With("event_id", eventID)

	defer func() {
		pages := 0
		if res != nil {
			pages = res.Report.Pages
		}
		observability.Flipbook().OnBuildComplete(ctx, eventID, style, pages, time.Since(start), err)
	}()

	res = &Result{}

	var ev event.Event
	var records []event.PhotoRecord
	err = r.stage(ctx, eventID, StageLoad, &res.Stats.LoadTime, func() error {
		var err error
		ev, err = d.Events.Get(ctx, eventID, hostID)
		if errors.Is(err, event.ErrNotFound) {
			return apperr.Wrap(apperr.ErrCodeNotFound, err, "Event not found")
		}
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInternal, err, "load event %s", eventID)
		}
		photos, err := d.Photos.ListByEvent(ctx, eventID)
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInternal, err, "list photos for %s", eventID)
		}
		records, err = event.Records(photos)
		return err
	})
	if err != nil {
		return nil, err
	}

	meta := ev.Metadata()
	style = meta.Style.String()
	observability.Flipbook().OnBuildStart(ctx, eventID, style)

	release, err := d.Locker.Acquire(ctx, "flipbook:"+eventID, d.LockTTL)
	if errors.Is(err, lock.ErrLocked) {
		return nil, apperr.New(apperr.ErrCodeConflict, "a flipbook build is already running for this event")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "acquire build lock")
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("releasing build lock", "error", err)
		}
	}()

	if len(records) == 0 {
		return nil, apperr.New(apperr.ErrCodeValidation, "No photos to create flipbook")
	}
	if !d.Converter.Configured() {
		return nil, apperr.New(apperr.ErrCodeConfiguration, "conversion service credentials not configured")
	}

	var doc *Document
	err = r.stage(ctx, eventID, StageRender, &res.Stats.RenderTime, func() error {
		var err error
		doc, err = Render(ctx, meta, records, d.Source, d.Render)
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Report = doc.Report
	logger.Info("rendered flipbook document",
		"style", style,
		"pages", doc.Report.Pages,
		"rendered", doc.Report.Rendered,
		"skipped", len(doc.Report.Skipped),
		"bytes", len(doc.Data),
		"duration", res.Stats.RenderTime)

	key := fmt.Sprintf("flipbooks/%s/%d.pdf", eventID, d.Now().UnixMilli())
	err = r.stage(ctx, eventID, StageUpload, &res.Stats.UploadTime, func() error {
		var err error
		res.DocumentURL, err = d.Store.Put(ctx, key, doc.Data, ContentType)
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeUpload, err, "store flipbook document %s", key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = r.stage(ctx, eventID, StageConvert, &res.Stats.ConvertTime, func() error {
		theme := layout.Select(style).Theme()
		out, err := d.Converter.Submit(ctx, conversion.Request{
			DocumentURL: res.DocumentURL,
			Title:       meta.DisplayName,
			Subtitle:    meta.DisplayDate,
			Options: conversion.StyleOptions{
				Style:      style,
				Background: hex(theme.Background),
				Download:   true,
				Share:      true,
				Fullscreen: true,
			},
		})
		if err != nil {
			if apperr.GetCode(err) == "" {
				return apperr.Wrap(apperr.ErrCodeConversion, err, "conversion failed")
			}
			return err
		}
		if out.ViewerURL() == "" {
			return apperr.New(apperr.ErrCodeConversion, "conversion response has neither url nor link")
		}
		res.FlipbookURL = out.ViewerURL()
		return nil
	})
	if err != nil {
		return nil, err
	}

	var persistTime time.Duration
	err = r.stage(ctx, eventID, StagePersist, &persistTime, func() error {
		if err := d.Events.SetFlipbook(ctx, eventID, res.FlipbookURL, d.Now()); err != nil {
			return apperr.Wrap(apperr.ErrCodeInternal, err, "save flipbook url")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Success = true
	res.Stats.Total = time.Since(start)
	logger.Info("flipbook created", "url", res.FlipbookURL, "duration", res.Stats.Total)
	return res, nil
}

func (r *Runner) stage(ctx context.Context, eventID, name string, took *time.Duration, fn func() error) error {
	start := time.Now()
	err := fn()
	*took = time.Since(start)
	observability.Flipbook().OnStageComplete(ctx, eventID, name, *took, err)
	r.deps.Logger.Debug("stage complete", "event_id", eventID, "stage", name, "duration", *took, "error", err)
	return err
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
