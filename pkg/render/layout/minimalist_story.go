package layout

import (
	"fmt"
	"image/color"

	"github.com/matzehuels/snapshare/pkg/event"
	"github.com/matzehuels/snapshare/pkg/render/document"
	"github.com/matzehuels/snapshare/pkg/render/photo"
)

// minimalistStory is the light story style: one photo per page under a
// segmented progress bar.
type minimalistStory struct{}

var minimalistStoryTheme = Theme{
	Background:    white,
	Accent:        rgb(0x22, 0x22, 0x22),
	Text:          rgb(0x22, 0x22, 0x22),
	Muted:         rgb(0x88, 0x88, 0x88),
	Palette:       []color.NRGBA{rgb(0x22, 0x22, 0x22), rgb(0xe0, 0xe0, 0xe0)},
	Margin:        40,
	Gap:           4,
	PhotosPerPage: 1,
	Quality:       95,
}

const (
	maxCoverDots   = 10
	progressY      = 30
	progressHeight = 3
	storyInsetX    = 80
	storyInsetY    = 60
)

func (minimalistStory) Style() event.Style { return event.StyleMinimalistStory }
func (minimalistStory) Theme() Theme       { return minimalistStoryTheme }

func (minimalistStory) PageCount(n int) int { return 2 + n }

func (minimalistStory) Cover(s Surface, meta event.Metadata, n int) {
	t := minimalistStoryTheme
	w, h := s.Width(), s.Height()
	s.OpenPage()
	fullBleed(s, t.Background)
	s.Line(storyInsetX, storyInsetY, w-storyInsetX, storyInsetY, 0.5, t.Accent)
	s.Line(storyInsetX, h-storyInsetY, w-storyInsetX, h-storyInsetY, 0.5, t.Accent)

	titleY := h * 0.42
	size := fitFontSize(s, meta.DisplayName, 40, 18, 2, w-2*storyInsetX, false)
	s.Text(meta.DisplayName, w/2, titleY, document.Font{Size: size}, t.Text, document.AlignCenter)
	if meta.DisplayDate != "" {
		s.Text(meta.DisplayDate, w/2, titleY+36, document.Font{Size: 14}, t.Muted, document.AlignCenter)
	}

	dots := min(n, maxCoverDots)
	const spacing, r = 14.0, 3.0
	x0 := w/2 - float64(dots-1)*spacing/2
	dotY := titleY + 80
	for i := range dots {
		s.Circle(x0+float64(i)*spacing, dotY, r, t.Accent)
	}

	caption := fmt.Sprintf("%d photographs", n)
	if n == 1 {
		caption = "1 photograph"
	}
	s.Text(caption, w/2, dotY+30, document.Font{Size: 12}, t.Muted, document.AlignCenter)
	s.Commit()
}

// progressSegments returns the bar segments for n photos across width
// span. The gap collapses when segments would be thinner than a point.
func progressSegments(x0, span float64, n int) []Box {
	gap := minimalistStoryTheme.Gap
	segW := (span - gap*float64(n-1)) / float64(n)
	if segW < 1 {
		gap = 0
		segW = span / float64(n)
	}
	out := make([]Box, n)
	for i := range out {
		out[i] = Box{X: x0 + float64(i)*(segW+gap), Y: progressY, W: segW, H: progressHeight}
	}
	return out
}

func (minimalistStory) Content(s Surface, photos []event.PhotoRecord, p *Placer) {
	t := minimalistStoryTheme
	w, h := s.Width(), s.Height()
	n := len(photos)
	segments := progressSegments(t.Margin, w-2*t.Margin, n)
	frame := Box{X: storyInsetX, Y: storyInsetY, W: w - 2*storyInsetX, H: h - 2*storyInsetY}
	watched, unwatched := t.Palette[0], t.Palette[1]

	for i, rec := range photos {
		s.OpenPage()
		fullBleed(s, t.Background)
		for j, seg := range segments {
			c := unwatched
			if j <= i {
				c = watched
			}
			s.FillRect(seg.X, seg.Y, seg.W, seg.H, c)
		}

		p.Place(rec, func(img *photo.Image) {
			drawImage(s, img, Fit(float64(img.Width), float64(img.Height), frame, AnchorCenter))
		})

		s.Text(fmt.Sprintf("%d / %d", i+1, n), w/2, h-28, document.Font{Size: 11}, t.Muted, document.AlignCenter)
		s.Commit()
	}
}

func (minimalistStory) Closing(s Surface, meta event.Metadata) {
	t := minimalistStoryTheme
	w, h := s.Width(), s.Height()
	s.OpenPage()
	fullBleed(s, t.Background)
	s.Text("The End", w/2, h*0.45, document.Font{Size: 36}, t.Text, document.AlignCenter)
	s.Text("Thank you for being part of "+meta.DisplayName, w/2, h*0.45+36,
		document.Font{Size: 14}, t.Muted, document.AlignCenter)
	s.Circle(w/2, h*0.45+70, 4, t.Accent)
	s.Commit()
}
