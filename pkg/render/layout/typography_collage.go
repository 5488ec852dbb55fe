package layout

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/matzehuels/snapshare/pkg/event"
	"github.com/matzehuels/snapshare/pkg/render/document"
	"github.com/matzehuels/snapshare/pkg/render/photo"
)

// typographyCollage is the vibrant style: a 2x2 grid of white-bordered
// photos over a cycling background color and a large overlay word.
type typographyCollage struct{}

var typographyCollageTheme = Theme{
	Background: rgb(0x11, 0x11, 0x11),
	Accent:     rgb(0xff, 0x33, 0x66),
	Text:       rgb(0x11, 0x11, 0x11),
	Muted:      rgb(0xff, 0xff, 0xff),
	Palette: []color.NRGBA{
		rgb(0xff, 0x6b, 0x6b),
		rgb(0x4e, 0xcd, 0xc4),
		rgb(0xff, 0xe6, 0x6d),
		rgb(0x95, 0xe1, 0xd3),
	},
	Words:         []string{"MEMORIES", "MOMENTS", "LOVE", "JOY", "CELEBRATE", "TOGETHER"},
	Margin:        40,
	Gap:           20,
	Padding:       8,
	PhotosPerPage: 4,
	Quality:       85,
}

const overlayAlpha = 0.15

func (typographyCollage) Style() event.Style { return event.StyleTypographyCollage }
func (typographyCollage) Theme() Theme       { return typographyCollageTheme }

func (typographyCollage) PageCount(n int) int {
	return 2 + ceilDiv(n, typographyCollageTheme.PhotosPerPage)
}

func (typographyCollage) Cover(s Surface, meta event.Metadata, n int) {
	t := typographyCollageTheme
	w, h := s.Width(), s.Height()
	s.OpenPage()
	fullBleed(s, t.Accent)

	deco := document.Font{Size: 180, Bold: true}
	s.Text(t.Words[0], -40, h*0.30, deco, withAlpha(white, overlayAlpha), document.AlignLeft)
	s.Text(t.Words[1], w+40, h*0.98, deco, withAlpha(white, overlayAlpha), document.AlignRight)

	title := strings.ToUpper(meta.DisplayName)
	size := fitFontSize(s, title, 72, 20, 4, w-2*t.Margin, true)
	s.Text(title, w/2, h*0.5, document.Font{Size: size, Bold: true}, white, document.AlignCenter)
	if meta.DisplayDate != "" {
		s.Text(meta.DisplayDate, w/2, h*0.5+48, document.Font{Size: 20}, white, document.AlignCenter)
	}
	s.Text(fmt.Sprintf("%d PHOTOS", n), w/2, h*0.5+82, document.Font{Size: 16, Bold: true}, t.Text, document.AlignCenter)
	s.Commit()
}

// collageGrid returns the four cells of the 2x2 grid in reading order.
func collageGrid(w, h float64) []Box {
	t := typographyCollageTheme
	cw := (w - 2*t.Margin - t.Gap) / 2
	ch := (h - 2*t.Margin - t.Gap) / 2
	cells := make([]Box, 0, 4)
	for row := range 2 {
		for col := range 2 {
			cells = append(cells, Box{
				X: t.Margin + float64(col)*(cw+t.Gap),
				Y: t.Margin + float64(row)*(ch+t.Gap),
				W: cw,
				H: ch,
			})
		}
	}
	return cells
}

func (typographyCollage) Content(s Surface, photos []event.PhotoRecord, p *Placer) {
	t := typographyCollageTheme
	w, h := s.Width(), s.Height()
	cells := collageGrid(w, h)
	for pageIdx, page := range chunk(photos, t.PhotosPerPage) {
		s.OpenPage()
		fullBleed(s, t.Palette[pageIdx%len(t.Palette)])
		word := t.Words[pageIdx%len(t.Words)]
		s.Text(word, w/2, h*0.62, document.Font{Size: 200, Bold: true}, withAlpha(white, overlayAlpha), document.AlignCenter)

		for i, rec := range page {
			cell := cells[i]
			p.Place(rec, func(img *photo.Image) {
				fit := Fit(float64(img.Width), float64(img.Height), cell.Inset(t.Padding), AnchorCenter)
				border := fit.Outset(t.Padding)
				s.FillRect(border.X, border.Y, border.W, border.H, white)
				drawImage(s, img, fit)
			})
		}
		s.Commit()
	}
}

func (typographyCollage) Closing(s Surface, meta event.Metadata) {
	t := typographyCollageTheme
	w, h := s.Width(), s.Height()
	s.OpenPage()
	fullBleed(s, t.Background)
	s.Text("FIN.", w/2, h*0.55, document.Font{Size: 120, Bold: true}, t.Accent, document.AlignCenter)
	s.Text(meta.DisplayName, w/2, h*0.55+50, document.Font{Size: 20}, white, document.AlignCenter)
	s.Commit()
}
