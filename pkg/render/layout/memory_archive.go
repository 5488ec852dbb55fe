package layout

import (
	"fmt"

	"github.com/matzehuels/snapshare/pkg/event"
	"github.com/matzehuels/snapshare/pkg/render/document"
	"github.com/matzehuels/snapshare/pkg/render/photo"
)

// memoryArchive is the dark polaroid style: two photos per page on fixed
// diagonal positions, each in a white frame with its index underneath.
type memoryArchive struct{}

var memoryArchiveTheme = Theme{
	Background:    rgb(0x1a, 0x1a, 0x1a),
	Accent:        rgb(0xd4, 0xa5, 0x74),
	Text:          rgb(0xf5, 0xf5, 0xf5),
	Muted:         rgb(0x99, 0x99, 0x99),
	Margin:        80,
	Padding:       10,
	PhotosPerPage: 2,
	Quality:       85,
}

// polaroidStrip is the height of the frame's bottom margin holding the
// photo index.
const polaroidStrip = 34

var archiveLabel = rgb(0x55, 0x55, 0x55)

func (memoryArchive) Style() event.Style { return event.StyleMemoryArchive }
func (memoryArchive) Theme() Theme       { return memoryArchiveTheme }

func (memoryArchive) PageCount(n int) int {
	return 2 + ceilDiv(n, memoryArchiveTheme.PhotosPerPage)
}

func (memoryArchive) Cover(s Surface, meta event.Metadata, n int) {
	t := memoryArchiveTheme
	w, h := s.Width(), s.Height()
	s.OpenPage()
	fullBleed(s, t.Background)

	s.Line(w*0.2, h*0.30, w*0.8, h*0.30, 1, t.Accent)

	titleY := h * 0.42
	size := fitFontSize(s, meta.DisplayName, 42, 20, 2, w-2*t.Margin, true)
	s.Text(meta.DisplayName, w/2, titleY, document.Font{Size: size, Bold: true}, t.Text, document.AlignCenter)
	s.Text("MEMORY ARCHIVE", w/2, titleY+38, document.Font{Size: 14}, t.Accent, document.AlignCenter)
	if meta.DisplayDate != "" {
		s.Text(meta.DisplayDate, w/2, titleY+66, document.Font{Size: 14}, t.Muted, document.AlignCenter)
	}

	badge := fmt.Sprintf("%d MOMENTS CAPTURED", n)
	font := document.Font{Size: 11, Bold: true}
	bw, bh := s.TextWidth(badge, font)+40, 28.0
	by := h * 0.58
	s.RoundedRect(w/2-bw/2, by, bw, bh, bh/2, t.Accent)
	s.Text(badge, w/2, by+bh/2+4, font, t.Background, document.AlignCenter)

	s.Line(w*0.2, h*0.70, w*0.8, h*0.70, 1, t.Accent)
	s.Commit()
}

// archiveBoxes returns the frame boxes for a page holding count photos.
func archiveBoxes(w, h float64, count int) []Box {
	if count == 1 {
		return []Box{{X: w * 0.15, Y: h * 0.125, W: w * 0.70, H: h * 0.75}}
	}
	return []Box{
		{X: w * 0.05, Y: h * 0.05, W: w * 0.45, H: h * 0.65},
		{X: w * 0.50, Y: h * 0.30, W: w * 0.45, H: h * 0.65},
	}
}

func (memoryArchive) Content(s Surface, photos []event.PhotoRecord, p *Placer) {
	t := memoryArchiveTheme
	for _, page := range chunk(photos, t.PhotosPerPage) {
		s.OpenPage()
		fullBleed(s, t.Background)
		boxes := archiveBoxes(s.Width(), s.Height(), len(page))
		for i, rec := range page {
			box := boxes[i]
			p.Place(rec, func(img *photo.Image) {
				inner := Box{
					X: box.X + t.Padding,
					Y: box.Y + t.Padding,
					W: box.W - 2*t.Padding,
					H: box.H - t.Padding - polaroidStrip,
				}
				fit := Fit(float64(img.Width), float64(img.Height), inner, AnchorTop)
				frame := Box{
					X: fit.X - t.Padding,
					Y: fit.Y - t.Padding,
					W: fit.W + 2*t.Padding,
					H: fit.H + t.Padding + polaroidStrip,
				}
				s.FillRect(frame.X, frame.Y, frame.W, frame.H, white)
				drawImage(s, img, fit)
				label := fmt.Sprintf("#%02d", rec.Order+1)
				s.Text(label, frame.X+frame.W/2, fit.Y+fit.H+polaroidStrip*0.65,
					document.Font{Size: 11, Bold: true}, archiveLabel, document.AlignCenter)
			})
		}
		s.Commit()
	}
}

func (memoryArchive) Closing(s Surface, meta event.Metadata) {
	t := memoryArchiveTheme
	w, h := s.Width(), s.Height()
	s.OpenPage()
	fullBleed(s, t.Background)
	s.Text("THE END", w/2, h*0.45, document.Font{Size: 48, Bold: true}, t.Accent, document.AlignCenter)
	s.Line(w/2-40, h*0.45+22, w/2+40, h*0.45+22, 1, t.Accent)
	s.Text("Thank you for being part of "+meta.DisplayName, w/2, h*0.45+56,
		document.Font{Size: 16}, t.Text, document.AlignCenter)
	s.Commit()
}
