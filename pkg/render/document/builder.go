package document

import (
	"bytes"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	apperr "github.com/matzehuels/snapshare/pkg/errors"
)

// Landscape A4 in points.
const (
	PageWidth  = 841.89
	PageHeight = 595.28
)

const mmPerPt = 25.4 / 72

func mm(pt float64) float64 { return pt * mmPerPt }
func pt(mm float64) float64 { return mm / mmPerPt }

// Page is a committed page. Its primitives are in draw order.
type Page struct {
	Width, Height float64
	Primitives    []Primitive
}

// Images returns the image primitives on the page in draw order.
func (p Page) Images() []Image {
	var out []Image
	for _, prim := range p.Primitives {
		if img, ok := prim.(Image); ok {
			out = append(out, img)
		}
	}
	return out
}

// Texts returns the text primitives on the page in draw order.
func (p Page) Texts() []Text {
	var out []Text
	for _, prim := range p.Primitives {
		if t, ok := prim.(Text); ok {
			out = append(out, t)
		}
	}
	return out
}

// Option configures a Builder.
type Option func(*Builder)

// WithPageSize overrides the landscape A4 default.
func WithPageSize(width, height float64) Option {
	return func(b *Builder) { b.width, b.height = width, height }
}

// WithInfo sets the PDF document title and subject.
func WithInfo(title, subject string) Option {
	return func(b *Builder) { b.title, b.subject = title, subject }
}

// Builder accumulates pages and seals them into a PDF. It is not safe for
// concurrent use.
type Builder struct {
	width, height  float64
	title, subject string
	faces          *faceSet

	pages  []Page
	open   *Page
	sealed bool
}

// New creates an empty Builder.
func New(opts ...Option) (*Builder, error) {
	faces, err := loadFaces()
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "load fonts")
	}
	b := &Builder{width: PageWidth, height: PageHeight, faces: faces}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Width returns the page width in points.
func (b *Builder) Width() float64 { return b.width }

// Height returns the page height in points.
func (b *Builder) Height() float64 { return b.height }

// OpenPage starts a new page. It panics if a page is already open or the
// document has been sealed.
func (b *Builder) OpenPage() {
	b.mustNotBeSealed("open page")
	if b.open != nil {
		misuse("open page: page %d is still open", len(b.pages)+1)
	}
	b.open = &Page{Width: b.width, Height: b.height}
}

// Draw appends p to the open page.
func (b *Builder) Draw(p Primitive) {
	b.mustNotBeSealed("draw")
	if b.open == nil {
		misuse("draw: no open page")
	}
	b.open.Primitives = append(b.open.Primitives, p)
}

// FillRect draws a filled rectangle.
func (b *Builder) FillRect(x, y, w, h float64, fill color.Color) {
	b.Draw(Rect{X: x, Y: y, W: w, H: h, Fill: fill})
}

// RoundedRect draws a filled rectangle with rounded corners.
func (b *Builder) RoundedRect(x, y, w, h, radius float64, fill color.Color) {
	b.Draw(Rect{X: x, Y: y, W: w, H: h, Radius: radius, Fill: fill})
}

// Circle draws a filled circle.
func (b *Builder) Circle(cx, cy, r float64, fill color.Color) {
	b.Draw(Circle{CX: cx, CY: cy, R: r, Fill: fill})
}

// Line draws a straight line.
func (b *Builder) Line(x1, y1, x2, y2, width float64, c color.Color) {
	b.Draw(Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Color: c})
}

// Image places the JPEG data into the box (x, y, w, h). Callers are
// expected to pass a box with the image's aspect ratio. Only the encoded
// bytes are kept until Seal.
func (b *Builder) Image(data []byte, x, y, w, h float64) {
	b.Draw(Image{X: x, Y: y, W: w, H: h, JPEG: data})
}

// Text draws s with its baseline at y.
func (b *Builder) Text(s string, x, y float64, font Font, c color.Color, align Align) {
	b.Draw(Text{Text: s, X: x, Y: y, Font: font, Color: c, Align: align})
}

// TextWidth measures s in points.
func (b *Builder) TextWidth(s string, font Font) float64 {
	return b.faces.width(s, font)
}

// Commit closes the open page and appends it to the document.
func (b *Builder) Commit() {
	b.mustNotBeSealed("commit")
	if b.open == nil {
		misuse("commit: no open page")
	}
	b.pages = append(b.pages, *b.open)
	b.open = nil
}

// PageCount returns the number of committed pages.
func (b *Builder) PageCount() int { return len(b.pages) }

// Pages returns the committed pages.
func (b *Builder) Pages() []Page {
	out := make([]Page, len(b.pages))
	copy(out, b.pages)
	return out
}

// Seal renders all committed pages into a PDF. It panics if a page is
// still open or the document was already sealed, and returns an error for
// an empty document or a rendering failure.
func (b *Builder) Seal() ([]byte, error) {
	b.mustNotBeSealed("seal")
	if b.open != nil {
		misuse("seal: page %d is still open", len(b.pages)+1)
	}
	b.sealed = true
	if len(b.pages) == 0 {
		return nil, apperr.New(apperr.ErrCodeBuilder, "seal: document has no pages")
	}

	var buf bytes.Buffer
	opts := pdf.DefaultOptions
	opts.ImageEncoding = canvas.Lossy
	w := pdf.New(&buf, mm(b.width), mm(b.height), &opts)
	if b.title != "" || b.subject != "" {
		w.SetInfo(b.title, b.subject, "", "", "snapshare")
	}
	for i, page := range b.pages {
		if i > 0 {
			w.NewPage(mm(page.Width), mm(page.Height))
		}
		c := canvas.New(mm(page.Width), mm(page.Height))
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV)
		for _, prim := range page.Primitives {
			if err := prim.draw(ctx, b.faces); err != nil {
				return nil, apperr.Wrap(apperr.ErrCodeBuilder, err, "seal: page %d", i+1)
			}
		}
		c.RenderTo(w)
	}
	if err := w.Close(); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "write pdf")
	}
	return buf.Bytes(), nil
}

func (b *Builder) mustNotBeSealed(op string) {
	if b.sealed {
		misuse("%s: document already sealed", op)
	}
}

func misuse(format string, args ...any) {
	panic(apperr.New(apperr.ErrCodeBuilder, format, args...))
}
