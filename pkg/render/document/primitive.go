package document

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"
)

// Align controls horizontal text anchoring.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) canvas() canvas.TextAlign {
	switch a {
	case AlignCenter:
		return canvas.Center
	case AlignRight:
		return canvas.Right
	default:
		return canvas.Left
	}
}

// Font selects a face of the embedded family. Size is in points.
type Font struct {
	Size float64
	Bold bool
}

// Primitive is one recorded draw operation on a page.
type Primitive interface {
	draw(ctx *canvas.Context, faces *faceSet) error
}

// Rect is a filled rectangle. A positive Radius rounds the corners.
type Rect struct {
	X, Y, W, H float64
	Radius     float64
	Fill       color.Color
}

// Circle is a filled circle centered on (CX, CY).
type Circle struct {
	CX, CY, R float64
	Fill      color.Color
}

// Line is a straight stroke.
type Line struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Color          color.Color
}

// Image places an opaque JPEG into the box (X, Y, W, H). The bytes are
// decoded only while the page is sealed.
type Image struct {
	X, Y, W, H float64
	JPEG       []byte
}

// Text is a single line anchored at X according to Align, with its
// baseline at Y.
type Text struct {
	Text  string
	X, Y  float64
	Font  Font
	Color color.Color
	Align Align
}

var transparent = color.NRGBA{}

func (r Rect) draw(ctx *canvas.Context, _ *faceSet) error {
	fill := r.Fill
	if fill == nil {
		fill = transparent
	}
	ctx.SetFillColor(fill)
	ctx.SetStrokeColor(transparent)
	ctx.SetStrokeWidth(0)
	path := canvas.Rectangle(mm(r.W), mm(r.H))
	if r.Radius > 0 {
		path = canvas.RoundedRectangle(mm(r.W), mm(r.H), mm(r.Radius))
	}
	ctx.DrawPath(mm(r.X), mm(r.Y), path)
	return nil
}

func (c Circle) draw(ctx *canvas.Context, _ *faceSet) error {
	ctx.SetFillColor(c.Fill)
	ctx.SetStrokeColor(transparent)
	ctx.SetStrokeWidth(0)
	ctx.DrawPath(mm(c.CX), mm(c.CY), canvas.Circle(mm(c.R)))
	return nil
}

func (l Line) draw(ctx *canvas.Context, _ *faceSet) error {
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(l.Color)
	ctx.SetStrokeWidth(mm(l.Width))
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(mm(l.X2-l.X1), mm(l.Y2-l.Y1))
	ctx.DrawPath(mm(l.X1), mm(l.Y1), p)
	return nil
}

func (i Image) draw(ctx *canvas.Context, _ *faceSet) error {
	if len(i.JPEG) == 0 || i.W <= 0 {
		return nil
	}
	img, err := canvas.NewJPEGImage(bytes.NewReader(i.JPEG))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	px := img.Bounds().Dx()
	if px == 0 {
		return nil
	}
	ctx.DrawImage(mm(i.X), mm(i.Y), img, canvas.DPMM(float64(px)/mm(i.W)))
	return nil
}

func (t Text) draw(ctx *canvas.Context, faces *faceSet) error {
	face := faces.face(t.Font, t.Color)
	ctx.DrawText(mm(t.X), mm(t.Y), canvas.NewTextLine(face, t.Text, t.Align.canvas()))
	return nil
}
