package layout

// Box is an axis-aligned rectangle in page points, origin top-left.
type Box struct {
	X, Y, W, H float64
}

// Inset shrinks b by d on every side.
func (b Box) Inset(d float64) Box {
	return Box{X: b.X + d, Y: b.Y + d, W: b.W - 2*d, H: b.H - 2*d}
}

// Outset grows b by d on every side.
func (b Box) Outset(d float64) Box {
	return b.Inset(-d)
}

// Anchor pins a fitted image inside its box.
type Anchor int

const (
	// AnchorCenter centers on both axes.
	AnchorCenter Anchor = iota
	// AnchorTop centers horizontally and pins to the top edge.
	AnchorTop
)

// Fit scales an image of natural size imgW x imgH to the largest box that
// fits inside box while keeping its aspect ratio, positioned by anchor.
// Degenerate sizes yield box itself.
func Fit(imgW, imgH float64, box Box, anchor Anchor) Box {
	if imgW <= 0 || imgH <= 0 || box.W <= 0 || box.H <= 0 {
		return box
	}
	ratio := imgW / imgH
	var w, h float64
	if ratio > box.W/box.H {
		w, h = box.W, box.W/ratio
	} else {
		w, h = box.H*ratio, box.H
	}

	out := Box{X: box.X + (box.W-w)/2, W: w, H: h}
	switch anchor {
	case AnchorTop:
		out.Y = box.Y
	default:
		out.Y = box.Y + (box.H-h)/2
	}
	return out
}
