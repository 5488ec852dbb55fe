package layout

import "image/color"

// Theme is the fixed visual configuration of a style.
type Theme struct {
	Background color.NRGBA
	Accent     color.NRGBA
	Text       color.NRGBA
	Muted      color.NRGBA
	// Palette cycles content-page backgrounds by page index.
	Palette []color.NRGBA
	// Words cycles overlay words by page index.
	Words []string

	Margin  float64
	Gap     float64
	Padding float64

	PhotosPerPage int
	// Quality is the JPEG quality photos are normalized at.
	Quality int
}

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(a*255 + 0.5)
	return c
}

var white = rgb(0xff, 0xff, 0xff)
