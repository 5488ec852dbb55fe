package layout

import (
	"math"
	"testing"
)

func TestFit(t *testing.T) {
	box := Box{X: 10, Y: 20, W: 400, H: 200}

	tests := []struct {
		name       string
		imgW, imgH float64
		anchor     Anchor
		want       Box
	}{
		{"wideIsWidthConstrained", 800, 200, AnchorCenter, Box{X: 10, Y: 70, W: 400, H: 100}},
		{"tallIsHeightConstrained", 100, 200, AnchorCenter, Box{X: 160, Y: 20, W: 100, H: 200}},
		{"sameRatioFills", 40, 20, AnchorCenter, Box{X: 10, Y: 20, W: 400, H: 200}},
		{"anchorTop", 800, 200, AnchorTop, Box{X: 10, Y: 20, W: 400, H: 100}},
		{"degenerate", 0, 100, AnchorCenter, box},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.imgW, tt.imgH, box, tt.anchor)
			if !boxNear(got, tt.want) {
				t.Errorf("Fit() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFitPreservesRatio(t *testing.T) {
	boxes := []Box{
		{W: 379, H: 387},
		{W: 681, H: 475},
		{W: 360, H: 227},
		{W: 1, H: 1000},
	}
	sizes := [][2]float64{{4032, 3024}, {3024, 4032}, {1, 1}, {1920, 1080}, {7, 5000}, {5000, 7}}

	for _, box := range boxes {
		for _, sz := range sizes {
			got := Fit(sz[0], sz[1], box, AnchorCenter)
			if got.W > box.W+1e-9 || got.H > box.H+1e-9 {
				t.Errorf("Fit(%v, %+v) = %+v exceeds box", sz, box, got)
			}
			if got.X < box.X-1e-9 || got.Y < box.Y-1e-9 {
				t.Errorf("Fit(%v, %+v) = %+v starts outside box", sz, box, got)
			}
			want := sz[0] / sz[1]
			if r := got.W / got.H; math.Abs(r-want)/want > 1e-9 {
				t.Errorf("Fit(%v, %+v) ratio = %v, want %v", sz, box, r, want)
			}
			if math.Abs(got.W-box.W) > 1e-9 && math.Abs(got.H-box.H) > 1e-9 {
				t.Errorf("Fit(%v, %+v) = %+v touches neither edge", sz, box, got)
			}
		}
	}
}

func TestBoxInsetOutset(t *testing.T) {
	b := Box{X: 10, Y: 10, W: 100, H: 50}
	if got := b.Inset(5); got != (Box{X: 15, Y: 15, W: 90, H: 40}) {
		t.Errorf("Inset() = %+v", got)
	}
	if got := b.Inset(5).Outset(5); got != b {
		t.Errorf("Outset(Inset()) = %+v, want %+v", got, b)
	}
}

func boxNear(a, b Box) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.W-b.W) < eps && math.Abs(a.H-b.H) < eps
}
