package document

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/matzehuels/snapshare/pkg/fonts"
)

type faceSet struct {
	family *canvas.FontFamily
}

var (
	sharedFaces    *faceSet
	sharedFacesErr error
	sharedOnce     sync.Once
)

// loadFaces parses the embedded fonts once per process.
func loadFaces() (*faceSet, error) {
	sharedOnce.Do(func() {
		family := canvas.NewFontFamily(fonts.Family)
		if err := family.LoadFont(fonts.Regular(), 0, canvas.FontRegular); err != nil {
			sharedFacesErr = fmt.Errorf("load regular face: %w", err)
			return
		}
		if err := family.LoadFont(fonts.Bold(), 0, canvas.FontBold); err != nil {
			sharedFacesErr = fmt.Errorf("load bold face: %w", err)
			return
		}
		sharedFaces = &faceSet{family: family}
	})
	return sharedFaces, sharedFacesErr
}

func (f *faceSet) face(font Font, col color.Color) *canvas.FontFace {
	style := canvas.FontRegular
	if font.Bold {
		style = canvas.FontBold
	}
	if col == nil {
		col = color.Black
	}
	return f.family.Face(font.Size, col, style, canvas.FontNormal)
}

// width returns the advance width of s in points.
func (f *faceSet) width(s string, font Font) float64 {
	return pt(f.face(font, color.Black).TextWidth(s))
}
