// Package fonts provides the embedded typefaces used in flipbook documents.
//
// The Latin Modern Sans faces ship inside the binary via the go-fonts
// module, so rendering never depends on system fonts.
package fonts

import (
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// Family is the font family name registered with the document renderer.
const Family = "Latin Modern Sans"

// Regular returns the regular-weight OpenType data.
func Regular() []byte {
	return lmsans10regular.TTF
}

// Bold returns the bold-weight OpenType data.
func Bold() []byte {
	return lmsans10bold.TTF
}
