package event

import "strings"

// Style names a flipbook layout strategy.
type Style string

// Supported flipbook styles.
const (
	StyleMemoryArchive     Style = "memory_archive"
	StyleTypographyCollage Style = "typography_collage"
	StyleMinimalistStory   Style = "minimalist_story"
)

// DefaultStyle is used when an event has no style or an unrecognized one.
const DefaultStyle = StyleMemoryArchive

// Styles lists every supported style in display order.
var Styles = []Style{StyleMemoryArchive, StyleTypographyCollage, StyleMinimalistStory}

// Valid reports whether s is one of the supported styles.
func (s Style) Valid() bool {
	switch s {
	case StyleMemoryArchive, StyleTypographyCollage, StyleMinimalistStory:
		return true
	}
	return false
}

// String returns the wire name of the style.
func (s Style) String() string { return string(s) }

// ParseStyle maps a stored style value to a Style. Unknown or empty values
// fall back to DefaultStyle without an error.
func ParseStyle(name string) Style {
	s := Style(strings.TrimSpace(name))
	if s.Valid() {
		return s
	}
	return DefaultStyle
}
