// Package document composes fixed-size pages from draw primitives and seals
// them into a PDF.
//
// A [Builder] is a small state machine: one page may be open at a time,
// primitives target only that page, [Builder.Commit] freezes it, and
// [Builder.Seal] turns the committed pages into bytes exactly once.
// Coordinates are PDF points with the origin at the top-left corner of the
// page; text is positioned by its baseline.
//
//	b, _ := document.New()
//	b.OpenPage()
//	b.FillRect(0, 0, b.Width(), b.Height(), color.Black)
//	b.Text("Hello", b.Width()/2, 100, document.Font{Size: 32, Bold: true}, color.White, document.AlignCenter)
//	b.Commit()
//	pdf, err := b.Seal()
//
// Misusing the state machine (drawing with no open page, opening a second
// page, sealing twice) is a programming error and panics with a BUILDER
// coded *errors.Error.
package document
