// Package render groups the stages that turn event photos into a flipbook
// document.
//
// # Overview
//
// Rendering is split into three subpackages, each usable on its own:
//
//   - [photo]: loads stored photos, bounds their pixel count and flattens
//     them to JPEG bytes the document can embed
//   - [document]: a page builder with draw primitives and a one-shot PDF seal
//   - [layout]: the visual styles (memory archive, typography collage,
//     minimalist story) that place photos and captions on pages
//
// The [flipbook] package wires them together:
//
//	strat := layout.Select(string(meta.Style))
//	norm := photo.New(source, photo.WithQuality(strat.Theme().Quality))
//	b, _ := document.New(document.WithInfo(meta.DisplayName, meta.DisplayDate))
//	report, err := layout.Render(ctx, b, strat, meta, records, norm, logger)
//	pdf, err := b.Seal()
//
// [photo]: github.com/matzehuels/snapshare/pkg/render/photo
// [document]: github.com/matzehuels/snapshare/pkg/render/document
// [layout]: github.com/matzehuels/snapshare/pkg/render/layout
// [flipbook]: github.com/matzehuels/snapshare/pkg/flipbook
package render
