// Package layout turns an ordered photo sequence into flipbook pages.
//
// Each visual style is a [Strategy] with its own [Theme] and page geometry.
// [Select] maps a style name to its strategy, falling back to
// memory_archive for anything it does not recognize. [Render] drives a
// strategy through cover, content and closing pages on a [Surface]:
//
//	strat := layout.Select(string(meta.Style))
//	report, err := layout.Render(ctx, builder, strat, meta, records, normalizer, logger)
//
// Photos that fail to load are skipped and listed in the [Report]; they
// never abort the document. The number of pages depends only on the style
// and the number of photos.
package layout
