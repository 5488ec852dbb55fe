// Package pkg provides the core libraries for Snapshare event flipbooks.
//
// # Overview
//
// Snapshare collects photos that guests upload to an event and turns them
// into a page-turning flipbook. The pkg directory is organized into:
//
//  1. Domain: [event] (metadata, styles, photo records) and [flipbook]
//     (the load, render, upload, convert and persist build)
//  2. Rendering: [render/photo], [render/document] and [render/layout]
//  3. Infrastructure: [storage], [cache], [lock], [session], [config],
//     [observability]
//  4. Integrations: [conversion] (the hosted flipbook conversion API) built
//     on [httputil]
//
// # Architecture
//
// The data flow of a flipbook build:
//
//	event + photo records (storage)
//	         ↓
//	    [render/photo] (fetch, bound, flatten to JPEG)
//	         ↓
//	    [render/layout] (cover, content and closing pages per style)
//	         ↓
//	    [render/document] (sealed PDF)
//	         ↓
//	    storage upload → [conversion] → flipbook_url on the event
//
// # Quick Start
//
// Render a directory of photos without any services:
//
//	src, _ := local.New("./photos", "")
//	doc, err := flipbook.Render(ctx, event.Metadata{
//	    DisplayName: "Anna & Ben",
//	    Style:       event.StyleMemoryArchive,
//	}, records, src, flipbook.RenderOptions{})
//	os.WriteFile("flipbook.pdf", doc.Data, 0o644)
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [event]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/event
// [flipbook]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/flipbook
// [render/photo]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/render/photo
// [render/document]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/render/document
// [render/layout]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/render/layout
// [storage]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/storage
// [cache]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/cache
// [lock]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/lock
// [session]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/observability
// [conversion]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/conversion
// [httputil]: https://pkg.go.dev/github.com/matzehuels/snapshare/pkg/httputil
package pkg
