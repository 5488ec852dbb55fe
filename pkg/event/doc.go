// Package event defines the records a flipbook build reads and writes.
//
// An [Event] is owned by a host and collects guest [Photo] uploads. The
// rendering core never sees these storage records directly: it works on the
// read-only [Metadata] view and the ordered [PhotoRecord] sequence produced by
// [Records], which validates required fields at the repository boundary.
//
// Persistence is expressed through the [Events] and [Photos] interfaces;
// implementations live under pkg/storage.
package event
