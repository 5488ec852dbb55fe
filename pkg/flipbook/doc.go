// Package flipbook builds an event's flipbook end to end.
//
// A build runs a fixed sequence of stages and aborts on the first error:
//
//  1. Load: read the event (it must belong to the requesting host) and its
//     photos in upload order
//  2. Validate: refuse an event without photos, then refuse a build when
//     the conversion service has no credentials
//  3. Render: lay out cover, content and closing pages in the event's style
//     and seal the PDF
//  4. Upload: store the PDF under flipbooks/<event-id>/<unix-millis>.pdf
//  5. Convert: submit the public PDF URL to the conversion service
//  6. Persist: write flipbook_url and flipbook_created_at onto the event
//
// Photos that cannot be fetched or decoded are skipped during rendering and
// listed in the [layout.Report]; every other failure aborts the build and
// leaves the event untouched. Builds for the same event are serialized by a
// [lock.Locker]: a second concurrent build fails with a CONFLICT error.
//
// # Usage
//
//	runner := flipbook.NewRunner(flipbook.Deps{
//	    Events:    events,
//	    Photos:    photos,
//	    Source:    blobs,
//	    Store:     blobs,
//	    Converter: conversion.New(cfg),
//	    Logger:    logger,
//	})
//	result, err := runner.Build(ctx, eventID, hostID)
//	if err != nil {
//	    return err // errors.GetCode(err) names the failure category
//	}
//	fmt.Println(result.FlipbookURL)
//
// [Render] runs only the rendering stage and is used by the CLI to produce
// a PDF from a local directory of photos.
package flipbook
