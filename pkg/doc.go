// Package pkg provides the core libraries of the photo booth.
//
// # Overview
//
// The booth arranges photos into predefined print frames. A frame divides a
// canvas into slots; each slot shows one photo scaled to cover it, with an
// optional per-slot zoom and pan. The pkg directory is organized into three
// areas:
//
//  1. Geometry - [frame], [layout] and [transform] are pure functions over
//     integers and floats
//  2. Booth state - [photo], [session] and [camera] hold the visit state and
//     its collaborators
//  3. Output - [compose], [sink], [pipeline] and [cache] turn a session into
//     cached PNG, PDF and print artifacts
//
// # Architecture
//
// The typical data flow:
//
//	Uploads / camera captures
//	         ↓
//	    [photo] package (decode, EXIF orientation, content hash)
//	         ↓
//	    [session] package (library, slot assignment, transforms, menus)
//	         ↓
//	    [compose] package (draw plan + clipped raster)
//	         ↓
//	    [sink] package (PNG, PDF, HTML print page)
//
// # Quick Start
//
// Compose two photos into the 2-photo strip and export a PNG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/photobooth/pkg/frame"
//	    "github.com/matzehuels/photobooth/pkg/photo"
//	    "github.com/matzehuels/photobooth/pkg/pipeline"
//	    "github.com/matzehuels/photobooth/pkg/session"
//	    "github.com/matzehuels/photobooth/pkg/sink"
//	)
//
//	// 1. Load photos into a session
//	sess := session.New(session.WithFrame(frame.MustGet(11)))
//	_, _ = sess.Upload(ctx, photo.Files("a.jpg", "b.jpg"), session.NoSlot)
//
//	// 2. Adjust a slot
//	_ = sess.SetZoom(0, 0.5)
//	_ = sess.Pan(0, 20, -10)
//
//	// 3. Export
//	runner := pipeline.NewRunner(nil, nil, nil)
//	out, _ := runner.Export(ctx, sess.Snapshot(), []sink.Format{sink.FormatPNG})
//
// # Main Packages
//
// [frame] - The frame catalog: eleven frames with slot counts, geometry kinds
// and print orientation.
//
// [layout] - Slot rectangles, hit testing and divider segments for a frame on
// a canvas. Slot rectangles tile the canvas exactly.
//
// [transform] - Cover placement of a photo in a slot plus zoom around the
// slot center and pan.
//
// [compose] - Rasterizes a frame with its assigned slots onto a white canvas
// and renders small frame previews.
//
// [session] - The booth state machine and the [session.Recomposer], which
// renders the newest snapshot on a background goroutine.
//
// [camera] - Hot-folder capture device, countdown capture and the
// cancellable acquisition controller.
//
// [pipeline] - Decode, compose and export with content-addressed artifact
// caching. Used by the CLI, the editor and the HTTP server.
//
// [cache] - File, Redis and null artifact caches.
//
// [config] - TOML and YAML booth configuration.
//
// [errors] - Coded errors shared by every layer.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [frame]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/frame
// [layout]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/layout
// [transform]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/transform
// [photo]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/photo
// [session]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/session
// [session.Recomposer]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/session#Recomposer
// [camera]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/camera
// [compose]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/compose
// [sink]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/photobooth/pkg/errors
package pkg
