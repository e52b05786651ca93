// Package sink encodes a rendered collage into its export formats.
//
// # Overview
//
// A "sink" turns the compositor's raster surface into bytes for a
// consumer:
//
//   - PNG: the download artifact (collage.png)
//   - HTML: a print page embedding the PNG that opens the print dialog
//   - PDF: a print-ready page sized for 4x6" photo paper
//
// Basic usage:
//
//	png, err := sink.RenderPNG(img)
//	page, err := sink.PrintPage(png, sink.WithTitle("Print Photo"))
//	pdf, err := sink.RenderPDF(png, sink.WithPageSize(4, 6))
//
// [Render] dispatches on a [Format] name and is what the CLI and the HTTP
// server use.
package sink
