package sink

import (
	"image"
	"slices"
	"strings"

	"github.com/matzehuels/photobooth/pkg/errors"
)

// Format names an export format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// Formats lists every supported format.
var Formats = []Format{FormatPNG, FormatPDF, FormatHTML}

// ParseFormats parses a comma-separated list such as "png,pdf".
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if !slices.Contains(Formats, f) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want png, pdf or html)", f)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []Format{FormatPNG}, nil
	}
	return out, nil
}

// Ext returns the file extension of f including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "image/png"
}

// Render encodes img as f. The PDF and HTML formats embed the PNG
// encoding; pass it as png to avoid encoding twice, or nil.
func Render(img image.Image, png []byte, f Format) ([]byte, error) {
	var err error
	if png == nil {
		if png, err = RenderPNG(img); err != nil {
			return nil, err
		}
	}
	switch f {
	case FormatPNG:
		return png, nil
	case FormatPDF:
		return RenderPDF(png, WithPageFor(img.Bounds()))
	case FormatHTML:
		return PrintPage(png)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
}
