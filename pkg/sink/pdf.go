package sink

import (
	"bytes"
	"image"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

const pointsPerInch = 72

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	widthIn, heightIn float64
}

// WithPageSize sets the page size in inches (default 4×6).
func WithPageSize(widthIn, heightIn float64) PDFOption {
	return func(r *pdfRenderer) { r.widthIn, r.heightIn = widthIn, heightIn }
}

// WithPageFor picks a 4×6" page in the orientation of bounds.
func WithPageFor(bounds image.Rectangle) PDFOption {
	return func(r *pdfRenderer) {
		if bounds.Dx() > bounds.Dy() {
			r.widthIn, r.heightIn = 6, 4
		} else {
			r.widthIn, r.heightIn = 4, 6
		}
	}
}

// RenderPDF wraps an encoded PNG into a single-page PDF with the image
// scaled to fill the page.
func RenderPDF(png []byte, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{widthIn: 4, heightIn: 6}
	for _, opt := range opts {
		opt(&r)
	}
	imp := pdfcpu.DefaultImportConfig()
	imp.PageDim = &types.Dim{Width: r.widthIn * pointsPerInch, Height: r.heightIn * pointsPerInch}
	imp.UserDim = true

	var buf bytes.Buffer
	conf := model.NewDefaultConfiguration()
	if err := api.ImportImages(nil, &buf, []io.Reader{bytes.NewReader(png)}, imp, conf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
