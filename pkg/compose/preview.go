package compose

import (
	"image"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/layout"
)

// Default preview thumbnail size for a portrait frame.
const (
	PreviewWidth  = 100
	PreviewHeight = 150
)

// Preview draws a frame-picker thumbnail: a white card with the frame's
// dividers, the frame id at the top and the photo count at the bottom.
// w×h is the portrait size; landscape frames use the transpose. Single-slot
// frames get a border so the card is not blank.
func Preview(def frame.Definition, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		w, h = PreviewWidth, PreviewHeight
	}
	w, h = def.Canvas(w, h)
	l, err := layout.Build(def, w, h)
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(l.Bounds())
	fill(dst, dst.Bounds(), Background)
	for _, seg := range l.Dividers {
		drawSegment(dst, seg, defaultDivWidth, DividerColor)
	}
	if def.Slots == 1 {
		drawBorder(dst, dst.Bounds(), 2)
	}

	face := basicfont.Face7x13
	m := face.Metrics()
	drawCentered(dst, face, strconv.Itoa(def.ID), m.Ascent.Ceil()+2)
	drawCentered(dst, face, strconv.Itoa(def.Slots)+" photos", h-m.Descent.Ceil()-2)
	return dst, nil
}

func drawBorder(dst *image.RGBA, r image.Rectangle, width int) {
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), DividerColor)
	fill(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), DividerColor)
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), DividerColor)
	fill(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), DividerColor)
}

// drawCentered draws text horizontally centered with its baseline at y.
func drawCentered(dst *image.RGBA, face font.Face, text string, y int) {
	width := font.MeasureString(face, text).Ceil()
	x := (dst.Bounds().Dx() - width) / 2
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(DividerColor),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
