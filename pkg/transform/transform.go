// Package transform places a source photo inside a slot rectangle.
//
// [Fit] computes the "cover" placement: the image is scaled uniformly until
// it covers the whole slot, and the overflowing axis is centered. The slot is
// never letterboxed. [ApplyZoomAndPan] then scales that placement around
// the slot center and translates it by the pan offset.
//
// Drawing is clipped to the slot by the compositor, so any part of the
// placement outside the slot is simply not visible.
package transform

import (
	"fmt"
	"image"
)

// Zoom limits. Callers clamp with [ClampZoom] before storing a zoom.
const (
	MinZoom     = 0.5
	MaxZoom     = 3.0
	DefaultZoom = 1.0
)

// Offset is a pan offset in canvas pixels.
type Offset struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// State is the per-slot zoom and pan of a placed photo.
type State struct {
	Zoom   float64 `json:"zoom" yaml:"zoom" toml:"zoom"`
	Offset Offset  `json:"offset" yaml:"offset" toml:"offset"`
}

// Default returns the state of a freshly assigned slot.
func Default() State { return State{Zoom: DefaultZoom} }

// IsDefault reports whether s equals [Default].
func (s State) IsDefault() bool { return s == Default() }

// WithZoomDelta returns s with delta added to the zoom, clamped.
func (s State) WithZoomDelta(delta float64) State {
	s.Zoom = ClampZoom(s.Zoom + delta)
	return s
}

// WithPan returns s with (dx, dy) accumulated into the offset.
// The offset is not bounded.
func (s State) WithPan(dx, dy float64) State {
	s.Offset.X += dx
	s.Offset.Y += dy
	return s
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	switch {
	case z < MinZoom:
		return MinZoom
	case z > MaxZoom:
		return MaxZoom
	}
	return z
}

// DrawSpec is where the full source image is drawn on the canvas.
type DrawSpec struct {
	X, Y float64
	W, H float64
}

// Center returns the center point of the drawn image.
func (d DrawSpec) Center() (float64, float64) { return d.X + d.W/2, d.Y + d.H/2 }

func (d DrawSpec) String() string {
	return fmt.Sprintf("{x=%.2f y=%.2f w=%.2f h=%.2f}", d.X, d.Y, d.W, d.H)
}

// Fit returns the cover placement of an imgW×imgH image in rect.
// If the image is relatively wider than rect, the drawn height equals the
// rect height and the width overflows centered horizontally; otherwise the
// drawn width equals the rect width and the height overflows centered
// vertically. Degenerate image sizes yield a placement equal to rect.
func Fit(imgW, imgH int, rect image.Rectangle) DrawSpec {
	rx, ry := float64(rect.Min.X), float64(rect.Min.Y)
	rw, rh := float64(rect.Dx()), float64(rect.Dy())
	if imgW <= 0 || imgH <= 0 || rw <= 0 || rh <= 0 {
		return DrawSpec{X: rx, Y: ry, W: rw, H: rh}
	}
	// Compare aspects by cross-multiplication to keep exact equality.
	if imgW*rect.Dy() > imgH*rect.Dx() {
		w := rh * float64(imgW) / float64(imgH)
		return DrawSpec{X: rx + (rw-w)/2, Y: ry, W: w, H: rh}
	}
	h := rw * float64(imgH) / float64(imgW)
	return DrawSpec{X: rx, Y: ry + (rh-h)/2, W: rw, H: h}
}

// ApplyZoomAndPan scales base by zoom around its center, which for a
// placement from [Fit] is the rect center, then translates it by offset.
// zoom is not clamped here.
func ApplyZoomAndPan(base DrawSpec, zoom float64, offset Offset) DrawSpec {
	cx, cy := base.Center()
	w, h := base.W*zoom, base.H*zoom
	return DrawSpec{
		X: cx - w/2 + offset.X,
		Y: cy - h/2 + offset.Y,
		W: w,
		H: h,
	}
}

// Place combines Fit and ApplyZoomAndPan for a photo with state s.
func Place(imgW, imgH int, rect image.Rectangle, s State) DrawSpec {
	return ApplyZoomAndPan(Fit(imgW, imgH, rect), s.Zoom, s.Offset)
}
