package layout

import (
	"image"

	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/frame"
)

// Layout is the computed geometry of a frame on a concrete canvas.
type Layout struct {
	Frame    frame.Definition
	Width    int
	Height   int
	Slots    []image.Rectangle
	Dividers []Segment
}

// Build computes all slot rectangles and dividers of def on a w×h canvas.
func Build(def frame.Definition, w, h int) (Layout, error) {
	if err := checkCanvas(w, h); err != nil {
		return Layout{}, err
	}
	rects, err := Rects(def, w, h)
	if err != nil {
		return Layout{}, err
	}
	return Layout{
		Frame:    def,
		Width:    w,
		Height:   h,
		Slots:    rects,
		Dividers: Dividers(def, w, h),
	}, nil
}

// Bounds returns the canvas rectangle.
func (l Layout) Bounds() image.Rectangle { return image.Rect(0, 0, l.Width, l.Height) }

// HitTest returns the slot containing p. See [HitTest].
func (l Layout) HitTest(p image.Point) (int, error) {
	return HitTest(l.Frame, p, l.Width, l.Height)
}

// SlotRect returns the rectangle of slot i on a w×h canvas.
// It fails with INVALID_SLOT_INDEX when i is outside [0, def.Slots).
func SlotRect(def frame.Definition, i, w, h int) (image.Rectangle, error) {
	if err := checkCanvas(w, h); err != nil {
		return image.Rectangle{}, err
	}
	if i < 0 || i >= def.Slots {
		return image.Rectangle{}, errors.New(errors.ErrCodeInvalidSlotIndex,
			"slot %d out of range for frame %d with %d slots", i, def.ID, def.Slots)
	}
	g := gridOf(def)
	c := g.cells[i]
	x0, x1 := span(w, c.col, g.cols)
	y0, y1 := span(h, c.row, g.rowsIn[c.col])
	return image.Rect(x0, y0, x1, y1), nil
}

// Rects returns the rectangles of all slots in index order.
func Rects(def frame.Definition, w, h int) ([]image.Rectangle, error) {
	out := make([]image.Rectangle, def.Slots)
	for i := range out {
		r, err := SlotRect(def, i, w, h)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// HitTest returns the index of the slot whose rectangle contains p.
// Points outside the canvas return -1 and an OUT_OF_BOUNDS error.
func HitTest(def frame.Definition, p image.Point, w, h int) (int, error) {
	if err := checkCanvas(w, h); err != nil {
		return -1, err
	}
	if !p.In(image.Rect(0, 0, w, h)) {
		return -1, errors.New(errors.ErrCodeOutOfBounds, "point %v outside %dx%d canvas", p, w, h)
	}
	g := gridOf(def)
	col := index(p.X, w, g.cols)
	row := index(p.Y, h, g.rowsIn[col])
	for i, c := range g.cells {
		if c.col == col && c.row == row {
			return i, nil
		}
	}
	return -1, errors.New(errors.ErrCodeOutOfBounds, "point %v hits no slot of frame %d", p, def.ID)
}

// CanvasPoint converts a point in display space (for example a click on a
// scaled preview of size displayW×displayH) to canvas pixel coordinates.
func CanvasPoint(x, y, displayW, displayH float64, w, h int) image.Point {
	if displayW <= 0 || displayH <= 0 {
		return image.Pt(-1, -1)
	}
	return image.Pt(floor(x*float64(w)/displayW), floor(y*float64(h)/displayH))
}

func floor(v float64) int {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}

func checkCanvas(w, h int) error {
	if w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas must be positive, got %dx%d", w, h)
	}
	return nil
}
