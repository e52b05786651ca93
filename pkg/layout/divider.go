package layout

import (
	"image"
	"sort"

	"github.com/matzehuels/photobooth/pkg/frame"
)

// Segment is an axis-aligned boundary line from From to To on the canvas.
type Segment struct {
	From, To image.Point
}

// Vertical reports whether the segment runs along the y axis.
func (s Segment) Vertical() bool { return s.From.X == s.To.X }

// Len returns the length of the segment in pixels.
func (s Segment) Len() int {
	if s.Vertical() {
		return s.To.Y - s.From.Y
	}
	return s.To.X - s.From.X
}

// Dividers returns every internal slot boundary of def on a w×h canvas.
// Vertical column boundaries span the full height; row boundaries span
// their column. Collinear segments that touch are merged.
func Dividers(def frame.Definition, w, h int) []Segment {
	g := gridOf(def)
	var out []Segment
	for c := 1; c < g.cols; c++ {
		x, _ := span(w, c, g.cols)
		out = append(out, Segment{image.Pt(x, 0), image.Pt(x, h)})
	}
	var horiz []Segment
	for c := 0; c < g.cols; c++ {
		x0, x1 := span(w, c, g.cols)
		for r := 1; r < g.rowsIn[c]; r++ {
			y, _ := span(h, r, g.rowsIn[c])
			horiz = append(horiz, Segment{image.Pt(x0, y), image.Pt(x1, y)})
		}
	}
	return append(out, mergeHorizontal(horiz)...)
}

func mergeHorizontal(segs []Segment) []Segment {
	if len(segs) < 2 {
		return segs
	}
	sort.SliceStable(segs, func(i, j int) bool {
		if segs[i].From.Y != segs[j].From.Y {
			return segs[i].From.Y < segs[j].From.Y
		}
		return segs[i].From.X < segs[j].From.X
	})
	out := []Segment{segs[0]}
	for _, s := range segs[1:] {
		last := &out[len(out)-1]
		if s.From.Y == last.From.Y && s.From.X <= last.To.X {
			if s.To.X > last.To.X {
				last.To.X = s.To.X
			}
			continue
		}
		out = append(out, s)
	}
	return out
}
