// Package layout maps frame definitions to pixel rectangles on a canvas.
//
// # Overview
//
// Every frame geometry is expressed as a set of columns, each divided into a
// number of equal rows. A slot is one (column, row) cell. Column and row
// boundaries are computed with integer division, so slot i of n along an
// axis of length total spans the half-open range
//
//	[total*i/n, total*(i+1)/n)
//
// The same formula is inverted by [HitTest], which makes the two exact
// inverses for every pixel of the canvas: the rectangles tile the canvas
// without gaps or overlaps, and a pixel on a boundary belongs to the slot
// that starts there.
//
// # Usage
//
//	l, err := layout.Build(def, 600, 900)
//	for i, r := range l.Slots {
//	    fmt.Println(i, r)
//	}
//	slot, err := l.HitTest(image.Pt(450, 100))
//
// [Dividers] returns the internal boundary segments to draw between slots;
// collinear touching segments are merged, so a 2x2 grid yields one full
// vertical and one full horizontal line.
package layout
