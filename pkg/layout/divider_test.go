package layout

import (
	"image"
	"reflect"
	"testing"

	"github.com/matzehuels/photobooth/pkg/frame"
)

func seg(x0, y0, x1, y1 int) Segment {
	return Segment{image.Pt(x0, y0), image.Pt(x1, y1)}
}

func TestDividers(t *testing.T) {
	tests := []struct {
		name string
		id   int
		w, h int
		want []Segment
	}{
		{"single slot", 4, 600, 900, nil},
		{"three rows", 1, 600, 900, []Segment{seg(0, 300, 600, 300), seg(0, 600, 600, 600)}},
		{"triple cols", 6, 900, 600, []Segment{seg(300, 0, 300, 600), seg(600, 0, 600, 600)}},
		{"grid", 9, 600, 900, []Segment{seg(300, 0, 300, 900), seg(0, 450, 600, 450)}},
		{"split21", 7, 600, 900, []Segment{seg(300, 0, 300, 900), seg(0, 450, 300, 450)}},
		{"split12", 8, 600, 900, []Segment{seg(300, 0, 300, 900), seg(300, 450, 600, 450)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dividers(frame.MustGet(tt.id), tt.w, tt.h)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dividers(%d) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestSegment(t *testing.T) {
	v := seg(300, 0, 300, 900)
	if !v.Vertical() || v.Len() != 900 {
		t.Errorf("vertical segment: Vertical()=%v Len()=%d", v.Vertical(), v.Len())
	}
	h := seg(0, 450, 600, 450)
	if h.Vertical() || h.Len() != 600 {
		t.Errorf("horizontal segment: Vertical()=%v Len()=%d", h.Vertical(), h.Len())
	}
}
