package transform

import (
	"image"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestFit(t *testing.T) {
	tests := []struct {
		name       string
		imgW, imgH int
		rect       image.Rectangle
		want       DrawSpec
	}{
		{
			name: "wider image fills height",
			imgW: 400, imgH: 200,
			rect: image.Rect(0, 0, 300, 450),
			want: DrawSpec{X: -300, Y: 0, W: 900, H: 450},
		},
		{
			name: "taller image fills width",
			imgW: 100, imgH: 400,
			rect: image.Rect(300, 450, 600, 900),
			want: DrawSpec{X: 300, Y: 75, W: 300, H: 1200},
		},
		{
			name: "same aspect",
			imgW: 60, imgH: 90,
			rect: image.Rect(0, 0, 600, 900),
			want: DrawSpec{X: 0, Y: 0, W: 600, H: 900},
		},
		{
			name: "degenerate image",
			imgW: 0, imgH: 10,
			rect: image.Rect(10, 20, 30, 40),
			want: DrawSpec{X: 10, Y: 20, W: 20, H: 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.imgW, tt.imgH, tt.rect)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) || !near(got.W, tt.want.W) || !near(got.H, tt.want.H) {
				t.Errorf("Fit() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Fit always covers the rect with equality on at least one axis.
func TestFitCovers(t *testing.T) {
	rects := []image.Rectangle{
		image.Rect(0, 0, 300, 450),
		image.Rect(600, 0, 900, 600),
		image.Rect(0, 150, 600, 300),
		image.Rect(5, 5, 6, 1000),
	}
	sizes := [][2]int{{1, 1}, {4000, 3000}, {3000, 4000}, {1920, 1080}, {17, 1000}, {1000, 17}, {300, 450}}
	for _, r := range rects {
		for _, s := range sizes {
			d := Fit(s[0], s[1], r)
			rw, rh := float64(r.Dx()), float64(r.Dy())
			if d.W < rw-eps || d.H < rh-eps {
				t.Errorf("Fit(%v, %v) = %v does not cover", s, r, d)
			}
			if !near(d.W, rw) && !near(d.H, rh) {
				t.Errorf("Fit(%v, %v) = %v: no axis matches", s, r, d)
			}
			if d.X > float64(r.Min.X)+eps || d.Y > float64(r.Min.Y)+eps ||
				d.X+d.W < float64(r.Max.X)-eps || d.Y+d.H < float64(r.Max.Y)-eps {
				t.Errorf("Fit(%v, %v) = %v leaves part of the rect uncovered", s, r, d)
			}
			cx, cy := d.Center()
			if !near(cx, rw/2+float64(r.Min.X)) || !near(cy, rh/2+float64(r.Min.Y)) {
				t.Errorf("Fit(%v, %v) = %v is not centered", s, r, d)
			}
		}
	}
}

func TestApplyZoomAndPan(t *testing.T) {
	base := DrawSpec{X: -300, Y: 0, W: 900, H: 450}

	got := ApplyZoomAndPan(base, 1, Offset{})
	if got != base {
		t.Errorf("identity transform = %v, want %v", got, base)
	}

	got = ApplyZoomAndPan(base, 2, Offset{})
	want := DrawSpec{X: -750, Y: -225, W: 1800, H: 900}
	if got != want {
		t.Errorf("zoom 2 = %v, want %v", got, want)
	}
	if cx, cy := got.Center(); cx != 150 || cy != 225 {
		t.Errorf("zoom moved center to (%v, %v)", cx, cy)
	}

	got = ApplyZoomAndPan(base, 0.5, Offset{X: 10, Y: -20})
	want = DrawSpec{X: -75 + 10, Y: 112.5 - 20, W: 450, H: 225}
	if got != want {
		t.Errorf("zoom 0.5 with pan = %v, want %v", got, want)
	}
}

// The zoom anchor stays at the rect center regardless of the current pan.
func TestZoomAnchorIndependentOfPan(t *testing.T) {
	base := Fit(400, 300, image.Rect(0, 0, 300, 300))
	off := Offset{X: 40, Y: -15}
	for _, z := range []float64{0.5, 1, 1.7, 3} {
		d := ApplyZoomAndPan(base, z, off)
		cx, cy := d.Center()
		if !near(cx, 150+off.X) || !near(cy, 150+off.Y) {
			t.Errorf("zoom %v: center (%v, %v), want (%v, %v)", z, cx, cy, 150+off.X, 150+off.Y)
		}
	}
}

func TestClampZoom(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0.5}, {0.5, 0.5}, {1.25, 1.25}, {3, 3}, {10, 3}, {-4, 0.5},
	}
	for _, tt := range tests {
		if got := ClampZoom(tt.in); got != tt.want {
			t.Errorf("ClampZoom(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStateZoomConverges(t *testing.T) {
	s := Default()
	for range 50 {
		s = s.WithZoomDelta(0.7)
	}
	if s.Zoom != MaxZoom {
		t.Errorf("zoom after large positive deltas = %v, want %v", s.Zoom, MaxZoom)
	}
	for range 50 {
		s = s.WithZoomDelta(-0.3)
	}
	if s.Zoom != MinZoom {
		t.Errorf("zoom after large negative deltas = %v, want %v", s.Zoom, MinZoom)
	}
}

func TestStatePan(t *testing.T) {
	s := Default().WithPan(10, 5).WithPan(-3, 1e6)
	if s.Offset != (Offset{X: 7, Y: 1e6 + 5}) {
		t.Errorf("offset = %+v", s.Offset)
	}
	if s.IsDefault() {
		t.Error("panned state reported as default")
	}
	if !Default().IsDefault() {
		t.Error("Default().IsDefault() = false")
	}
}
