package compose

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/photobooth/pkg/errors"
	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/photo"
	"github.com/matzehuels/photobooth/pkg/transform"
)

var (
	red  = color.RGBA{0xff, 0, 0, 0xff}
	blue = color.RGBA{0, 0, 0xff, 0xff}
)

func solid(name string, w, h int, c color.Color) *photo.Photo {
	return photo.New(name, imaging.New(w, h, c))
}

func TestNewPlanGrid(t *testing.T) {
	a := solid("a", 400, 600, red)
	b := solid("b", 400, 600, blue)
	slots := []Slot{
		{Photo: a, Transform: transform.Default()},
		{},
		{Photo: b, Transform: transform.Default()},
	}
	p, err := NewPlan(frame.MustGet(9), 600, 900, slots)
	if err != nil {
		t.Fatalf("NewPlan() error: %v", err)
	}

	want := []struct {
		kind OpKind
		rect image.Rectangle
	}{
		{OpPhoto, image.Rect(0, 0, 300, 450)},
		{OpPlaceholder, image.Rect(300, 0, 600, 450)},
		{OpPhoto, image.Rect(0, 450, 300, 900)},
		{OpPlaceholder, image.Rect(300, 450, 600, 900)},
	}
	for i, w := range want {
		op := p.Ops[i]
		if op.Kind != w.kind || op.Rect != w.rect || op.Slot != i {
			t.Errorf("Ops[%d] = %v, want %v at %v", i, op, w.kind, w.rect)
		}
	}
	if op := p.Ops[0]; op.Photo != a {
		t.Errorf("Ops[0].Photo = %v, want a", op.Photo)
	}
	if n := p.Count(OpDivider); n != 2 {
		t.Fatalf("Count(OpDivider) = %d, want 2", n)
	}
	v, h := p.Ops[4].Segment, p.Ops[5].Segment
	if !v.Vertical() || v.From.X != 300 || v.Len() != 900 {
		t.Errorf("vertical divider = %v", v)
	}
	if h.Vertical() || h.From.Y != 450 || h.Len() != 600 {
		t.Errorf("horizontal divider = %v", h)
	}
}

func TestNewPlanTooManySlots(t *testing.T) {
	slots := make([]Slot, 5)
	if _, err := NewPlan(frame.MustGet(9), 600, 900, slots); !errors.Is(err, errors.ErrCodeInvalidSlotIndex) {
		t.Errorf("NewPlan() error = %v, want INVALID_SLOT_INDEX", err)
	}
}

func TestRenderGridScenario(t *testing.T) {
	slots := []Slot{
		{Photo: solid("a", 400, 600, red), Transform: transform.Default()},
		{},
		{Photo: solid("b", 200, 200, blue), Transform: transform.Default()},
	}
	img, err := New().Render(context.Background(), frame.MustGet(9), 600, 900, slots)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 600, 900) {
		t.Fatalf("bounds = %v", img.Bounds())
	}

	checks := []struct {
		name string
		p    image.Point
		want color.RGBA
	}{
		{"photo a", image.Pt(150, 225), red},
		{"photo a corner", image.Pt(1, 1), red},
		{"photo b", image.Pt(150, 700), blue},
		{"placeholder fill", image.Pt(310, 10), PlaceholderFill},
		{"placeholder plus center", image.Pt(450, 225), PlaceholderMark},
		{"placeholder plus arm", image.Pt(400, 225), PlaceholderMark},
		{"second placeholder plus", image.Pt(450, 675), PlaceholderMark},
		{"vertical divider", image.Pt(300, 100), DividerColor},
		{"vertical divider left half", image.Pt(299, 600), DividerColor},
		{"horizontal divider", image.Pt(100, 450), DividerColor},
		{"horizontal divider right", image.Pt(500, 449), DividerColor},
	}
	for _, c := range checks {
		if got := img.RGBAAt(c.p.X, c.p.Y); got != c.want {
			t.Errorf("%s: pixel %v = %v, want %v", c.name, c.p, got, c.want)
		}
	}
}

// A zoomed and panned photo stays inside its slot.
func TestRenderClipsToSlot(t *testing.T) {
	st := transform.Default().WithZoomDelta(2).WithPan(200, 300)
	slots := []Slot{{Photo: solid("a", 100, 100, red), Transform: st}}
	img, err := New().Render(context.Background(), frame.MustGet(9), 600, 900, slots)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := img.RGBAAt(250, 400); got != red {
		t.Errorf("inside slot pixel = %v, want red", got)
	}
	for _, p := range []image.Point{{310, 10}, {310, 440}, {10, 460}, {400, 600}} {
		if got := img.RGBAAt(p.X, p.Y); got == red {
			t.Errorf("pixel %v bled outside slot 0", p)
		}
	}
}

// A photo panned entirely out of its slot leaves the background visible.
func TestRenderPannedAway(t *testing.T) {
	st := transform.Default().WithPan(5000, 0)
	slots := []Slot{{Photo: solid("a", 100, 100, red), Transform: st}}
	img, err := New().Render(context.Background(), frame.MustGet(4), 600, 900, slots)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := img.RGBAAt(300, 450); got != Background {
		t.Errorf("pixel = %v, want background", got)
	}
}

func TestRenderWithoutPlaceholders(t *testing.T) {
	img, err := New(WithoutPlaceholders(), WithDividerWidth(4)).Render(context.Background(), frame.MustGet(11), 600, 900, nil)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := img.RGBAAt(300, 225); got != Background {
		t.Errorf("empty slot = %v, want background", got)
	}
	for _, y := range []int{448, 451} {
		if got := img.RGBAAt(10, y); got != DividerColor {
			t.Errorf("divider at y=%d = %v", y, got)
		}
	}
}

func TestRenderDoesNotMutatePhoto(t *testing.T) {
	a := solid("a", 10, 10, red)
	before := a.Image.(*image.NRGBA).Pix[0]
	_, _ = New().Render(context.Background(), frame.MustGet(4), 60, 90, []Slot{{Photo: a, Transform: transform.Default()}})
	if a.Image.(*image.NRGBA).Pix[0] != before {
		t.Error("Render() modified the source photo")
	}
}

func TestPreview(t *testing.T) {
	for _, def := range frame.List() {
		img, err := Preview(def, 0, 0)
		if err != nil {
			t.Fatalf("Preview(%v) error: %v", def, err)
		}
		w, h := def.Canvas(PreviewWidth, PreviewHeight)
		if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
			t.Errorf("Preview(%v) bounds = %v, want %dx%d", def, img.Bounds(), w, h)
		}
	}

	img, _ := Preview(frame.MustGet(4), 100, 150)
	if got := img.RGBAAt(0, 75); got != DividerColor {
		t.Errorf("single-slot preview border = %v, want black", got)
	}
	img, _ = Preview(frame.MustGet(10), 100, 150)
	if got := img.RGBAAt(50, 75); got != DividerColor {
		t.Errorf("two-column preview divider = %v, want black", got)
	}
}
