package compose

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/layout"
	"github.com/matzehuels/photobooth/pkg/observability"
)

// Collage colors.
var (
	Background      = color.RGBA{0xff, 0xff, 0xff, 0xff}
	PlaceholderFill = color.RGBA{0xf0, 0xf0, 0xf0, 0xff}
	PlaceholderMark = color.RGBA{0xaa, 0xaa, 0xaa, 0xff}
	DividerColor    = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

const (
	defaultMarkWidth = 3
	defaultDivWidth  = 2
)

// Option configures a Compositor.
type Option func(*Compositor)

// WithInterpolator sets the resampling kernel used to draw photos
// (default [xdraw.CatmullRom]). Interactive previews can use
// [xdraw.ApproxBiLinear].
func WithInterpolator(i xdraw.Interpolator) Option {
	return func(c *Compositor) { c.interp = i }
}

// WithDividerWidth sets the divider line thickness in pixels (default 2).
func WithDividerWidth(px int) Option {
	return func(c *Compositor) { c.dividerWidth = px }
}

// WithoutPlaceholders leaves empty slots blank instead of drawing the "+"
// marker.
func WithoutPlaceholders() Option {
	return func(c *Compositor) { c.placeholders = false }
}

// Compositor rasterizes plans. It holds no per-render state and is safe
// for concurrent use.
type Compositor struct {
	interp       xdraw.Interpolator
	dividerWidth int
	placeholders bool
}

// New returns a Compositor with the given options.
func New(opts ...Option) *Compositor {
	c := &Compositor{
		interp:       xdraw.CatmullRom,
		dividerWidth: defaultDivWidth,
		placeholders: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Render plans and rasterizes a collage in one call.
func (c *Compositor) Render(ctx context.Context, def frame.Definition, w, h int, slots []Slot) (*image.RGBA, error) {
	start := time.Now()
	observability.Pipeline().OnComposeStart(ctx, def.ID, len(slots))
	p, err := NewPlan(def, w, h, slots)
	if err != nil {
		observability.Pipeline().OnComposeComplete(ctx, def.ID, time.Since(start), err)
		return nil, err
	}
	img := c.Rasterize(p)
	observability.Pipeline().OnComposeComplete(ctx, def.ID, time.Since(start), nil)
	return img, nil
}

// Rasterize draws p onto a new white surface. It does not modify p or the
// photos it references.
func (c *Compositor) Rasterize(p Plan) *image.RGBA {
	dst := image.NewRGBA(p.Layout.Bounds())
	fill(dst, dst.Bounds(), Background)
	for _, op := range p.Ops {
		switch op.Kind {
		case OpPhoto:
			c.drawPhoto(dst, op)
		case OpPlaceholder:
			if c.placeholders {
				drawPlaceholder(dst, op.Rect)
			}
		case OpDivider:
			drawSegment(dst, op.Segment, c.dividerWidth, DividerColor)
		}
	}
	return dst
}

func (c *Compositor) drawPhoto(dst *image.RGBA, op Op) {
	src := op.Photo.Image
	sb := src.Bounds()
	if sb.Empty() || op.Draw.W <= 0 || op.Draw.H <= 0 {
		return
	}
	clip, ok := dst.SubImage(op.Rect).(*image.RGBA)
	if !ok || clip.Bounds().Empty() {
		return
	}
	sx := op.Draw.W / float64(sb.Dx())
	sy := op.Draw.H / float64(sb.Dy())
	m := f64.Aff3{
		sx, 0, op.Draw.X - sx*float64(sb.Min.X),
		0, sy, op.Draw.Y - sy*float64(sb.Min.Y),
	}
	c.interp.Transform(clip, m, src, sb, xdraw.Over, nil)
}

func drawPlaceholder(dst *image.RGBA, r image.Rectangle) {
	fill(dst, r, PlaceholderFill)
	w, h := r.Dx(), r.Dy()
	cx, cy := r.Min.X+w/2, r.Min.Y+h/2
	half := defaultMarkWidth / 2
	fill(dst, image.Rect(r.Min.X+w*3/10, cy-half, r.Min.X+w*7/10, cy-half+defaultMarkWidth), PlaceholderMark)
	fill(dst, image.Rect(cx-half, r.Min.Y+h*3/10, cx-half+defaultMarkWidth, r.Min.Y+h*7/10), PlaceholderMark)
}

// drawSegment draws s with the given thickness centered on the line.
func drawSegment(dst *image.RGBA, s layout.Segment, width int, c color.Color) {
	lo := width / 2
	hi := width - lo
	var r image.Rectangle
	if s.Vertical() {
		r = image.Rect(s.From.X-lo, s.From.Y, s.From.X+hi, s.To.Y)
	} else {
		r = image.Rect(s.From.X, s.From.Y-lo, s.To.X, s.From.Y+hi)
	}
	fill(dst, r, c)
}

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}
