package paint

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/paint/internal/blend"
)

// Canvas is the drawing target handed to tools. It is either bound to a
// layer, in which case tool coordinates are document coordinates and paint
// is restricted by the selection clip, or it wraps an offscreen image used
// for previews and icons.
type Canvas struct {
	area  *Area
	layer *Layer
	img   *image.RGBA

	// tx, ty are added to tool coordinates after the layer offset.
	tx, ty float64

	// clip is a coverage mask in document space; nil paints everywhere.
	clip *image.Alpha
}

func (a *Area) layerCanvas(l *Layer, clip *image.Alpha) *Canvas {
	return &Canvas{area: a, layer: l, clip: clip}
}

func (a *Area) offscreen(w, h int, tx, ty float64) *Canvas {
	return &Canvas{area: a, img: image.NewRGBA(image.Rect(0, 0, w, h)), tx: tx, ty: ty}
}

// target returns the buffer being painted and the document position of its
// origin. The layer buffer is looked up on every call since tools such as
// Move may replace or reposition it mid-stroke.
func (c *Canvas) target() (*image.RGBA, image.Point) {
	if c.layer != nil {
		return c.layer.pix, image.Pt(c.layer.x, c.layer.y)
	}
	return c.img, image.Point{}
}

func (c *Canvas) point(x, y float64) (float64, float64) {
	_, o := c.target()
	return x - float64(o.X) + c.tx, y - float64(o.Y) + c.ty
}

// clipMask returns the selection clip in the target's coordinates.
func (c *Canvas) clipMask(o image.Point) *image.Alpha {
	if c.clip == nil {
		return nil
	}
	return &image.Alpha{Pix: c.clip.Pix, Stride: c.clip.Stride, Rect: c.clip.Rect.Sub(o)}
}

// coverage rasterizes the path built by fn inside r, in target coordinates.
// fn is responsible for filling or stroking.
func coverage(r image.Rectangle, fn func(dc *gg.Context) error) (*image.Alpha, error) {
	dc := gg.NewContext(r.Dx(), r.Dy())
	defer dc.Close()
	dc.Translate(float64(-r.Min.X), float64(-r.Min.Y))
	dc.SetRGBA(0, 0, 0, 1)
	if err := fn(dc); err != nil {
		return nil, err
	}
	m := image.NewAlpha(r)
	draw.Draw(m, r, dc.Image(), image.Point{}, draw.Src)
	return m, nil
}

// paintShape paints col through the coverage of fn inside r.
func (c *Canvas) paintShape(r image.Rectangle, col color.Color, m blend.Mode, fn func(dc *gg.Context) error) {
	dst, o := c.target()
	r = r.Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	cov, err := coverage(r, fn)
	if err != nil {
		Logger().Warn("paint: rasterize failed", "err", err)
		return
	}
	if clip := c.clipMask(o); clip != nil {
		blend.MulAlpha(cov, clip)
	}
	blend.Paint(dst, r, col, cov, r.Min, m)
}

func around(cx, cy, radius float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(cx-radius))-1, int(math.Floor(cy-radius))-1,
		int(math.Ceil(cx+radius))+1, int(math.Ceil(cy+radius))+1,
	)
}

// dab paints a filled circle of diameter d centred on (x, y).
func (c *Canvas) dab(x, y, d float64, col color.NRGBA, m blend.Mode) {
	if d <= 0 || col.A == 0 {
		return
	}
	cx, cy := c.point(x, y)
	c.paintShape(around(cx, cy, d/2), col, m, func(dc *gg.Context) error {
		dc.DrawCircle(cx, cy, d/2)
		return dc.Fill()
	})
}

// stamp paints pattern scaled to d x d, rotated by rotation around its
// centre, at (x, y) with the given alpha.
func (c *Canvas) stamp(pattern *image.RGBA, x, y, d, rotation, alpha float64, m blend.Mode) {
	size := pattern.Rect.Dx()
	if d <= 0 || alpha <= 0 || size == 0 || pattern.Rect.Dy() == 0 {
		return
	}
	dst, o := c.target()
	cx, cy := c.point(x, y)
	r := around(cx, cy, d*math.Sqrt2/2).Intersect(dst.Rect)
	if r.Empty() {
		return
	}

	k := d / float64(size)
	sin, cos := math.Sincos(rotation)
	h := d / 2
	aff := f64.Aff3{
		k * cos, -k * sin, cx - cos*h + sin*h,
		k * sin, k * cos, cy - sin*h - cos*h,
	}
	tmp := image.NewRGBA(r)
	xdraw.BiLinear.Transform(tmp, aff, pattern, pattern.Rect, xdraw.Over, nil)
	blend.Composite(dst, r, tmp, r.Min, c.clipMask(o), r.Min, alpha, m)
}

// fillPath fills the path built by fn over the whole target. fn works in
// tool coordinates.
func (c *Canvas) fillPath(col color.Color, fn func(dc *gg.Context)) {
	dst, _ := c.target()
	ox, oy := c.point(0, 0)
	c.paintShape(dst.Rect, col, blend.Normal, func(dc *gg.Context) error {
		dc.Translate(ox, oy)
		fn(dc)
		return dc.Fill()
	})
}

// strokePath strokes the path built by fn over the whole target, dashed
// when dashes are given.
func (c *Canvas) strokePath(col color.Color, width float64, dashes []float64, fn func(dc *gg.Context)) {
	dst, _ := c.target()
	ox, oy := c.point(0, 0)
	c.paintShape(dst.Rect, col, blend.Normal, func(dc *gg.Context) error {
		dc.Translate(ox, oy)
		dc.SetLineWidth(width)
		if len(dashes) > 0 {
			dc.SetDash(dashes...)
		}
		fn(dc)
		return dc.Stroke()
	})
}
