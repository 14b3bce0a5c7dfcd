package paint

import (
	"image"
	"math"

	"github.com/gogpu/gg"
)

// pickerTool copies the colour under the pointer into the tool options.
type pickerTool struct {
	opts Options
	area *Area
	flat *image.RGBA
}

func (t *pickerTool) Start(c *Canvas, s Sample) {
	t.area = c.area
	if t.area == nil {
		return
	}
	t.flat = t.area.Flatten()
	t.Move(c, s)
}

func (t *pickerTool) Move(_ *Canvas, s Sample) {
	if t.flat == nil {
		return
	}
	p := image.Pt(int(math.Floor(s.X)), int(math.Floor(s.Y)))
	if !p.In(t.flat.Rect) {
		return
	}
	i := t.flat.PixOffset(p.X, p.Y)
	px := t.flat.Pix[i : i+4 : i+4]
	if px[3] == 0 {
		return
	}
	a := float64(px[3])
	h, sat, l := rgbToHSL(float64(px[0])/a, float64(px[1])/a, float64(px[2])/a)
	// Only colour keys change, which is allowed mid-stroke.
	_ = t.area.SetToolOptions(WithHue(h), WithSaturation(sat), WithLightness(l))
}

func (t *pickerTool) Stop(*Canvas, Sample) { t.flat = nil }
func (t *pickerTool) Crosshair(*Canvas)    {}

// Symbol draws a dropper.
func (t *pickerTool) Symbol(c *Canvas, x, y float64) {
	k := t.opts.Size / 2
	pt := func(u, v float64) (float64, float64) { return x + u*k, y + v*k }
	arc := func(dc *gg.Context, u, v, r, a1, a2 float64) {
		cx, cy := pt(u, v)
		dc.LineTo(cx+r*k*math.Cos(a1), cy+r*k*math.Sin(a1))
		dc.DrawArc(cx, cy, r*k, a1, a2)
	}
	col := hslColor(t.opts.H, t.opts.S, t.opts.L)
	col.A = alphaByte(t.opts.Opacity)

	body := [][2]float64{{-0.9, 0.8}, {-0.8, 0.7}, {-0.8, 0.55}, {0.05, -0.35}}
	c.fillPath(col, func(dc *gg.Context) {
		dc.MoveTo(pt(-0.9, 0.9))
		for _, p := range body {
			dc.LineTo(pt(p[0], p[1]))
		}
		for i := len(body) - 1; i >= 0; i-- {
			dc.LineTo(pt(-body[i][1], -body[i][0]))
		}
		dc.ClosePath()

		dc.MoveTo(pt(0.3, -0.3))
		arc(dc, 0.15, -0.65, 0.1*math.Sqrt2, -math.Pi*5/4, -math.Pi/4)
		dc.LineTo(pt(0.35, -0.65))
		arc(dc, 0.7, -0.7, 0.15*math.Sqrt2, -math.Pi*3/4, math.Pi/4)
		dc.LineTo(pt(0.65, -0.35))
		arc(dc, 0.65, -0.15, 0.1*math.Sqrt2, -math.Pi/4, math.Pi*3/4)
		dc.ClosePath()
	})
}
