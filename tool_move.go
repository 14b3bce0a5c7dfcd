package paint

import (
	"math"

	"github.com/gogpu/gg"
)

// moveTool drags the layer the stroke started on.
type moveTool struct {
	opts Options

	layer        *Layer
	x, y         float64 // unrounded layer origin
	lastX, lastY float64
}

func (t *moveTool) Start(c *Canvas, s Sample) {
	t.layer = c.layer
	if t.layer != nil {
		t.x, t.y = float64(t.layer.x), float64(t.layer.y)
	}
	t.lastX, t.lastY = s.X, s.Y
}

func (t *moveTool) Move(_ *Canvas, s Sample) {
	if t.layer == nil {
		return
	}
	t.x += s.X - t.lastX
	t.y += s.Y - t.lastY
	t.lastX, t.lastY = s.X, s.Y
	t.layer.Move(int(math.Round(t.x)), int(math.Round(t.y)))
}

func (t *moveTool) Stop(*Canvas, Sample) { t.layer = nil }
func (t *moveTool) Crosshair(*Canvas)    {}

// Symbol draws four arrows pointing away from the centre.
func (t *moveTool) Symbol(c *Canvas, x, y float64) {
	k := t.opts.Size / 2
	pt := func(u, v float64) (float64, float64) { return x + u*k, y + v*k }
	col := hslColor(t.opts.H, t.opts.S, t.opts.L)
	col.A = alphaByte(t.opts.Opacity)

	// one arrow head and shaft, tip at (0, 1), mirrored below
	arrow := [][2]float64{{0.35, 0.65}, {0.1, 0.65}, {0.1, 0.2}}
	c.fillPath(col, func(dc *gg.Context) {
		for _, m := range []float64{1, -1} {
			dc.MoveTo(pt(0, m))
			for _, p := range arrow {
				dc.LineTo(pt(p[0], p[1]*m))
			}
			for i := len(arrow) - 1; i >= 0; i-- {
				dc.LineTo(pt(-arrow[i][0], arrow[i][1]*m))
			}
			dc.ClosePath()

			dc.MoveTo(pt(m, 0))
			for _, p := range arrow {
				dc.LineTo(pt(p[1]*m, p[0]))
			}
			for i := len(arrow) - 1; i >= 0; i-- {
				dc.LineTo(pt(arrow[i][1]*m, -arrow[i][0]))
			}
			dc.ClosePath()
		}
	})
}
