package paint

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/paint/internal/blend"
)

// smoothWindow is the number of samples averaged into the pen position.
const smoothWindow = 3

// penTool paints round dabs, or brush pattern stamps when pattern is set,
// along the moving average of the pointer position. The eraser is a pen
// that removes paint.
type penTool struct {
	opts    Options
	erase   bool
	pattern bool

	st    brushState
	mods  []*modulator
	stamp *image.RGBA

	prevX, prevY float64
	winX, winY   [smoothWindow]float64
	count        int
}

func (p *penTool) mode() blend.Mode {
	if p.erase {
		return blend.DestinationOut
	}
	return blend.Normal
}

func (p *penTool) spacingAdjust() float64 {
	if p.pattern {
		return p.opts.Brush.spacingAdjust()
	}
	return defaultSpacingAdjust
}

func (p *penTool) Start(c *Canvas, s Sample) {
	o := &p.opts
	if p.pattern {
		p.stamp = brushPattern(o)
	}
	p.prevX, p.prevY = s.X, s.Y
	for i := range smoothWindow {
		p.winX[i], p.winY[i] = s.X, s.Y
	}
	p.count = 0

	p.st = brushState{size: o.Size, alpha: o.Opacity, rotation: o.Rotation}
	p.mods = newModulators(o.Dynamics)
	for _, m := range p.mods {
		m.reset(o, &p.st)
		m.start(&p.st, 0, 0, s)
		m.step(&p.st, 1)
	}
	p.paint(c, s.X, s.Y)
	for _, m := range p.mods {
		m.stop(&p.st)
	}
}

func (p *penTool) Move(c *Canvas, s Sample) {
	i := p.count % smoothWindow
	dx := (s.X - p.winX[i]) / smoothWindow
	dy := (s.Y - p.winY[i]) / smoothWindow
	sp := p.opts.Spacing + p.st.size*p.spacingAdjust()
	steps := int(math.Floor(math.Hypot(dx, dy) / sp))
	if steps <= 0 {
		return
	}
	p.count++
	p.winX[i], p.winY[i] = s.X, s.Y

	for _, m := range p.mods {
		m.start(&p.st, dx, dy, s)
	}
	x, y := p.prevX, p.prevY
	sx, sy := dx/float64(steps), dy/float64(steps)
	for range steps {
		for _, m := range p.mods {
			m.step(&p.st, steps)
		}
		x, y = x+sx, y+sy
		p.paint(c, x, y)
	}
	for _, m := range p.mods {
		m.stop(&p.st)
	}
	p.prevX, p.prevY = x, y
}

func (p *penTool) Stop(_ *Canvas, _ Sample) {
	for _, m := range p.mods {
		m.restore(&p.st)
	}
	p.stamp = nil
}

func (p *penTool) paint(c *Canvas, x, y float64) {
	if p.stamp != nil {
		c.stamp(p.stamp, x, y, p.st.size, p.st.rotation, p.st.alpha, p.mode())
		return
	}
	col := hslColor(p.opts.H, p.opts.S, p.opts.L)
	col.A = alphaByte(p.st.alpha)
	c.dab(x, y, p.st.size, col, p.mode())
}

// Crosshair paints a grey, half-transparent dab of the current size. The
// eraser adds a smaller, stronger dab that punches a hole into it, leaving
// a ring.
func (p *penTool) Crosshair(c *Canvas) {
	overlay := p.opts
	overlay.H, overlay.S, overlay.L = 0, 0, 50
	overlay.Opacity /= 2
	overlay.Dynamics = nil

	ghost := &penTool{opts: overlay, pattern: p.pattern}
	ghost.Start(c, Sample{Pressure: 1})
	ghost.Stop(c, Sample{Pressure: 1})
	if !p.erase {
		return
	}
	overlay.Size -= min(overlay.Size, 2)
	overlay.Opacity = min(overlay.Opacity*1.5, 1)
	hole := &penTool{opts: overlay, erase: true, pattern: p.pattern}
	hole.Start(c, Sample{Pressure: 1})
	hole.Stop(c, Sample{Pressure: 1})
}

// Symbol paints a single full-pressure dab. The eraser icon is drawn as a
// pen since erasing an empty canvas leaves nothing to see.
func (p *penTool) Symbol(c *Canvas, x, y float64) {
	t := &penTool{opts: p.opts, pattern: p.pattern}
	s := Sample{X: x, Y: y, Pressure: 1}
	t.Start(c, s)
	t.Stop(c, s)
}

// brushPattern tints the brush stencil with the tool colour at the nominal
// brush size. It returns nil when no brush is configured, in which case
// the pen falls back to round dabs.
func brushPattern(o *Options) *image.RGBA {
	if o.Brush == nil || o.Brush.Image == nil {
		return nil
	}
	n := max(int(math.Ceil(o.Size)), 1)
	r := image.Rect(0, 0, n, n)

	pat := image.NewRGBA(r)
	blend.Paint(pat, r, hslColor(o.H, o.S, o.L), nil, image.Point{}, blend.Copy)

	stencil := image.NewRGBA(r)
	xdraw.BiLinear.Scale(stencil, r, o.Brush.Image, o.Brush.Image.Bounds(), xdraw.Src, nil)
	blend.Composite(pat, r, stencil, image.Point{}, nil, image.Point{}, 1, blend.DestinationIn)
	return pat
}
