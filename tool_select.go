package paint

import "math"

// selectTool drags out a rectangle or ellipse and combines it with the
// selection that existed when the stroke began:
//
//	no modifier  replace
//	Ctrl         union
//	Alt          subtract
//	Ctrl+Alt     xor
//
// Shift locks the aspect ratio to 1. A click that moves less than 5px with
// no modifier held clears the selection.
type selectTool struct {
	opts  Options
	shape Shape

	area           *Area
	old            Selection
	startX, startY float64
	dX, dY         float64
}

func (t *selectTool) Start(c *Canvas, s Sample) {
	t.area = c.area
	if t.area != nil {
		t.old = t.area.Selection()
	}
	t.startX, t.startY = s.X, s.Y
	t.dX, t.dY = 0, 0
}

func (t *selectTool) Move(_ *Canvas, s Sample) {
	if t.area == nil {
		return
	}
	dx, dy := s.X-t.startX, s.Y-t.startY
	if s.Mods.Has(ModShift) && dx != 0 && dy != 0 {
		m := min(math.Abs(dx), math.Abs(dy))
		dx = math.Copysign(m, dx)
		dy = math.Copysign(m, dy)
	}
	t.dX, t.dY = math.Abs(dx), math.Abs(dy)

	r := Region{
		Shape: t.shape,
		X:     t.startX + min(0, dx),
		Y:     t.startY + min(0, dy),
		W:     t.dX,
		H:     t.dY,
	}
	switch {
	case s.Mods.Has(ModCtrl | ModAlt):
		r.Combine = CombineXor
	case s.Mods.Has(ModCtrl):
		r.Combine = CombineUnion
	case s.Mods.Has(ModAlt):
		r.Combine = CombineSubtract
	}
	if r.Combine == CombineReplace || (r.Combine == CombineUnion && len(t.old) == 0) {
		r.Combine = CombineReplace
		t.area.SetSelection(Selection{r})
		return
	}
	t.area.SetSelection(append(t.old[:len(t.old):len(t.old)], r))
}

func (t *selectTool) Stop(_ *Canvas, s Sample) {
	if t.area != nil && t.dX+t.dY < 5 && s.Mods == 0 {
		t.area.SetSelection(nil)
	}
	t.area, t.old = nil, nil
}

func (t *selectTool) Crosshair(*Canvas) {}

// Symbol draws the shape as a dashed outline.
func (t *selectTool) Symbol(c *Canvas, x, y float64) {
	sz := t.opts.Size
	r := Region{Shape: t.shape, X: x - sz/2, Y: y - sz/2, W: sz, H: sz}
	col := hslColor(t.opts.H, t.opts.S, t.opts.L)
	col.A = alphaByte(t.opts.Opacity)
	c.strokePath(col, 1, []float64{5, 5}, r.path)
}
