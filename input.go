package paint

import "math"

// PointerType identifies the kind of device that produced a sample.
type PointerType uint8

const (
	PointerMouse PointerType = iota
	PointerTouch
	PointerPen
)

// Modifiers is a set of keyboard modifier flags held during a sample.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether every flag in m2 is set in m.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// Sample is one pointer event in document coordinates.
type Sample struct {
	X, Y     float64
	Pressure float64 // [0, 1]
	Rotation float64 // stylus twist, 1 is a full turn
	Pointer  PointerType
	Mods     Modifiers
}

type session struct {
	tool Tool
	last Sample
}

// PointerDown starts a stroke for device. The first device to go down
// binds the drawing canvas to the active layer, clipped to the selection,
// and records one undo step for the whole multi-device stroke. It returns
// false if the document has no layers or device is already drawing.
func (a *Area) PointerDown(device string, s Sample) bool {
	if _, ok := a.sessions[device]; ok || len(a.layers) == 0 {
		return false
	}
	s = normalizeSample(s)
	if a.drawing == 0 {
		l := a.layers[a.active]
		a.canvas = a.layerCanvas(l, a.selection.Mask(l.Bounds()))
		a.snap(Record{Action: ActionDraw, Index: a.active}, true)
	}
	a.drawing++

	sess := &session{tool: newTool(a.options.clone()), last: s}
	a.sessions[device] = sess
	Logger().Debug("paint: stroke start", "device", device, "tool", a.options.Kind, "drawing", a.drawing)
	sess.tool.Start(a.canvas, s)
	return true
}

// PointerMove forwards a sample to the stroke of device. Mouse samples that
// jump further than the configured threshold since the previous sample are
// dropped.
func (a *Area) PointerMove(device string, s Sample) {
	sess := a.sessions[device]
	if sess == nil {
		return
	}
	s = normalizeSample(s)
	if s.Pointer == PointerMouse && a.jump > 0 &&
		math.Abs(s.X-sess.last.X)+math.Abs(s.Y-sess.last.Y) >= a.jump {
		return
	}
	sess.last = s
	sess.tool.Move(a.canvas, s)
}

// PointerUp ends the stroke of device. When the last device lifts, the
// canvas is released and the layer is redrawn.
func (a *Area) PointerUp(device string, s Sample) {
	sess := a.sessions[device]
	if sess == nil {
		return
	}
	sess.tool.Stop(a.canvas, normalizeSample(s))
	delete(a.sessions, device)
	a.drawing--
	Logger().Debug("paint: stroke end", "device", device, "drawing", a.drawing)
	if a.drawing > 0 {
		return
	}
	l := a.canvas.layer
	a.canvas = nil
	if l != nil && a.indexOf(l) >= 0 {
		l.emit(EventLayerRedraw)
	}
}

// normalizeSample maps a mouse button press without pressure data to full
// pressure.
func normalizeSample(s Sample) Sample {
	if s.Pointer == PointerMouse && s.Pressure == 0 {
		s.Pressure = 1
	}
	return s
}
