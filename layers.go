package paint

import (
	"fmt"
	"image"
	"slices"

	"github.com/gogpu/paint/internal/blend"
)

// CreateLayer inserts a layer at index, clamped to [0, Len()], and makes it
// active. The layer is restored from s when s is non-nil; otherwise it is an
// empty, transparent layer covering the document. A snapshot that fails
// validation is rejected with ErrCorruptSnapshot before anything changes.
func (a *Area) CreateLayer(index int, s *Snapshot) (*Layer, error) {
	if s != nil {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	index = min(max(index, 0), len(a.layers))

	l := newLayer(a)
	a.layers = slices.Insert(a.layers, index, l)
	a.emit(Event{Name: EventLayerAdd, Layer: l, Index: index})

	if s != nil {
		l.restore(s)
	} else {
		l.Crop(0, 0, a.width, a.height)
	}
	a.SetLayer(index)
	a.snap(Record{Action: ActionAddLayer, Index: index}, false)
	return l, nil
}

// SetLayer makes layer i the target of subsequent strokes. Out of range
// indices are ignored.
func (a *Area) SetLayer(i int) {
	if i < 0 || i >= len(a.layers) {
		return
	}
	a.active = i
	a.emit(Event{Name: EventLayerSet, Layer: a.layers[i], Index: i})
}

// DeleteLayer removes layer i after recording it for undo. Out of range
// indices are ignored.
func (a *Area) DeleteLayer(i int) {
	if i < 0 || i >= len(a.layers) {
		return
	}
	a.snap(Record{Action: ActionDeleteLayer, Index: i}, true)
	a.removeLayer(i)
	a.clampActive()
}

func (a *Area) removeLayer(i int) {
	l := a.layers[i]
	a.layers = slices.Delete(a.layers, i, i+1)
	l.gen++
	l.area = nil
	a.emit(Event{Name: EventLayerDel, Layer: l, Index: i})
}

func (a *Area) clampActive() {
	if len(a.layers) == 0 {
		a.active = -1
		return
	}
	a.SetLayer(min(a.active, len(a.layers)-1))
}

// MoveLayer moves layer i by delta positions and makes it active. It is a
// no-op when delta is zero or the destination is out of range.
func (a *Area) MoveLayer(i, delta int) {
	dst := i + delta
	if delta == 0 || i < 0 || i >= len(a.layers) || dst < 0 || dst >= len(a.layers) {
		return
	}
	a.snap(Record{Action: ActionMoveLayer, Index: i, Delta: delta}, false)

	l := a.layers[i]
	a.layers = slices.Delete(a.layers, i, i+1)
	a.layers = slices.Insert(a.layers, dst, l)
	a.emit(Event{Name: EventLayerMove, Layer: l, Index: i, Delta: delta})
	a.SetLayer(dst)
}

// MergeDown composites layer i onto the layer below it and removes layer i.
// The lower layer grows to cover both extents; its pixels keep their
// document position. It is a no-op for the bottom layer or an out of range
// index.
func (a *Area) MergeDown(i int) {
	if i < 0 || i >= len(a.layers)-1 {
		return
	}
	upper, lower := a.layers[i], a.layers[i+1]
	a.snap(Record{
		Action: ActionMergeDown,
		Index:  i,
		State:  upper.Snapshot(),
		Below:  lower.Snapshot(),
	}, false)

	u := upper.Bounds().Union(lower.Bounds())
	lower.crop(u.Min.X, u.Min.Y, u.Dx(), u.Dy())
	upper.compositeAt(lower.pix, image.Pt(upper.x-lower.x, upper.y-lower.y))

	a.removeLayer(i)
	lower.emit(EventLayerRedraw)
	a.clampActive()
}

// SetLayerOpacity changes the opacity of layer i, clamped to [0, 1].
func (a *Area) SetLayerOpacity(i int, opacity float64) {
	l := a.Layer(i)
	if l == nil {
		return
	}
	a.snap(Record{Action: ActionDraw, Index: i}, true)
	l.opacity = min(max(opacity, 0), 1)
	l.emit(EventLayerRedraw)
}

// SetLayerVisible shows or hides layer i.
func (a *Area) SetLayerVisible(i int, visible bool) {
	l := a.Layer(i)
	if l == nil {
		return
	}
	a.snap(Record{Action: ActionDraw, Index: i}, true)
	l.visible = visible
	l.emit(EventLayerRedraw)
}

// SetLayerBlendMode sets the blend mode of layer i by its CSS
// mix-blend-mode name.
func (a *Area) SetLayerBlendMode(i int, name string) error {
	m, ok := blend.Parse(name)
	if !ok || !m.Layer() {
		return fmt.Errorf("%w: blend mode %q", ErrUnsupportedFormat, name)
	}
	l := a.Layer(i)
	if l == nil {
		return nil
	}
	a.snap(Record{Action: ActionDraw, Index: i}, true)
	l.mode = m
	l.emit(EventLayerRedraw)
	return nil
}
