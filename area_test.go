package paint

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

// newTestArea returns a w x h document with n opaque white layers and an
// empty history.
func newTestArea(t *testing.T, w, h, n int) *Area {
	t.Helper()
	a := NewArea(WithDocumentSize(w, h))
	t.Cleanup(a.Close)
	for range n {
		l, err := a.CreateLayer(0, nil)
		if err != nil {
			t.Fatalf("CreateLayer: %v", err)
		}
		fill(l.pix, white)
	}
	a.ClearHistory()
	return a
}

func fill(img *image.RGBA, c color.Color) {
	draw.Draw(img, img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, c)
	return img
}

func solidSnapshot(x, y, w, h int, c color.Color) *Snapshot {
	return &Snapshot{X: x, Y: y, W: w, H: h, Pixels: solid(w, h, c), Opacity: 1, Visible: true, Mode: "normal"}
}

// layerState is the observable state of one layer.
type layerState struct {
	x, y, w, h int
	pix        []byte
	opacity    float64
	visible    bool
	mode       string
}

func stateOf(a *Area) []layerState {
	var s []layerState
	for _, l := range a.layers {
		size := l.pix.Rect.Size()
		s = append(s, layerState{
			x: l.x, y: l.y, w: size.X, h: size.Y,
			pix:     bytes.Clone(l.pix.Pix),
			opacity: l.opacity,
			visible: l.visible,
			mode:    l.mode.String(),
		})
	}
	return s
}

func checkState(t *testing.T, what string, got, want []layerState) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: %d layers, want %d", what, len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.x != w.x || g.y != w.y || g.w != w.w || g.h != w.h {
			t.Errorf("%s: layer %d geometry = (%d,%d %dx%d), want (%d,%d %dx%d)",
				what, i, g.x, g.y, g.w, g.h, w.x, w.y, w.w, w.h)
		}
		if !bytes.Equal(g.pix, w.pix) {
			t.Errorf("%s: layer %d pixels differ", what, i)
		}
		if g.opacity != w.opacity || g.visible != w.visible || g.mode != w.mode {
			t.Errorf("%s: layer %d appearance = (%v,%v,%s), want (%v,%v,%s)",
				what, i, g.opacity, g.visible, g.mode, w.opacity, w.visible, w.mode)
		}
	}
}

func rgbaAt(l *Layer, x, y int) color.RGBA {
	return l.pix.RGBAAt(x, y)
}

// stroke draws a single-sample mouse stroke at (x, y).
func stroke(a *Area, x, y float64) {
	a.PointerDown("mouse", Sample{X: x, Y: y})
	a.PointerUp("mouse", Sample{X: x, Y: y})
}

func TestNewAreaDefaults(t *testing.T) {
	a := NewArea()
	defer a.Close()
	if a.Len() != 0 || a.Active() != -1 {
		t.Errorf("empty area: Len() = %d, Active() = %d, want 0, -1", a.Len(), a.Active())
	}
	if w, h := a.Size(); w != 0 || h != 0 {
		t.Errorf("Size() = %dx%d, want 0x0", w, h)
	}
	if a.CanUndo() || a.CanRedo() {
		t.Error("fresh area has history")
	}
	if o := a.ToolOptions(); o.Kind != ToolPen || o.Size != 1 || o.Opacity != 1 {
		t.Errorf("ToolOptions() = %+v, want default pen", o)
	}
}

func TestScenarioAddLayerUndoRedo(t *testing.T) {
	a := newTestArea(t, 100, 100, 1)
	bottom := a.Layer(0)

	l, err := a.CreateLayer(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 2 || a.Active() != 0 || a.Layer(0) != l {
		t.Fatalf("after CreateLayer: Len() = %d, Active() = %d", a.Len(), a.Active())
	}
	undos, _ := a.History()
	if len(undos) != 1 || undos[0].Action != ActionAddLayer || undos[0].State != nil {
		t.Fatalf("undo stack = %+v, want one AddLayer record without state", undos)
	}

	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 1 || a.Layer(0) != bottom {
		t.Fatalf("after Undo: Len() = %d", a.Len())
	}
	undos, redos := a.History()
	if len(undos) != 0 || len(redos) != 1 {
		t.Fatalf("after Undo: %d undos, %d redos, want 0, 1", len(undos), len(redos))
	}

	if err := a.Redo(); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 2 || a.Active() != 0 {
		t.Fatalf("after Redo: Len() = %d, Active() = %d", a.Len(), a.Active())
	}
	top := a.Layer(0)
	if top.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Errorf("restored layer bounds = %v", top.Bounds())
	}
	if c := rgbaAt(top, 50, 50); c.A != 0 {
		t.Errorf("restored layer pixel = %v, want transparent", c)
	}
	if c := rgbaAt(a.Layer(1), 50, 50); c != white {
		t.Errorf("bottom layer pixel = %v, want white", c)
	}
}

func TestScenarioMergeDownRoundTrip(t *testing.T) {
	a := newTestArea(t, 100, 100, 1)
	if _, err := a.CreateLayer(0, solidSnapshot(0, 0, 50, 50, red)); err != nil {
		t.Fatal(err)
	}
	a.ClearHistory()
	before := stateOf(a)

	a.MergeDown(0)
	if a.Len() != 1 {
		t.Fatalf("after MergeDown: Len() = %d, want 1", a.Len())
	}
	merged := a.Layer(0)
	if merged.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Errorf("merged bounds = %v", merged.Bounds())
	}
	if c := rgbaAt(merged, 10, 10); c != red {
		t.Errorf("merged pixel in upper area = %v, want red", c)
	}
	if c := rgbaAt(merged, 70, 70); c != white {
		t.Errorf("merged pixel outside upper area = %v, want white", c)
	}
	after := stateOf(a)

	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	checkState(t, "undo merge", stateOf(a), before)

	if err := a.Redo(); err != nil {
		t.Fatal(err)
	}
	checkState(t, "redo merge", stateOf(a), after)

	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	checkState(t, "undo merge again", stateOf(a), before)
}

func TestMergeDownGrowsLowerLayer(t *testing.T) {
	a := newTestArea(t, 20, 20, 0)
	a.CreateLayer(0, solidSnapshot(0, 0, 10, 10, white))
	a.CreateLayer(0, solidSnapshot(15, -5, 10, 10, blue))

	a.MergeDown(0)
	l := a.Layer(0)
	if got, want := l.Bounds(), image.Rect(0, -5, 25, 10); got != want {
		t.Fatalf("merged bounds = %v, want %v", got, want)
	}
	// document (20, 0) lies in the upper layer only
	if c := rgbaAt(l, 20, 5); c != blue {
		t.Errorf("pixel from upper layer = %v, want blue", c)
	}
	// document (5, 5) lies in the lower layer only
	if c := rgbaAt(l, 5, 10); c != white {
		t.Errorf("pixel from lower layer = %v, want white", c)
	}
	// document (12, 2) is outside both
	if c := rgbaAt(l, 12, 2); c.A != 0 {
		t.Errorf("uncovered pixel = %v, want transparent", c)
	}
}

func TestScenarioMoveLayer(t *testing.T) {
	a := newTestArea(t, 10, 10, 3)
	x, y, z := a.Layer(0), a.Layer(1), a.Layer(2)
	a.SetLayer(0)

	a.MoveLayer(0, 1)
	if got := a.Layers(); got[0] != y || got[1] != x || got[2] != z {
		t.Fatal("MoveLayer(0, 1) did not produce [Y X Z]")
	}
	if a.Active() != 1 {
		t.Errorf("Active() = %d, want 1", a.Active())
	}

	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := a.Layers(); got[0] != x || got[1] != y || got[2] != z {
		t.Fatal("Undo did not restore [X Y Z]")
	}
	if a.Active() != 0 {
		t.Errorf("Active() after undo = %d, want 0", a.Active())
	}
}

func TestScenarioDrawUndoRedo(t *testing.T) {
	a := newTestArea(t, 20, 20, 1)
	a.SetToolOptions(WithSize(5))
	before := stateOf(a)

	stroke(a, 10, 10)
	if c := rgbaAt(a.Layer(0), 10, 10); c.R > 50 || c.A != 255 {
		t.Fatalf("stroke centre = %v, want black", c)
	}
	if c := rgbaAt(a.Layer(0), 1, 1); c != white {
		t.Errorf("pixel away from stroke = %v, want white", c)
	}
	after := stateOf(a)

	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	checkState(t, "undo stroke", stateOf(a), before)

	if err := a.Redo(); err != nil {
		t.Fatal(err)
	}
	checkState(t, "redo stroke", stateOf(a), after)
}

func TestScenarioToolSwapGuard(t *testing.T) {
	a := newTestArea(t, 20, 20, 1)
	if !a.PointerDown("touch1", Sample{X: 5, Y: 5, Pressure: 1, Pointer: PointerTouch}) {
		t.Fatal("PointerDown refused")
	}
	var events int
	a.On(EventToolOptions, func(Event) { events++ })

	err := a.SetToolOptions(WithKind(ToolEraser))
	if !errors.Is(err, ErrStrokeInProgress) {
		t.Fatalf("SetToolOptions(kind) = %v, want ErrStrokeInProgress", err)
	}
	if k := a.ToolOptions().Kind; k != ToolPen {
		t.Errorf("Kind = %v after rejected change, want pen", k)
	}
	if events != 0 {
		t.Errorf("rejected change emitted %d events", events)
	}

	// other options may still change mid-stroke
	if err := a.SetToolOptions(WithSize(3)); err != nil {
		t.Errorf("SetToolOptions(size) during stroke = %v", err)
	}
	a.PointerMove("touch1", Sample{X: 15, Y: 5, Pressure: 1, Pointer: PointerTouch})
	a.PointerUp("touch1", Sample{X: 15, Y: 5, Pointer: PointerTouch})

	if err := a.SetToolOptions(WithKind(ToolEraser)); err != nil {
		t.Fatalf("SetToolOptions(kind) after stroke = %v", err)
	}
	if k := a.ToolOptions().Kind; k != ToolEraser {
		t.Errorf("Kind = %v, want eraser", k)
	}
}

func TestConcurrentDevicesShareOneRecord(t *testing.T) {
	a := newTestArea(t, 30, 30, 1)
	var redraws int
	a.On(EventLayerRedraw, func(Event) { redraws++ })

	if !a.PointerDown("touch1", Sample{X: 5, Y: 5, Pressure: 1, Pointer: PointerTouch}) ||
		!a.PointerDown("touch2", Sample{X: 20, Y: 20, Pressure: 1, Pointer: PointerTouch}) {
		t.Fatal("PointerDown refused")
	}
	if a.Drawing() != 2 {
		t.Errorf("Drawing() = %d, want 2", a.Drawing())
	}
	if undos, _ := a.History(); len(undos) != 1 || undos[0].Action != ActionDraw {
		t.Fatalf("undo stack = %+v, want a single Draw record", undos)
	}

	a.PointerUp("touch1", Sample{X: 5, Y: 5, Pointer: PointerTouch})
	if a.canvas == nil {
		t.Error("canvas released while a device is still drawing")
	}
	if redraws != 0 {
		t.Errorf("redraw emitted before the last device lifted")
	}

	a.PointerUp("touch2", Sample{X: 20, Y: 20, Pointer: PointerTouch})
	if a.canvas != nil || a.Drawing() != 0 {
		t.Error("canvas kept after every device lifted")
	}
	if redraws != 1 {
		t.Errorf("redraws = %d, want 1", redraws)
	}
}

func TestPointerDownRefusals(t *testing.T) {
	a := newTestArea(t, 10, 10, 0)
	if a.PointerDown("mouse", Sample{}) {
		t.Error("PointerDown on an empty document succeeded")
	}
	if a.Drawing() != 0 || a.CanUndo() {
		t.Error("refused PointerDown changed state")
	}

	a.CreateLayer(0, nil)
	a.ClearHistory()
	if !a.PointerDown("mouse", Sample{}) {
		t.Fatal("PointerDown refused")
	}
	if a.PointerDown("mouse", Sample{}) {
		t.Error("second PointerDown for the same device succeeded")
	}
	if a.Drawing() != 1 {
		t.Errorf("Drawing() = %d, want 1", a.Drawing())
	}
	a.PointerUp("mouse", Sample{})
	a.PointerUp("mouse", Sample{})
	if a.Drawing() != 0 {
		t.Errorf("Drawing() = %d after release, want 0", a.Drawing())
	}
}

func TestEvents(t *testing.T) {
	a := newTestArea(t, 10, 10, 2)
	var got []Event
	a.On("layer:add layer:del layer:move layer:set", func(e Event) { got = append(got, e) })

	a.CreateLayer(5, nil)
	a.MoveLayer(2, -2)
	a.DeleteLayer(0)

	want := []struct {
		name         string
		index, delta int
	}{
		{EventLayerAdd, 2, 0},
		{EventLayerSet, 2, 0},
		{EventLayerMove, 2, -2},
		{EventLayerSet, 0, 0},
		{EventLayerDel, 0, 0},
		{EventLayerSet, 0, 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Name != w.name || got[i].Index != w.index || got[i].Delta != w.delta {
			t.Errorf("event %d = {%s %d %d}, want {%s %d %d}",
				i, got[i].Name, got[i].Index, got[i].Delta, w.name, w.index, w.delta)
		}
	}
}

func TestMergeDownEvents(t *testing.T) {
	a := newTestArea(t, 10, 10, 0)
	a.CreateLayer(0, solidSnapshot(0, 0, 10, 10, white))
	a.CreateLayer(0, solidSnapshot(5, 5, 10, 10, blue))
	lower := a.Layer(1)

	var got []Event
	a.On("layer:add layer:del layer:set layer:redraw layer:resize", func(e Event) { got = append(got, e) })
	a.MergeDown(0)

	want := []struct {
		name  string
		index int
	}{
		{EventLayerDel, 0},
		{EventLayerRedraw, 0},
		{EventLayerSet, 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Name != w.name || got[i].Index != w.index {
			t.Errorf("event %d = {%s %d}, want {%s %d}", i, got[i].Name, got[i].Index, w.name, w.index)
		}
	}
	if got[1].Layer != lower {
		t.Error("redraw is not for the surviving layer")
	}
	if got := got[1].Layer.Bounds(); got != image.Rect(0, 0, 15, 15) {
		t.Errorf("redrawn bounds = %v, want the merged extent", got)
	}
}

func TestOutOfRangeOperationsAreNoOps(t *testing.T) {
	a := newTestArea(t, 10, 10, 2)
	var events int
	a.On("layer:add layer:del layer:move layer:set layer:redraw", func(Event) { events++ })
	before := stateOf(a)

	a.SetLayer(2)
	a.SetLayer(-1)
	a.DeleteLayer(2)
	a.DeleteLayer(-1)
	a.MoveLayer(0, -1)
	a.MoveLayer(1, 1)
	a.MoveLayer(0, 0)
	a.MergeDown(1)
	a.MergeDown(-1)
	a.SetLayerOpacity(7, 0.5)
	a.SetLayerVisible(-3, false)

	if events != 0 {
		t.Errorf("no-op operations emitted %d events", events)
	}
	if a.CanUndo() {
		t.Error("no-op operations pushed history")
	}
	checkState(t, "no-ops", stateOf(a), before)
}

func TestDeleteLastLayer(t *testing.T) {
	a := newTestArea(t, 10, 10, 1)
	a.DeleteLayer(0)
	if a.Len() != 0 || a.Active() != -1 {
		t.Fatalf("Len() = %d, Active() = %d, want 0, -1", a.Len(), a.Active())
	}
	if err := a.Undo(); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 1 || a.Active() != 0 {
		t.Fatalf("after undo Len() = %d, Active() = %d, want 1, 0", a.Len(), a.Active())
	}
	if c := rgbaAt(a.Layer(0), 3, 3); c != white {
		t.Errorf("restored pixel = %v, want white", c)
	}
}

func TestLayerPropertySetters(t *testing.T) {
	a := newTestArea(t, 10, 10, 1)
	a.SetLayerOpacity(0, 2)
	a.SetLayerVisible(0, false)
	if err := a.SetLayerBlendMode(0, "multiply"); err != nil {
		t.Fatal(err)
	}
	if err := a.SetLayerBlendMode(0, "destination-out"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("SetLayerBlendMode(destination-out) = %v, want ErrUnsupportedFormat", err)
	}

	l := a.Layer(0)
	if l.Opacity() != 1 || l.Visible() || l.BlendMode() != "multiply" {
		t.Errorf("layer = (%v, %v, %s), want (1, false, multiply)", l.Opacity(), l.Visible(), l.BlendMode())
	}
	if undos, _ := a.History(); len(undos) != 3 {
		t.Fatalf("%d undo records, want 3", len(undos))
	}
	for range 3 {
		a.Undo()
	}
	if l.Opacity() != 1 || !l.Visible() || l.BlendMode() != "normal" {
		t.Errorf("after undo layer = (%v, %v, %s), want (1, true, normal)", l.Opacity(), l.Visible(), l.BlendMode())
	}
}

func TestCreateLayerCorruptSnapshot(t *testing.T) {
	a := newTestArea(t, 10, 10, 1)
	var events int
	a.On("layer:add layer:set", func(Event) { events++ })

	bad := []*Snapshot{
		{W: 2, H: 2, Pixels: image.NewRGBA(image.Rect(0, 0, 1, 1)), Opacity: 1},
		{W: -1, H: 2, URL: "data:image/png;base64,", Opacity: 1},
		{W: 1, H: 1, Pixels: image.NewRGBA(image.Rect(0, 0, 1, 1)), Opacity: 1.5},
		{W: 1, H: 1, Pixels: image.NewRGBA(image.Rect(0, 0, 1, 1)), Opacity: 1, Mode: "copy"},
		{W: 1, H: 1, Opacity: 1},
	}
	for i, s := range bad {
		if _, err := a.CreateLayer(0, s); !errors.Is(err, ErrCorruptSnapshot) {
			t.Errorf("CreateLayer(bad[%d]) = %v, want ErrCorruptSnapshot", i, err)
		}
	}
	if a.Len() != 1 || events != 0 || a.CanUndo() {
		t.Error("rejected snapshot changed the document")
	}
}

func TestSetSize(t *testing.T) {
	a := newTestArea(t, 10, 10, 1)
	var resized bool
	a.On(EventAreaResize, func(Event) { resized = true })
	a.SetSize(30, 20)
	if w, h := a.Size(); w != 30 || h != 20 || !resized {
		t.Errorf("Size() = %dx%d, resized = %v", w, h, resized)
	}
	if a.Layer(0).Bounds() != image.Rect(0, 0, 10, 10) {
		t.Error("SetSize changed a layer")
	}
}
