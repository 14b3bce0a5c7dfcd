// Package paint is the document core of a layered raster image editor.
//
// # Overview
//
// An [Area] owns an ordered stack of [Layer] values, the active layer, a
// [Selection] that clips painting, the tool configuration and a bounded
// undo/redo history. Pointer samples from any number of devices are turned
// into tool strokes; structural edits (add, delete, move and merge layers)
// go through the Area, which snapshots the affected state before mutating.
//
// # Quick Start
//
//	a := paint.NewArea(paint.WithDocumentSize(640, 480))
//	a.CreateLayer(0, nil)
//
//	a.SetToolOptions(paint.WithSize(8), paint.WithHue(210), paint.WithSaturation(80), paint.WithLightness(40))
//	a.PointerDown("pen", paint.Sample{X: 10, Y: 10, Pressure: 0.6, Pointer: paint.PointerPen})
//	a.PointerMove("pen", paint.Sample{X: 120, Y: 40, Pressure: 0.9, Pointer: paint.PointerPen})
//	a.PointerUp("pen", paint.Sample{X: 120, Y: 40, Pointer: paint.PointerPen})
//
//	a.Undo()
//	url, _ := a.Save(paint.FormatSVG)
//
// # Layer Order
//
// Index 0 is the topmost layer. Flatten and the exporters paint from the
// last index up to index 0, and the SVG container lists layers bottom
// first.
//
// # History
//
// Every mutation pushes one [Record]. A stroke is recorded once when the
// first device goes down, no matter how many devices join it. Undo performs
// the inverse operation with the same primitives that made the change and
// moves the record it produced onto the redo stack; any new edit clears the
// redo stack. Both stacks drop their oldest records beyond the history limit.
//
// # Events
//
// Handlers registered with On receive layer:add, layer:del, layer:set,
// layer:move, layer:redraw, layer:resize, layer:error, selection,
// area:resize, tool:<key> and tool:options notifications synchronously.
//
// # Concurrency
//
// An Area belongs to one goroutine. Images referenced by URL are decoded in
// the background; the results arrive on [Area.Pending] and take effect only
// when the owner applies them, or when it calls [Area.Sync].
//
// # Logging
//
// paint logs through [log/slog]. Nothing is logged until [SetLogger] is
// called.
package paint
