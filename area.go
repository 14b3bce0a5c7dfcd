package paint

import (
	"context"
	"net/http"
	"slices"
)

// Area is the document controller. It owns the layer stack, the active
// layer, the selection and the undo history, and routes pointer input from
// any number of devices into tool strokes.
//
// Layer index 0 is the topmost layer. Flattening paints from the last index
// up to index 0.
//
// An Area is not safe for concurrent use: all methods must be called from a
// single owner goroutine, which is also where completions from Pending are
// applied and where event handlers run.
type Area struct {
	emitter

	width, height int
	layers        []*Layer
	active        int
	selection     Selection

	undos, redos []Record
	limit        int
	pushes       int

	options  Options
	tool     Tool
	drawing  int
	sessions map[string]*session
	canvas   *Canvas
	jump     float64

	client   *http.Client
	pending  chan Completion
	inflight int
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewArea returns an empty document.
//
// Example:
//
//	a := paint.NewArea(paint.WithDocumentSize(640, 480))
//	a.CreateLayer(0, nil)
//	a.PointerDown("mouse", paint.Sample{X: 10, Y: 10, Pressure: 1})
//	a.PointerUp("mouse", paint.Sample{X: 10, Y: 10})
func NewArea(opts ...AreaOption) *Area {
	o := defaultAreaOptions()
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Area{
		width:    o.width,
		height:   o.height,
		active:   -1,
		limit:    o.historyLimit,
		options:  DefaultOptions(),
		sessions: make(map[string]*session),
		jump:     o.jumpThreshold,
		client:   o.client,
		pending:  make(chan Completion, 16),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, t := range o.tool {
		t.set(&a.options)
	}
	a.options.normalize()
	a.tool = newTool(a.options)
	return a
}

// Close abandons outstanding decodes. The Area must not be used afterwards.
func (a *Area) Close() {
	a.cancel()
}

// Size returns the document extent.
func (a *Area) Size() (w, h int) {
	return a.width, a.height
}

// SetSize changes the document extent. Layers keep their size and position;
// uncovered parts of the document are transparent and overflow is clipped
// on export.
func (a *Area) SetSize(w, h int) {
	a.width, a.height = max(w, 0), max(h, 0)
	a.emit(Event{Name: EventAreaResize, Index: -1})
}

// Len returns the number of layers.
func (a *Area) Len() int { return len(a.layers) }

// Layer returns the layer at index i, or nil if i is out of range.
func (a *Area) Layer(i int) *Layer {
	if i < 0 || i >= len(a.layers) {
		return nil
	}
	return a.layers[i]
}

// Layers returns the layer stack, topmost first.
func (a *Area) Layers() []*Layer {
	return slices.Clone(a.layers)
}

// Active returns the index of the layer strokes are drawn onto, or -1 when
// the document has no layers.
func (a *Area) Active() int { return a.active }

// Drawing returns the number of devices currently in a stroke.
func (a *Area) Drawing() int { return a.drawing }

func (a *Area) indexOf(l *Layer) int {
	return slices.Index(a.layers, l)
}

// Selection returns the current selection. An empty selection leaves the
// whole document paintable.
func (a *Area) Selection() Selection {
	return slices.Clone(a.selection)
}

// SetSelection replaces the selection and emits a selection event.
func (a *Area) SetSelection(s Selection) {
	a.selection = slices.Clone(s)
	a.emit(Event{Name: EventSelection, Index: -1})
}
