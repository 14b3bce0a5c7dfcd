package paint

import "strings"

// Event names emitted by an Area.
const (
	EventLayerAdd    = "layer:add"    // Layer, Index
	EventLayerDel    = "layer:del"    // Index
	EventLayerSet    = "layer:set"    // Index
	EventLayerMove   = "layer:move"   // Layer, Index, Delta
	EventLayerRedraw = "layer:redraw" // Layer, Index
	EventLayerResize = "layer:resize" // Layer, Index
	EventLayerError  = "layer:error"  // Layer (nil for imports), Index, Err
	EventSelection   = "selection"
	EventAreaResize  = "area:resize"
	EventToolOptions = "tool:options" // Options
)

// ToolEvent returns the name of the event emitted when the tool option key
// changes, e.g. "tool:size".
func ToolEvent(key string) string {
	return "tool:" + key
}

// Event is a notification delivered to handlers registered with Area.On.
// Only the fields relevant to Name are set. Index is -1 when a layer is no
// longer part of the stack.
type Event struct {
	Name    string
	Layer   *Layer
	Index   int
	Delta   int
	Key     string
	Value   any
	Options Options
	Err     error
}

// Handler receives events. Handlers run synchronously on the goroutine that
// owns the Area and must not retain Event.Layer pixel buffers.
type Handler func(Event)

type emitter struct {
	handlers map[string][]Handler
}

// On registers h for every space-separated event name in names.
func (e *emitter) On(names string, h Handler) {
	if e.handlers == nil {
		e.handlers = make(map[string][]Handler)
	}
	for _, n := range strings.Fields(names) {
		e.handlers[n] = append(e.handlers[n], h)
	}
}

func (e *emitter) emit(ev Event) {
	for _, h := range e.handlers[ev.Name] {
		h(ev)
	}
}
