package paint

import (
	"image"
	"math"
	"slices"

	"github.com/jinzhu/copier"
)

// ToolKind selects one of the built-in tools.
type ToolKind uint8

const (
	ToolPen ToolKind = iota
	ToolEraser
	ToolImagePen
	ToolMove
	ToolRectSelect
	ToolEllipseSelect
	ToolColorpicker

	numTools
)

var toolNames = [numTools]string{
	ToolPen:           "pen",
	ToolEraser:        "eraser",
	ToolImagePen:      "image-pen",
	ToolMove:          "move",
	ToolRectSelect:    "rect-select",
	ToolEllipseSelect: "ellipse-select",
	ToolColorpicker:   "colorpicker",
}

// String returns the name used by ParseToolKind.
func (k ToolKind) String() string {
	if k >= numTools {
		return "unknown"
	}
	return toolNames[k]
}

// ParseToolKind returns the kind named s.
func ParseToolKind(s string) (ToolKind, bool) {
	i := slices.Index(toolNames[:], s)
	if i < 0 {
		return 0, false
	}
	return ToolKind(i), true
}

// Tool handles the strokes of one device. Positions are absolute tool
// coordinates; for layer canvases those are document coordinates.
//
// Start is called on pointer down, Move for each sample while the pointer
// is down and Stop on release. Crosshair draws the outline of what the tool
// paints onto a canvas centred on the origin; Symbol draws an icon centred
// on (x, y).
type Tool interface {
	Start(c *Canvas, s Sample)
	Move(c *Canvas, s Sample)
	Stop(c *Canvas, s Sample)
	Crosshair(c *Canvas)
	Symbol(c *Canvas, x, y float64)
}

// Brush is the pattern stamped by ToolImagePen. The image's alpha channel
// is used as a stencil for the tool colour.
type Brush struct {
	Name  string
	Image image.Image

	// SpacingAdjust multiplies the brush size to get the extra distance
	// between stamps. Zero means 0.1.
	SpacingAdjust float64
}

func (b *Brush) spacingAdjust() float64 {
	if b == nil || b.SpacingAdjust == 0 {
		return defaultSpacingAdjust
	}
	return b.SpacingAdjust
}

// defaultSpacingAdjust keeps semi-transparent dab edges from turning opaque
// where consecutive dabs overlap.
const defaultSpacingAdjust = 0.1

// Options is the tool configuration shared by the UI and new strokes.
// H is in [0, 360), S and L in [0, 100], Opacity in [0, 1] and Rotation in
// [0, 2π).
type Options struct {
	Kind     ToolKind
	Last     ToolKind // last painting tool, for switching back from utilities
	Size     float64
	H, S, L  float64
	Opacity  float64
	Rotation float64
	Spacing  float64
	Dynamics []Dynamic
	Brush    *Brush `copier:"-"`
}

// DefaultOptions returns a 1px black pen with pressure dynamics.
func DefaultOptions() Options {
	return Options{
		Kind:     ToolPen,
		Last:     ToolPen,
		Size:     1,
		Opacity:  1,
		Spacing:  1,
		Dynamics: DefaultDynamics(),
	}
}

// clone returns a copy that shares nothing mutable with o. The brush image
// is never written to and stays shared.
func (o Options) clone() Options {
	var c Options
	if err := copier.CopyWithOption(&c, &o, copier.Option{DeepCopy: true}); err != nil {
		c = o
		c.Dynamics = slices.Clone(o.Dynamics)
	}
	c.Brush = o.Brush
	return c
}

func (o *Options) normalize() {
	o.H = math.Mod(o.H, 360)
	if o.H < 0 {
		o.H += 360
	}
	o.S = min(max(o.S, 0), 100)
	o.L = min(max(o.L, 0), 100)
	o.Opacity = min(max(o.Opacity, 0), 1)
	o.Rotation = math.Mod(o.Rotation, 2*math.Pi)
	if o.Rotation < 0 {
		o.Rotation += 2 * math.Pi
	}
	o.Spacing = max(o.Spacing, 1)
	o.Size = max(o.Size, 1e-3)
	if math.IsNaN(o.H) {
		o.H = 0
	}
	if math.IsNaN(o.Rotation) {
		o.Rotation = 0
	}
}

// Option keys, as used in tool:<key> event names.
var optionKeys = []string{"kind", "last", "size", "H", "S", "L", "opacity", "rotation", "spacing", "dynamic", "brush"}

func (o *Options) value(key string) any {
	switch key {
	case "kind":
		return o.Kind
	case "last":
		return o.Last
	case "size":
		return o.Size
	case "H":
		return o.H
	case "S":
		return o.S
	case "L":
		return o.L
	case "opacity":
		return o.Opacity
	case "rotation":
		return o.Rotation
	case "spacing":
		return o.Spacing
	case "dynamic":
		return slices.Clone(o.Dynamics)
	case "brush":
		return o.Brush
	}
	return nil
}

// ToolOption changes one field of the tool configuration.
type ToolOption struct {
	key string
	set func(*Options)
}

// WithKind switches the tool. The other options are kept.
func WithKind(k ToolKind) ToolOption {
	return ToolOption{"kind", func(o *Options) { o.Kind = k }}
}

// WithLast records the painting tool to return to from a utility tool.
func WithLast(k ToolKind) ToolOption {
	return ToolOption{"last", func(o *Options) { o.Last = k }}
}

// WithSize sets the brush diameter in pixels.
func WithSize(v float64) ToolOption {
	return ToolOption{"size", func(o *Options) { o.Size = v }}
}

// WithHue sets the colour hue in degrees.
func WithHue(v float64) ToolOption {
	return ToolOption{"H", func(o *Options) { o.H = v }}
}

// WithSaturation sets the colour saturation in percent.
func WithSaturation(v float64) ToolOption {
	return ToolOption{"S", func(o *Options) { o.S = v }}
}

// WithLightness sets the colour lightness in percent.
func WithLightness(v float64) ToolOption {
	return ToolOption{"L", func(o *Options) { o.L = v }}
}

// WithOpacity sets the dab opacity in [0, 1].
func WithOpacity(v float64) ToolOption {
	return ToolOption{"opacity", func(o *Options) { o.Opacity = v }}
}

// WithRotation sets the brush rotation in radians.
func WithRotation(v float64) ToolOption {
	return ToolOption{"rotation", func(o *Options) { o.Rotation = v }}
}

// WithSpacing sets the base distance between dabs in pixels.
func WithSpacing(v float64) ToolOption {
	return ToolOption{"spacing", func(o *Options) { o.Spacing = v }}
}

// WithDynamics replaces the modulator list. The slice is copied.
func WithDynamics(ds ...Dynamic) ToolOption {
	ds = slices.Clone(ds)
	return ToolOption{"dynamic", func(o *Options) { o.Dynamics = slices.Clone(ds) }}
}

// WithBrush sets the pattern used by ToolImagePen.
func WithBrush(b *Brush) ToolOption {
	return ToolOption{"brush", func(o *Options) { o.Brush = b }}
}

// SetToolOptions applies opts to the tool configuration. Fields not named
// keep their values. Changing the kind while any device is drawing fails
// with ErrStrokeInProgress and changes nothing.
//
// A tool:<key> event is emitted for each option given, or for every key
// when the kind changed, followed by tool:options.
func (a *Area) SetToolOptions(opts ...ToolOption) error {
	kind := slices.ContainsFunc(opts, func(o ToolOption) bool { return o.key == "kind" })
	if kind && a.drawing > 0 {
		Logger().Warn("paint: tool change rejected", "drawing", a.drawing)
		return ErrStrokeInProgress
	}

	for _, o := range opts {
		o.set(&a.options)
	}
	a.options.normalize()
	a.tool = newTool(a.options)

	keys := make([]string, 0, len(opts))
	if kind {
		keys = optionKeys
	} else {
		for _, o := range opts {
			if !slices.Contains(keys, o.key) {
				keys = append(keys, o.key)
			}
		}
	}
	for _, k := range keys {
		a.emit(Event{Name: ToolEvent(k), Index: -1, Key: k, Value: a.options.value(k), Options: a.options.clone()})
	}
	a.emit(Event{Name: EventToolOptions, Index: -1, Options: a.options.clone()})
	return nil
}

// ToolOptions returns a copy of the tool configuration.
func (a *Area) ToolOptions() Options {
	return a.options.clone()
}

// newTool builds the tool selected by o.Kind. The tool keeps o as its own
// configuration.
func newTool(o Options) Tool {
	switch o.Kind {
	case ToolEraser:
		return &penTool{opts: o, erase: true}
	case ToolImagePen:
		return &penTool{opts: o, pattern: true}
	case ToolMove:
		return &moveTool{opts: o}
	case ToolRectSelect:
		return &selectTool{opts: o, shape: ShapeRect}
	case ToolEllipseSelect:
		return &selectTool{opts: o, shape: ShapeEllipse}
	case ToolColorpicker:
		return &pickerTool{opts: o}
	default:
		return &penTool{opts: o}
	}
}

// Crosshair renders the cursor outline of the current tool onto a
// ceil(Size) square image centred on the pointer.
func (a *Area) Crosshair() *image.RGBA {
	sz := int(math.Ceil(a.options.Size))
	c := a.offscreen(sz, sz, float64(sz)/2, float64(sz)/2)
	a.tool.Crosshair(c)
	return c.img
}

// Symbol renders the icon of the current tool onto a w x h image.
func (a *Area) Symbol(w, h int) *image.RGBA {
	c := a.offscreen(w, h, 0, 0)
	a.tool.Symbol(c, float64(w)/2, float64(h)/2)
	return c.img
}

// Symbol renders the icon of kind configured by o onto a w x h image. Tools
// that need a document, such as the colorpicker, only draw their icon.
func Symbol(kind ToolKind, o Options, w, h int) *image.RGBA {
	o.Kind = kind
	o.normalize()
	c := &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	newTool(o).Symbol(c, float64(w)/2, float64(h)/2)
	return c.img
}
