package remote

import (
	"fmt"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/internal/palette"
)

// Command ops sent by clients. The Command fields each op reads are listed
// on Command.
const (
	OpDown         = "down"
	OpMove         = "move"
	OpUp           = "up"
	OpUndo         = "undo"
	OpRedo         = "redo"
	OpAddLayer     = "add"
	OpDelete       = "delete"
	OpSelect       = "select"
	OpMoveLayer    = "move-layer"
	OpMerge        = "merge"
	OpOpacity      = "opacity"
	OpVisible      = "visible"
	OpBlend        = "blend"
	OpTool         = "tool"
	OpSelection    = "selection"
	OpResize       = "resize"
	OpLoad         = "load"
	OpSave         = "save"
	OpState        = "state"
	OpCrosshair    = "crosshair"
	OpClearHistory = "clear-history"
)

// Message types sent by the hub.
const (
	TypeHello     = "hello"
	TypeEvent     = "event"
	TypeState     = "state"
	TypeHistory   = "history"
	TypeSaved     = "saved"
	TypeCrosshair = "crosshair"
	TypeError     = "error"
)

// Command is one client request.
//
//	down, move, up        Device and the sample fields
//	add, delete, select   Index
//	move-layer            Index, Delta
//	merge                 Index
//	opacity               Index, Value
//	visible               Index, Visible
//	blend                 Index, Mode
//	tool                  Tool
//	selection             Regions
//	resize                Width, Height
//	load                  Data, Force
//	save                  Format
type Command struct {
	Op     string `json:"op"`
	Device string `json:"device,omitempty"`

	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Pressure float64 `json:"pressure,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
	Pointer  string  `json:"pointer,omitempty"` // mouse, touch or pen
	Shift    bool    `json:"shift,omitempty"`
	Ctrl     bool    `json:"ctrl,omitempty"`
	Alt      bool    `json:"alt,omitempty"`

	Index   int      `json:"index,omitempty"`
	Delta   int      `json:"delta,omitempty"`
	Value   float64  `json:"value,omitempty"`
	Visible bool     `json:"visible,omitempty"`
	Mode    string   `json:"mode,omitempty"`
	Tool    *Tool    `json:"tool,omitempty"`
	Regions []Region `json:"regions,omitempty"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	Data    string   `json:"data,omitempty"`
	Force   bool     `json:"force,omitempty"`
	Format  string   `json:"format,omitempty"`
}

func (c *Command) sample() paint.Sample {
	s := paint.Sample{X: c.X, Y: c.Y, Pressure: c.Pressure, Rotation: c.Rotation}
	switch c.Pointer {
	case "touch":
		s.Pointer = paint.PointerTouch
	case "pen":
		s.Pointer = paint.PointerPen
	}
	if c.Shift {
		s.Mods |= paint.ModShift
	}
	if c.Ctrl {
		s.Mods |= paint.ModCtrl
	}
	if c.Alt {
		s.Mods |= paint.ModAlt
	}
	return s
}

// Tool carries tool settings. Nil fields are left unchanged.
type Tool struct {
	Kind     string   `json:"kind,omitempty"`
	Size     *float64 `json:"size,omitempty"`
	H        *float64 `json:"h,omitempty"`
	S        *float64 `json:"s,omitempty"`
	L        *float64 `json:"l,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Spacing  *float64 `json:"spacing,omitempty"`
}

func (t *Tool) options() ([]paint.ToolOption, error) {
	var opts []paint.ToolOption
	if t.Kind != "" {
		k, ok := paint.ParseToolKind(t.Kind)
		if !ok {
			return nil, fmt.Errorf("remote: unknown tool %q", t.Kind)
		}
		opts = append(opts, paint.WithKind(k))
	}
	add := func(v *float64, fn func(float64) paint.ToolOption) {
		if v != nil {
			opts = append(opts, fn(*v))
		}
	}
	add(t.Size, paint.WithSize)
	add(t.H, paint.WithHue)
	add(t.S, paint.WithSaturation)
	add(t.L, paint.WithLightness)
	add(t.Opacity, paint.WithOpacity)
	add(t.Rotation, paint.WithRotation)
	add(t.Spacing, paint.WithSpacing)
	return opts, nil
}

func toolOf(o paint.Options) *Tool {
	f := func(v float64) *float64 { return &v }
	return &Tool{
		Kind:     o.Kind.String(),
		Size:     f(o.Size),
		H:        f(o.H),
		S:        f(o.S),
		L:        f(o.L),
		Opacity:  f(o.Opacity),
		Rotation: f(o.Rotation),
		Spacing:  f(o.Spacing),
	}
}

// Region is a selection shape.
type Region struct {
	Shape   string  `json:"shape"`             // rect or ellipse
	Combine string  `json:"combine,omitempty"` // replace, union, subtract or xor
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
}

var (
	shapeNames   = []string{paint.ShapeRect: "rect", paint.ShapeEllipse: "ellipse"}
	combineNames = []string{
		paint.CombineReplace:  "replace",
		paint.CombineUnion:    "union",
		paint.CombineSubtract: "subtract",
		paint.CombineXor:      "xor",
	}
)

func selectionOf(rs []Region) (paint.Selection, error) {
	sel := make(paint.Selection, 0, len(rs))
	for _, r := range rs {
		reg := paint.Region{X: r.X, Y: r.Y, W: r.W, H: r.H}
		switch r.Shape {
		case "rect", "":
		case "ellipse":
			reg.Shape = paint.ShapeEllipse
		default:
			return nil, fmt.Errorf("remote: unknown shape %q", r.Shape)
		}
		switch r.Combine {
		case "replace", "":
		case "union":
			reg.Combine = paint.CombineUnion
		case "subtract":
			reg.Combine = paint.CombineSubtract
		case "xor":
			reg.Combine = paint.CombineXor
		default:
			return nil, fmt.Errorf("remote: unknown combine %q", r.Combine)
		}
		sel = append(sel, reg)
	}
	return sel, nil
}

func regionsOf(sel paint.Selection) []Region {
	rs := make([]Region, len(sel))
	for i, r := range sel {
		rs[i] = Region{
			Shape:   shapeNames[r.Shape],
			Combine: combineNames[r.Combine],
			X:       r.X,
			Y:       r.Y,
			W:       r.W,
			H:       r.H,
		}
	}
	return rs
}

// LayerInfo describes a layer without its pixels.
type LayerInfo struct {
	ID      string  `json:"id"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
	W       int     `json:"w"`
	H       int     `json:"h"`
	Opacity float64 `json:"opacity"`
	Visible bool    `json:"visible"`
	Mode    string  `json:"mode"`
}

func layerInfo(l *paint.Layer) *LayerInfo {
	b := l.Bounds()
	return &LayerInfo{
		ID:      l.ID,
		X:       b.Min.X,
		Y:       b.Min.Y,
		W:       b.Dx(),
		H:       b.Dy(),
		Opacity: l.Opacity(),
		Visible: l.Visible(),
		Mode:    l.BlendMode(),
	}
}

// State is a summary of the hosted document.
type State struct {
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Active  int          `json:"active"`
	Drawing int          `json:"drawing"`
	Layers  []*LayerInfo `json:"layers"`
	CanUndo bool         `json:"canUndo"`
	CanRedo bool         `json:"canRedo"`
	Tool    *Tool        `json:"tool"`
	Regions []Region     `json:"regions,omitempty"`
}

// Message is one hub notification or reply.
type Message struct {
	Type string `json:"type"`

	// Client is the connection id, sent with hello.
	Client   string            `json:"client,omitempty"`
	Palettes []palette.Palette `json:"palettes,omitempty"`

	Event   string     `json:"event,omitempty"`
	Index   int        `json:"index"`
	Delta   int        `json:"delta,omitempty"`
	Layer   *LayerInfo `json:"layer,omitempty"`
	Key     string     `json:"key,omitempty"`
	Tool    *Tool      `json:"tool,omitempty"`
	Regions []Region   `json:"regions,omitempty"`

	// Data is a data URL: layer pixels for layer:redraw, the document for
	// saved, the cursor image for crosshair.
	Data string `json:"data,omitempty"`

	State   *State `json:"state,omitempty"`
	CanUndo bool   `json:"canUndo,omitempty"`
	CanRedo bool   `json:"canRedo,omitempty"`
	Error   string `json:"error,omitempty"`
}
