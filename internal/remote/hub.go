// Package remote hosts a paint.Area for browser clients over websockets.
//
// A Hub owns the Area on the goroutine running Hub.Run. Every connection
// gets a reader that forwards decoded commands to the hub and a writer that
// drains a bounded queue of outgoing messages; a client whose queue is full
// is disconnected. Area events are broadcast to every client as they happen.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/internal/dataurl"
	"github.com/gogpu/paint/internal/palette"
)

var errRefused = errors.New("remote: pointer down refused")

// forwarded lists the Area events broadcast to clients.
var forwarded = strings.Join([]string{
	paint.EventLayerAdd,
	paint.EventLayerDel,
	paint.EventLayerSet,
	paint.EventLayerMove,
	paint.EventLayerRedraw,
	paint.EventLayerResize,
	paint.EventLayerError,
	paint.EventSelection,
	paint.EventAreaResize,
	paint.EventToolOptions,
}, " ")

// Hub serves one document to any number of clients.
type Hub struct {
	area     *paint.Area
	palettes []palette.Palette
	upgrader websocket.Upgrader

	join     chan *client
	leave    chan *client
	commands chan command
	quit     chan struct{}

	// owned by Run
	clients          map[*client]struct{}
	canUndo, canRedo bool
}

type command struct {
	from *client
	Command
	err error
}

// Option configures a Hub.
type Option func(*Hub)

// WithPalettes sets the palettes sent to clients when they connect.
func WithPalettes(ps []palette.Palette) Option {
	return func(h *Hub) {
		h.palettes = ps
	}
}

// WithOriginCheck replaces the default same-origin check for websocket
// upgrades.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = fn
	}
}

// NewHub returns a hub serving a. From the moment Run is called, a must not
// be used by any other goroutine until Run returns.
func NewHub(a *paint.Area, opts ...Option) *Hub {
	h := &Hub{
		area:     a,
		join:     make(chan *client),
		leave:    make(chan *client),
		commands: make(chan command, 64),
		quit:     make(chan struct{}),
		clients:  make(map[*client]struct{}),
		canUndo:  a.CanUndo(),
		canRedo:  a.CanRedo(),
	}
	for _, opt := range opts {
		opt(h)
	}
	a.On(forwarded, h.forward)
	return h
}

// Run processes connections, commands and background decodes until ctx is
// done. All clients are disconnected when it returns.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.quit)
	for {
		select {
		case c := <-h.join:
			h.clients[c] = struct{}{}
			paint.Logger().Info("remote: client joined", "client", c.id, "clients", len(h.clients))
			h.send(c, Message{Type: TypeHello, Client: c.id, Palettes: h.palettes, State: h.state()})

		case c := <-h.leave:
			h.drop(c)

		case cmd := <-h.commands:
			if _, ok := h.clients[cmd.from]; !ok {
				continue
			}
			if cmd.err != nil {
				h.send(cmd.from, Message{Type: TypeError, Index: -1, Error: cmd.err.Error()})
				continue
			}
			h.handle(cmd.from, &cmd.Command)
			h.history()

		case done := <-h.area.Pending():
			done()
			h.history()

		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return ctx.Err()
		}
	}
}

func (h *Hub) handle(c *client, cmd *Command) {
	a := h.area
	var err error
	switch cmd.Op {
	case OpDown:
		dev := c.device(cmd.Device)
		if a.PointerDown(dev, cmd.sample()) {
			c.devices[dev] = struct{}{}
		} else {
			err = errRefused
		}
	case OpMove:
		a.PointerMove(c.device(cmd.Device), cmd.sample())
	case OpUp:
		dev := c.device(cmd.Device)
		a.PointerUp(dev, cmd.sample())
		delete(c.devices, dev)

	case OpUndo:
		err = a.Undo()
	case OpRedo:
		err = a.Redo()
	case OpClearHistory:
		a.ClearHistory()

	case OpAddLayer:
		_, err = a.CreateLayer(cmd.Index, nil)
	case OpDelete:
		a.DeleteLayer(cmd.Index)
	case OpSelect:
		a.SetLayer(cmd.Index)
	case OpMoveLayer:
		a.MoveLayer(cmd.Index, cmd.Delta)
	case OpMerge:
		a.MergeDown(cmd.Index)
	case OpOpacity:
		a.SetLayerOpacity(cmd.Index, cmd.Value)
	case OpVisible:
		a.SetLayerVisible(cmd.Index, cmd.Visible)
	case OpBlend:
		err = a.SetLayerBlendMode(cmd.Index, cmd.Mode)

	case OpTool:
		if cmd.Tool == nil {
			err = errors.New("remote: tool command without settings")
			break
		}
		var opts []paint.ToolOption
		if opts, err = cmd.Tool.options(); err == nil {
			err = a.SetToolOptions(opts...)
		}
	case OpSelection:
		var sel paint.Selection
		if sel, err = selectionOf(cmd.Regions); err == nil {
			a.SetSelection(sel)
		}
	case OpResize:
		a.SetSize(cmd.Width, cmd.Height)

	case OpLoad:
		err = a.Load(cmd.Data, cmd.Force)
	case OpSave:
		f := paint.Format(cmd.Format)
		if f == "" {
			f = paint.FormatSVG
		}
		var url string
		if url, err = a.Save(f); err == nil {
			h.send(c, Message{Type: TypeSaved, Index: -1, Data: url})
		}
	case OpState:
		h.send(c, Message{Type: TypeState, Index: -1, State: h.state()})
	case OpCrosshair:
		h.send(c, Message{Type: TypeCrosshair, Index: -1, Data: pngURL(a.Crosshair())})

	default:
		err = fmt.Errorf("remote: unknown op %q", cmd.Op)
	}
	if err != nil {
		paint.Logger().Debug("remote: command failed", "client", c.id, "op", cmd.Op, "err", err)
		h.send(c, Message{Type: TypeError, Index: -1, Error: err.Error()})
	}
}

// history broadcasts undo availability when it changed.
func (h *Hub) history() {
	u, r := h.area.CanUndo(), h.area.CanRedo()
	if u == h.canUndo && r == h.canRedo {
		return
	}
	h.canUndo, h.canRedo = u, r
	h.broadcast(Message{Type: TypeHistory, Index: -1, CanUndo: u, CanRedo: r})
}

func (h *Hub) forward(e paint.Event) {
	m := Message{Type: TypeEvent, Event: e.Name, Index: e.Index, Delta: e.Delta}
	if e.Layer != nil && e.Name != paint.EventLayerDel {
		m.Layer = layerInfo(e.Layer)
	}
	if e.Err != nil {
		m.Error = e.Err.Error()
	}
	switch e.Name {
	case paint.EventLayerRedraw:
		if e.Layer != nil {
			m.Data = pngURL(e.Layer.Image())
		}
	case paint.EventToolOptions:
		m.Tool = toolOf(e.Options)
	case paint.EventSelection:
		m.Regions = regionsOf(h.area.Selection())
	}
	h.broadcast(m)
}

func (h *Hub) state() *State {
	a := h.area
	w, ht := a.Size()
	s := &State{
		Width:   w,
		Height:  ht,
		Active:  a.Active(),
		Drawing: a.Drawing(),
		Layers:  make([]*LayerInfo, 0, a.Len()),
		CanUndo: a.CanUndo(),
		CanRedo: a.CanRedo(),
		Tool:    toolOf(a.ToolOptions()),
		Regions: regionsOf(a.Selection()),
	}
	for _, l := range a.Layers() {
		s.Layers = append(s.Layers, layerInfo(l))
	}
	return s
}

func (h *Hub) send(c *client, m Message) {
	b, err := json.Marshal(m)
	if err != nil {
		paint.Logger().Error("remote: encode message", "type", m.Type, "err", err)
		return
	}
	h.deliver(c, b)
}

func (h *Hub) broadcast(m Message) {
	if len(h.clients) == 0 {
		return
	}
	b, err := json.Marshal(m)
	if err != nil {
		paint.Logger().Error("remote: encode message", "type", m.Type, "err", err)
		return
	}
	for c := range h.clients {
		h.deliver(c, b)
	}
}

func (h *Hub) deliver(c *client, b []byte) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- b:
	default:
		paint.Logger().Warn("remote: dropping slow client", "client", c.id)
		h.drop(c)
	}
}

// drop disconnects c and ends the strokes it left open.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	for dev := range c.devices {
		h.area.PointerUp(dev, paint.Sample{})
	}
	clear(c.devices)
	paint.Logger().Info("remote: client left", "client", c.id, "clients", len(h.clients))
}

// pngURL encodes img as a PNG data URL, or returns "" for an empty image.
func pngURL(img *image.RGBA) string {
	if img.Rect.Empty() {
		return ""
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		paint.Logger().Warn("remote: encode png", "err", err)
		return ""
	}
	return dataurl.Encode("image/png", buf.Bytes())
}
