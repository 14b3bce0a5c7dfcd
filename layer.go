package paint

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/transform"
	"github.com/google/uuid"

	"github.com/gogpu/paint/internal/blend"
)

// Layer is one raster buffer of the document plus its placement and
// appearance. The pixel buffer is exclusively owned by the layer and always
// has bounds (0,0)-(w,h).
type Layer struct {
	// ID is a stable identifier, unique across the process.
	ID string

	area    *Area
	x, y    int
	pix     *image.RGBA
	visible bool
	opacity float64
	mode    blend.Mode

	// gen is bumped by every restore so that a stale asynchronous decode
	// cannot overwrite newer content.
	gen uint64

	// pending is the URL payload whose decode has not landed yet.
	pending *Snapshot
}

func newLayer(a *Area) *Layer {
	return &Layer{
		ID:      uuid.NewString(),
		area:    a,
		pix:     image.NewRGBA(image.Rectangle{}),
		visible: true,
		opacity: 1,
	}
}

// Bounds returns the layer extent in document space.
func (l *Layer) Bounds() image.Rectangle {
	return l.pix.Rect.Add(image.Pt(l.x, l.y))
}

// Image returns the layer's pixel buffer. It is owned by the layer; callers
// must not modify it or keep it past the next document mutation.
func (l *Layer) Image() *image.RGBA { return l.pix }

// Visible reports whether the layer is composited.
func (l *Layer) Visible() bool { return l.visible }

// Opacity returns the layer opacity in [0, 1].
func (l *Layer) Opacity() float64 { return l.opacity }

// BlendMode returns the CSS mix-blend-mode name of the layer.
func (l *Layer) BlendMode() string { return l.mode.String() }

// Loading reports whether the layer is waiting for its pixels to decode.
func (l *Layer) Loading() bool { return l.pending != nil }

func (l *Layer) emit(name string) {
	if l.area == nil {
		return
	}
	l.area.emit(Event{Name: name, Layer: l, Index: l.area.indexOf(l)})
}

// Move repositions the layer within the document.
func (l *Layer) Move(x, y int) {
	l.x, l.y = x, y
	l.emit(EventLayerResize)
}

// Crop changes the extent of the layer without scaling its content. Pixels
// keep their document position; anything outside the new extent is
// discarded and newly exposed pixels are transparent.
func (l *Layer) Crop(x, y, w, h int) {
	l.crop(x, y, w, h)
	l.emit(EventLayerResize)
	l.emit(EventLayerRedraw)
}

// crop is Crop without notifications.
func (l *Layer) crop(x, y, w, h int) {
	w, h = max(w, 0), max(h, 0)
	next := image.NewRGBA(image.Rect(0, 0, w, h))
	off := image.Pt(l.x-x, l.y-y)
	draw.Draw(next, l.pix.Rect.Add(off), l.pix, image.Point{}, draw.Src)
	l.pix = next
	l.x, l.y = x, y
}

// Resize changes the extent of the layer, rescaling its content to fit.
func (l *Layer) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if w == 0 || h == 0 || l.pix.Rect.Empty() {
		l.pix = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		l.pix = transform.Resize(l.pix, w, h, transform.Linear)
	}
	l.Move(l.x, l.y)
	l.emit(EventLayerRedraw)
}

// Snapshot returns a full, independent capture of the layer. While the
// layer is still decoding, the capture carries the URL being decoded so that
// restoring it decodes again.
func (l *Layer) Snapshot() *Snapshot {
	if p := l.pending; p != nil {
		return &Snapshot{
			X:       l.x,
			Y:       l.y,
			W:       p.W,
			H:       p.H,
			URL:     p.URL,
			Opacity: l.opacity,
			Visible: l.visible,
			Mode:    l.mode.String(),
		}
	}
	size := l.pix.Rect.Size()
	return &Snapshot{
		X:       l.x,
		Y:       l.y,
		W:       size.X,
		H:       size.Y,
		Pixels:  copyRGBA(l.pix),
		Opacity: l.opacity,
		Visible: l.visible,
		Mode:    l.mode.String(),
	}
}

// CompositeOnto draws the layer onto dst, whose coordinates are document
// coordinates, honouring visibility, opacity and blend mode.
func (l *Layer) CompositeOnto(dst *image.RGBA) {
	l.compositeAt(dst, image.Pt(l.x, l.y))
}

func (l *Layer) compositeAt(dst *image.RGBA, at image.Point) {
	if !l.visible {
		return
	}
	r := l.pix.Rect.Add(at)
	blend.Composite(dst, r, l.pix, image.Point{}, nil, image.Point{}, l.opacity, l.mode)
}

// restore replaces the layer state from s, which must be valid. Pixel
// payloads apply immediately; URL payloads leave the layer empty and sized
// until the decode completes, then emit a single redraw.
func (l *Layer) restore(s *Snapshot) {
	l.gen++
	l.visible = s.Visible
	l.opacity = s.Opacity
	l.mode, _ = blend.Parse(s.Mode)

	l.pending = nil
	if s.Pixels != nil {
		l.x, l.y = s.X, s.Y
		l.pix = copyRGBA(s.Pixels)
		l.emit(EventLayerResize)
		l.emit(EventLayerRedraw)
		return
	}

	l.x, l.y = s.X, s.Y
	l.pix = image.NewRGBA(image.Rect(0, 0, s.W, s.H))
	l.emit(EventLayerResize)

	a := l.area
	if a == nil {
		return
	}
	l.pending = s
	gen := l.gen
	a.decodeAsync(s.URL, func(img image.Image, err error) {
		if l.gen != gen {
			return
		}
		l.pending = nil
		if err != nil {
			Logger().Warn("paint: layer decode failed", "layer", l.ID, "err", err)
			a.emit(Event{Name: EventLayerError, Layer: l, Index: a.indexOf(l), Err: err})
			return
		}
		w, h := s.W, s.H
		if w == 0 || h == 0 {
			size := img.Bounds().Size()
			w, h = size.X, size.Y
		}
		pix := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(pix, pix.Rect, img, img.Bounds().Min, draw.Src)
		l.pix = pix
		l.emit(EventLayerResize)
		l.emit(EventLayerRedraw)
	})
}
