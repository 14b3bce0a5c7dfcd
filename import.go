package paint

import (
	"bytes"
	"fmt"
	"image"

	"github.com/h2non/filetype"

	"github.com/gogpu/paint/internal/blend"
	"github.com/gogpu/paint/internal/dataurl"
	"github.com/gogpu/paint/internal/svgdoc"
)

// Load adds the contents of a data URL on top of the document.
//
// An SVG container creates one layer per image element, in document order,
// each inserted at index 0 so that the last element ends up on top; the
// elements' pixels are decoded in the background. A raster image is decoded
// in the background and becomes a single new top layer once done; failures
// are reported through a layer:error event with a nil Layer.
//
// When forceResize is set, or the document has no layers at the time of
// the call, the document is resized to the loaded content.
func (a *Area) Load(data string, forceResize bool) error {
	force := forceResize || len(a.layers) == 0

	switch {
	case dataurl.Is(data, "image/svg+xml"):
		return a.loadSVG(data, force)

	case dataurl.Is(data, "image/"):
		a.decodeAsync(data, func(img image.Image, err error) {
			if err != nil {
				Logger().Warn("paint: import failed", "err", err)
				a.emit(Event{Name: EventLayerError, Index: -1, Err: err})
				return
			}
			pix := copyRGBA(img)
			size := pix.Rect.Size()
			s := &Snapshot{W: size.X, H: size.Y, Pixels: pix, Opacity: 1, Visible: true}
			if _, err := a.CreateLayer(0, s); err != nil {
				a.emit(Event{Name: EventLayerError, Index: -1, Err: err})
				return
			}
			if force {
				a.SetSize(size.X, size.Y)
			}
			Logger().Info("paint: image imported", "width", size.X, "height", size.Y)
		})
		return nil
	}
	return ErrUnsupportedFormat
}

func (a *Area) loadSVG(data string, force bool) error {
	_, b, err := dataurl.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	doc, err := svgdoc.Decode(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	snaps := make([]*Snapshot, 0, len(doc.Images))
	for _, img := range doc.Images {
		s := &Snapshot{
			X:       img.X,
			Y:       img.Y,
			W:       max(img.Width, 0),
			H:       max(img.Height, 0),
			URL:     img.Href,
			Opacity: img.Opacity,
			Visible: !img.Hidden,
			Mode:    img.BlendMode,
		}
		if m, ok := blend.Parse(s.Mode); !ok || !m.Layer() {
			Logger().Debug("paint: unknown blend mode replaced", "mode", s.Mode)
			s.Mode = blend.Normal.String()
		}
		if err := s.validate(); err != nil {
			return err
		}
		snaps = append(snaps, s)
	}

	for _, s := range snaps {
		if _, err := a.CreateLayer(0, s); err != nil {
			return err
		}
	}
	if force {
		a.SetSize(doc.Width, doc.Height)
	}
	Logger().Info("paint: document loaded", "layers", len(snaps), "width", doc.Width, "height", doc.Height)
	return nil
}

// LoadBytes loads a dropped or pasted file. PNG, JPEG, GIF and WebP images
// and SVG containers are recognised by content.
func (a *Area) LoadBytes(b []byte, forceResize bool) error {
	kind, err := filetype.Match(b)
	if err == nil {
		switch mime := kind.MIME.Value; mime {
		case "image/png", "image/jpeg", "image/gif", "image/webp":
			return a.Load(dataurl.Encode(mime, b), forceResize)
		}
	}
	if bytes.Contains(b, []byte("<svg")) {
		return a.Load(dataurl.Encode("image/svg+xml", b), forceResize)
	}
	return ErrUnsupportedFormat
}
