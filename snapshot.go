package paint

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/clone"

	"github.com/gogpu/paint/internal/blend"
)

// Snapshot is an immutable capture of a layer: geometry, pixels and
// appearance. Exactly one payload is used: Pixels when non-nil, otherwise
// URL, which is decoded asynchronously. For URL payloads W and H may be zero,
// in which case the decoded image size is used.
//
// Snapshots produced by the Area always carry Pixels and are never mutated
// after capture.
type Snapshot struct {
	X, Y, W, H int
	Pixels     *image.RGBA
	URL        string
	Opacity    float64
	Visible    bool
	Mode       string // CSS mix-blend-mode name
}

func (s *Snapshot) validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil", ErrCorruptSnapshot)
	}
	if s.W < 0 || s.H < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrCorruptSnapshot, s.W, s.H)
	}
	if math.IsNaN(s.Opacity) || s.Opacity < 0 || s.Opacity > 1 {
		return fmt.Errorf("%w: opacity %v", ErrCorruptSnapshot, s.Opacity)
	}
	if m, ok := blend.Parse(s.Mode); !ok || !m.Layer() {
		return fmt.Errorf("%w: blend mode %q", ErrCorruptSnapshot, s.Mode)
	}
	if s.Pixels == nil {
		if s.URL == "" {
			return fmt.Errorf("%w: no pixel payload", ErrCorruptSnapshot)
		}
		return nil
	}
	p := s.Pixels
	if p.Rect.Size() != image.Pt(s.W, s.H) {
		return fmt.Errorf("%w: buffer is %v, want %dx%d", ErrCorruptSnapshot, p.Rect.Size(), s.W, s.H)
	}
	if s.H > 0 && (p.Stride < 4*s.W || len(p.Pix) < p.Stride*(s.H-1)+4*s.W) {
		return fmt.Errorf("%w: short pixel buffer", ErrCorruptSnapshot)
	}
	return nil
}

// copyRGBA returns an independent copy of img rebased to the origin.
func copyRGBA(img image.Image) *image.RGBA {
	c := clone.AsRGBA(img)
	c.Rect = image.Rectangle{Max: c.Rect.Size()}
	return c
}
