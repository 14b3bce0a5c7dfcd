package paint

import (
	"image"

	"github.com/gogpu/gg"
)

// Shape is the outline of a selection region.
type Shape uint8

const (
	ShapeRect Shape = iota
	ShapeEllipse
)

// Combine says how a region is folded into the regions before it.
type Combine uint8

const (
	CombineReplace Combine = iota
	CombineUnion
	CombineSubtract
	CombineXor
)

// Region is one shape of a selection, in document coordinates.
type Region struct {
	Shape      Shape
	X, Y, W, H float64
	Combine    Combine
}

func (r Region) path(dc *gg.Context) {
	switch r.Shape {
	case ShapeEllipse:
		dc.DrawEllipse(r.X+r.W/2, r.Y+r.H/2, r.W/2, r.H/2)
	default:
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	}
}

// Selection restricts where strokes paint. Regions are folded in order;
// an empty selection leaves the whole document paintable.
type Selection []Region

// Mask rasterizes the selection over r, in document coordinates. It returns
// nil for an empty selection.
func (s Selection) Mask(r image.Rectangle) *image.Alpha {
	if len(s) == 0 {
		return nil
	}
	acc := image.NewAlpha(r)
	if s[0].Combine == CombineSubtract {
		for i := range acc.Pix {
			acc.Pix[i] = 0xff
		}
	}
	if r.Empty() {
		return acc
	}
	for _, reg := range s {
		cov, err := coverage(r, func(dc *gg.Context) error {
			reg.path(dc)
			return dc.Fill()
		})
		if err != nil {
			Logger().Warn("paint: selection rasterize failed", "err", err)
			continue
		}
		fold(acc, cov, reg.Combine)
	}
	return acc
}

func fold(acc, cov *image.Alpha, c Combine) {
	for i, b := range cov.Pix {
		a := acc.Pix[i]
		switch c {
		case CombineUnion:
			acc.Pix[i] = max(a, b)
		case CombineSubtract:
			acc.Pix[i] = byte((int(a)*int(255-b) + 127) / 255)
		case CombineXor:
			if a > b {
				acc.Pix[i] = a - b
			} else {
				acc.Pix[i] = b - a
			}
		default:
			acc.Pix[i] = b
		}
	}
}
