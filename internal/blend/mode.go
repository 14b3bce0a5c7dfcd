// Package blend implements the compositing operators used for painting dabs
// onto layers and for flattening the layer stack.
//
// All pixel math works on premultiplied alpha bytes, matching the layout of
// image.RGBA.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// Mode is a compositing operator. The zero value is Normal (source-over).
type Mode uint8

const (
	Normal Mode = iota // S + D*(1-Sa)
	Multiply
	Screen
	Overlay
	Darken
	Lighten
	ColorDodge
	ColorBurn
	HardLight
	SoftLight
	Difference
	Exclusion
	Hue
	Saturation
	Color
	Luminosity

	// Porter-Duff operators used by tools. They have no CSS
	// mix-blend-mode equivalent.
	DestinationOut // D*(1-Sa)
	DestinationIn  // D*Sa
	Copy           // S

	numModes
)

var modeNames = [numModes]string{
	Normal:         "normal",
	Multiply:       "multiply",
	Screen:         "screen",
	Overlay:        "overlay",
	Darken:         "darken",
	Lighten:        "lighten",
	ColorDodge:     "color-dodge",
	ColorBurn:      "color-burn",
	HardLight:      "hard-light",
	SoftLight:      "soft-light",
	Difference:     "difference",
	Exclusion:      "exclusion",
	Hue:            "hue",
	Saturation:     "saturation",
	Color:          "color",
	Luminosity:     "luminosity",
	DestinationOut: "destination-out",
	DestinationIn:  "destination-in",
	Copy:           "copy",
}

// String returns the CSS / canvas name of the mode.
func (m Mode) String() string {
	if m >= numModes {
		return "normal"
	}
	return modeNames[m]
}

// Layer reports whether m may be used as a layer blend mode, i.e. it has a
// mix-blend-mode spelling.
func (m Mode) Layer() bool {
	return m < DestinationOut
}

// Parse returns the mode for a CSS mix-blend-mode or canvas
// globalCompositeOperation name. "source-over" is accepted as Normal.
func Parse(name string) (Mode, bool) {
	if name == "source-over" || name == "" {
		return Normal, true
	}
	for i, n := range modeNames {
		if n == name {
			return Mode(i), true
		}
	}
	return Normal, false
}

// Func blends one premultiplied source pixel onto one premultiplied
// destination pixel.
type Func func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// Func returns the per-pixel operator for m. Unknown modes fall back to
// source-over.
func (m Mode) Func() Func {
	switch m {
	case Multiply:
		return blendMultiply
	case Screen:
		return blendScreen
	case Overlay:
		return blendOverlay
	case Darken:
		return blendDarken
	case Lighten:
		return blendLighten
	case ColorDodge:
		return blendColorDodge
	case ColorBurn:
		return blendColorBurn
	case HardLight:
		return blendHardLight
	case SoftLight:
		return blendSoftLight
	case Difference:
		return blendDifference
	case Exclusion:
		return blendExclusion
	case Hue:
		return blendHue
	case Saturation:
		return blendSaturation
	case Color:
		return blendColor
	case Luminosity:
		return blendLuminosity
	case DestinationOut:
		return blendDestinationOut
	case DestinationIn:
		return blendDestinationIn
	case Copy:
		return blendCopy
	default:
		return blendSourceOver
	}
}
