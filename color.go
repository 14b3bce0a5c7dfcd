package paint

import (
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// hslColor converts tool colour options (H in degrees, S and L in percent)
// to an opaque colour.
func hslColor(h, s, l float64) color.NRGBA {
	c := gg.HSL(h, s/100, l/100)
	c.A = 1
	return c.Color().(color.NRGBA)
}

// rgbToHSL converts non-premultiplied components in [0, 1] to H in degrees
// and S, L in percent, each rounded to an integer.
func rgbToHSL(r, g, b float64) (h, s, l float64) {
	lo, hi := min(r, g, b), max(r, g, b)
	l = (lo + hi) / 2
	d := hi - lo
	if d < 0.001 {
		return 0, 0, math.Round(l * 100)
	}
	if l < 0.5 {
		s = d / (hi + lo)
	} else {
		s = d / (2 - hi - lo)
	}
	switch hi {
	case r:
		h = (g - b) / d
	case g:
		h = 2 + (b-r)/d
	default:
		h = 4 + (r-g)/d
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return math.Round(h), math.Round(s * 100), math.Round(l * 100)
}

func alphaByte(f float64) uint8 {
	return uint8(math.Round(min(max(f, 0), 1) * 255))
}
