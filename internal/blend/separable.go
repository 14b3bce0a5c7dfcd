package blend

import "math"

// separable applies a per-channel blend function B using the W3C formula
//
//	Result = (1 - Sa)*D + (1 - Da)*S + Sa*Da*B(Cs, Cb)
//
// where Cs and Cb are the unpremultiplied source and backdrop channels.
func separable(sr, sg, sb, sa, dr, dg, db, da byte, b func(s, d byte) byte) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}
	invSa, invDa := 255-sa, 255-da
	saDa := mulDiv255(sa, da)
	ch := func(s, d byte) byte {
		base := addClamp(mulDiv255(d, invSa), mulDiv255(s, invDa))
		return addClamp(base, mulDiv255(saDa, b(unpremul(s, sa), unpremul(d, da))))
	}
	return ch(sr, dr), ch(sg, dg), ch(sb, db), addClamp(sa, mulDiv255(da, invSa))
}

func blendMultiply(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, mulDiv255)
}

func blendScreen(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, screen)
}

func screen(s, d byte) byte {
	return 255 - mulDiv255(255-s, 255-d)
}

func hardLight(s, d byte) byte {
	if s <= 127 {
		return mulDiv255(s, d) * 2
	}
	return screen(byte(2*uint16(s)-255), d)
}

func blendOverlay(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte { return hardLight(d, s) })
}

func blendDarken(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, minByte)
}

func blendLighten(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, maxByte)
}

func blendColorDodge(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if d == 0 {
			return 0
		}
		if s == 255 {
			return 255
		}
		v := uint16(d) * 255 / uint16(255-s)
		if v > 255 {
			return 255
		}
		return byte(v)
	})
}

func blendColorBurn(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if d == 255 {
			return 255
		}
		if s == 0 {
			return 0
		}
		v := uint16(255-d) * 255 / uint16(s)
		if v > 255 {
			return 0
		}
		return 255 - byte(v)
	})
}

func blendHardLight(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, hardLight)
}

func blendSoftLight(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		cs := float64(s) / 255
		cb := float64(d) / 255
		var r float64
		if cs <= 0.5 {
			r = cb - (1-2*cs)*cb*(1-cb)
		} else {
			dx := math.Sqrt(cb)
			if cb <= 0.25 {
				dx = ((16*cb-12)*cb + 4) * cb
			}
			r = cb + (2*cs-1)*(dx-cb)
		}
		return alphaByte(r)
	})
}

func blendDifference(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		if s > d {
			return s - d
		}
		return d - s
	})
}

func blendExclusion(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return separable(sr, sg, sb, sa, dr, dg, db, da, func(s, d byte) byte {
		v := int(s) + int(d) - 2*int(mulDiv255(s, d))
		if v < 0 {
			return 0
		}
		return byte(v)
	})
}
