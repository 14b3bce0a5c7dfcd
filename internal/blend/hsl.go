package blend

// Non-separable modes operate on the whole RGB triplet using the W3C
// Lum/Sat/ClipColor helpers. Channels are normalised float32 in [0,1].

func lum(r, g, b float32) float32 {
	return 0.30*r + 0.59*g + 0.11*b
}

func sat(r, g, b float32) float32 {
	return max(r, g, b) - min(r, g, b)
}

func clipColor(r, g, b float32) (float32, float32, float32) {
	l := lum(r, g, b)
	n := min(r, g, b)
	x := max(r, g, b)
	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

func setLum(r, g, b, l float32) (float32, float32, float32) {
	d := l - lum(r, g, b)
	return clipColor(r+d, g+d, b+d)
}

func setSat(r, g, b, s float32) (float32, float32, float32) {
	c := [3]*float32{&r, &g, &b}
	// order c as min, mid, max
	if *c[0] > *c[1] {
		c[0], c[1] = c[1], c[0]
	}
	if *c[1] > *c[2] {
		c[1], c[2] = c[2], c[1]
	}
	if *c[0] > *c[1] {
		c[0], c[1] = c[1], c[0]
	}
	if *c[2] > *c[0] {
		*c[1] = (*c[1] - *c[0]) * s / (*c[2] - *c[0])
		*c[2] = s
	} else {
		*c[1], *c[2] = 0, 0
	}
	*c[0] = 0
	return r, g, b
}

func nonSeparable(sr, sg, sb, sa, dr, dg, db, da byte, f func(sr, sg, sb, dr, dg, db float32) (float32, float32, float32)) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}
	norm := func(c, a byte) float32 { return float32(unpremul(c, a)) / 255 }
	br, bg, bb := f(norm(sr, sa), norm(sg, sa), norm(sb, sa), norm(dr, da), norm(dg, da), norm(db, da))

	invSa, invDa := 255-sa, 255-da
	saDa := mulDiv255(sa, da)
	ch := func(s, d byte, v float32) byte {
		base := addClamp(mulDiv255(d, invSa), mulDiv255(s, invDa))
		return addClamp(base, mulDiv255(saDa, alphaByte(float64(v))))
	}
	return ch(sr, dr, br), ch(sg, dg, bg), ch(sb, db, bb), addClamp(sa, mulDiv255(da, invSa))
}

func blendHue(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparable(sr, sg, sb, sa, dr, dg, db, da, func(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
		r, g, b := setSat(sr, sg, sb, sat(dr, dg, db))
		return setLum(r, g, b, lum(dr, dg, db))
	})
}

func blendSaturation(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparable(sr, sg, sb, sa, dr, dg, db, da, func(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
		r, g, b := setSat(dr, dg, db, sat(sr, sg, sb))
		return setLum(r, g, b, lum(dr, dg, db))
	})
}

func blendColor(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparable(sr, sg, sb, sa, dr, dg, db, da, func(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
		return setLum(sr, sg, sb, lum(dr, dg, db))
	})
}

func blendLuminosity(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparable(sr, sg, sb, sa, dr, dg, db, da, func(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
		return setLum(dr, dg, db, lum(sr, sg, sb))
	})
}
