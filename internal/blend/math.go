package blend

// mulDiv255 returns a*b/255 rounded to nearest, without a division.
//
// Formula: t = a*b + 128; (t + t>>8) >> 8
func mulDiv255(a, b byte) byte {
	t := uint32(a)*uint32(b) + 128
	return byte((t + t>>8) >> 8)
}

// addClamp adds two bytes and clamps to 255.
func addClamp(a, b byte) byte {
	sum := uint16(a) + uint16(b)
	if sum > 255 {
		return 255
	}
	return byte(sum)
}

// unpremul converts a premultiplied channel back to straight colour.
func unpremul(c, a byte) byte {
	if a == 0 {
		return 0
	}
	v := (uint16(c)*255 + uint16(a)/2) / uint16(a)
	if v > 255 {
		return 255
	}
	return byte(v)
}

// alphaByte converts an opacity in [0,1] to a byte.
func alphaByte(f float64) byte {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return byte(f*255 + 0.5)
}

func minByte(a, b byte) byte {
	if a < b {
		return a
	}
	return b
}

func maxByte(a, b byte) byte {
	if a > b {
		return a
	}
	return b
}
