package blend

import (
	"image"
	"image/color"
)

// Composite blends src onto dst inside r using mode m, in the manner of
// draw.DrawMask: sp and mp are the source and mask points aligned with
// r.Min. A nil mask means full coverage. opacity scales the source alpha.
func Composite(dst *image.RGBA, r image.Rectangle, src *image.RGBA, sp image.Point, mask *image.Alpha, mp image.Point, opacity float64, m Mode) {
	orig := r.Min
	r = r.Intersect(dst.Bounds()).Intersect(src.Bounds().Add(orig.Sub(sp)))
	if r.Empty() {
		return
	}
	sp = sp.Add(r.Min.Sub(orig))
	mp = mp.Add(r.Min.Sub(orig))
	f := m.Func()
	op := alphaByte(opacity)

	for y := 0; y < r.Dy(); y++ {
		di := dst.PixOffset(r.Min.X, r.Min.Y+y)
		si := src.PixOffset(sp.X, sp.Y+y)
		for x := 0; x < r.Dx(); x, di, si = x+1, di+4, si+4 {
			k := op
			if mask != nil {
				k = mulDiv255(k, mask.AlphaAt(mp.X+x, mp.Y+y).A)
			}
			if k == 0 {
				continue
			}
			s := src.Pix[si : si+4 : si+4]
			sr, sg, sb, sa := s[0], s[1], s[2], s[3]
			if k != 255 {
				sr, sg, sb, sa = mulDiv255(sr, k), mulDiv255(sg, k), mulDiv255(sb, k), mulDiv255(sa, k)
			}
			d := dst.Pix[di : di+4 : di+4]
			d[0], d[1], d[2], d[3] = f(sr, sg, sb, sa, d[0], d[1], d[2], d[3])
		}
	}
}

// Paint blends the uniform colour c onto dst inside r through the coverage
// mask, mp being aligned with r.Min. A nil mask means full coverage.
func Paint(dst *image.RGBA, r image.Rectangle, c color.Color, mask *image.Alpha, mp image.Point, m Mode) {
	orig := r.Min
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	mp = mp.Add(r.Min.Sub(orig))
	f := m.Func()
	pc := color.RGBAModel.Convert(c).(color.RGBA)

	for y := 0; y < r.Dy(); y++ {
		di := dst.PixOffset(r.Min.X, r.Min.Y+y)
		for x := 0; x < r.Dx(); x, di = x+1, di+4 {
			k := byte(255)
			if mask != nil {
				k = mask.AlphaAt(mp.X+x, mp.Y+y).A
			}
			if k == 0 {
				continue
			}
			d := dst.Pix[di : di+4 : di+4]
			d[0], d[1], d[2], d[3] = f(mulDiv255(pc.R, k), mulDiv255(pc.G, k), mulDiv255(pc.B, k), mulDiv255(pc.A, k),
				d[0], d[1], d[2], d[3])
		}
	}
}

// MulAlpha multiplies every coverage value in dst by the value of src at the
// same point. Points outside src become zero.
func MulAlpha(dst, src *image.Alpha) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := dst.PixOffset(x, y)
			dst.Pix[i] = mulDiv255(dst.Pix[i], src.AlphaAt(x, y).A)
		}
	}
}
