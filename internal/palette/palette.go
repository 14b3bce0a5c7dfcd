// Package palette decodes packed HSL colour palettes.
//
// A palette file is a sequence of records:
//
//	u16 name length (big endian)
//	u16 colour count (big endian)
//	name (UTF-8)
//	count x 3 bytes: H (9 bits), S (7 bits), L (7 bits), one spare bit
//
// Colours are stored last first. A truncated trailing record ends the file.
package palette

import (
	"encoding/binary"
	"io"
	"os"
)

// HSL is a palette entry: H in degrees, S and L in percent.
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// Palette is a named list of colours.
type Palette struct {
	Name   string `json:"name"`
	Colors []HSL  `json:"colors"`
}

// Decode parses every complete record in b.
func Decode(b []byte) []Palette {
	var ps []Palette
	for len(b) >= 4 {
		n := int(binary.BigEndian.Uint16(b))
		k := int(binary.BigEndian.Uint16(b[2:]))
		b = b[4:]
		if len(b) < n+3*k {
			break
		}
		p := Palette{Name: string(b[:n]), Colors: make([]HSL, k)}
		b = b[n:]
		for i := k - 1; i >= 0; i-- {
			p.Colors[i] = unpack(b[0], b[1], b[2])
			b = b[3:]
		}
		ps = append(ps, p)
	}
	return ps
}

func unpack(b0, b1, b2 byte) HSL {
	return HSL{
		H: int(b0)<<2 | int(b1)>>6,
		S: (int(b1)<<1 | int(b2)>>7) & 0x7f,
		L: int(b2) & 0x7f,
	}
}

// Read decodes a palette stream.
func Read(r io.Reader) ([]Palette, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(b), nil
}

// Load reads the palette file at path.
func Load(path string) ([]Palette, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(b), nil
}

// Encode packs ps in the file format. Values out of range are truncated to
// their bit widths.
func Encode(ps []Palette) []byte {
	var b []byte
	for _, p := range ps {
		b = binary.BigEndian.AppendUint16(b, uint16(len(p.Name)))
		b = binary.BigEndian.AppendUint16(b, uint16(len(p.Colors)))
		b = append(b, p.Name...)
		for i := len(p.Colors) - 1; i >= 0; i-- {
			c := p.Colors[i]
			h, s, l := c.H&0x1ff, c.S&0x7f, c.L&0x7f
			b = append(b, byte(h>>2), byte(h<<6|s>>1), byte(s<<7|l))
		}
	}
	return b
}
