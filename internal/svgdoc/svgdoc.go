// Package svgdoc reads and writes the multi-layer SVG container: an svg
// root holding one image element per layer, each embedding its pixels as a
// data URL.
package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	nsSVG   = "http://www.w3.org/2000/svg"
	nsXLink = "http://www.w3.org/1999/xlink"
)

// ErrNotSVG is returned by Decode when the root element is not svg.
var ErrNotSVG = errors.New("svgdoc: not an svg document")

// Document is a container. Images are in document order, bottom layer
// first.
type Document struct {
	Width, Height int
	Images        []Image
}

// Image is one layer of the container.
type Image struct {
	X, Y, Width, Height int
	Href                string
	Opacity             float64 // 1 when absent
	Hidden              bool
	BlendMode           string // mix-blend-mode; "" or "normal" is source-over
}

type svgOut struct {
	XMLName xml.Name   `xml:"svg"`
	Xmlns   string     `xml:"xmlns,attr"`
	XLink   string     `xml:"xmlns:xlink,attr"`
	Width   int        `xml:"width,attr"`
	Height  int        `xml:"height,attr"`
	Style   string     `xml:"style,attr"`
	Images  []imageOut `xml:"image"`
}

type imageOut struct {
	Href       string `xml:"xlink:href,attr"`
	X          int    `xml:"x,attr"`
	Y          int    `xml:"y,attr"`
	Width      int    `xml:"width,attr"`
	Height     int    `xml:"height,attr"`
	Opacity    string `xml:"opacity,attr,omitempty"`
	Visibility string `xml:"visibility,attr,omitempty"`
	Style      string `xml:"style,attr,omitempty"`
}

// Encode writes d to w. The root is isolated so that layer blend modes do
// not mix with whatever page the document is embedded in.
func Encode(w io.Writer, d Document) error {
	doc := svgOut{
		Xmlns:  nsSVG,
		XLink:  nsXLink,
		Width:  d.Width,
		Height: d.Height,
		Style:  "isolation:isolate",
		Images: make([]imageOut, len(d.Images)),
	}
	for i, img := range d.Images {
		o := imageOut{Href: img.Href, X: img.X, Y: img.Y, Width: img.Width, Height: img.Height}
		if img.Opacity != 1 {
			o.Opacity = strconv.FormatFloat(img.Opacity, 'g', -1, 64)
		}
		if img.Hidden {
			o.Visibility = "hidden"
		}
		if img.BlendMode != "" && img.BlendMode != "normal" {
			o.Style = "mix-blend-mode:" + img.BlendMode
		}
		doc.Images[i] = o
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("svgdoc: encode: %w", err)
	}
	return enc.Close()
}

type svgIn struct {
	XMLName xml.Name
	Width   string    `xml:"width,attr"`
	Height  string    `xml:"height,attr"`
	Images  []imageIn `xml:"image"`
}

// href matches both xlink:href and the SVG 2 bare href.
type imageIn struct {
	Href       string `xml:"href,attr"`
	X          string `xml:"x,attr"`
	Y          string `xml:"y,attr"`
	Width      string `xml:"width,attr"`
	Height     string `xml:"height,attr"`
	Opacity    string `xml:"opacity,attr"`
	Visibility string `xml:"visibility,attr"`
	Style      string `xml:"style,attr"`
}

// Decode parses a container. Missing or malformed numeric attributes read
// as zero, and a missing opacity as 1.
func Decode(r io.Reader) (Document, error) {
	var in svgIn
	if err := xml.NewDecoder(r).Decode(&in); err != nil {
		return Document{}, fmt.Errorf("svgdoc: decode: %w", err)
	}
	if in.XMLName.Local != "svg" {
		return Document{}, ErrNotSVG
	}
	d := Document{Width: parseInt(in.Width), Height: parseInt(in.Height)}
	for _, e := range in.Images {
		img := Image{
			X:         parseInt(e.X),
			Y:         parseInt(e.Y),
			Width:     parseInt(e.Width),
			Height:    parseInt(e.Height),
			Href:      strings.TrimSpace(e.Href),
			Opacity:   1,
			Hidden:    e.Visibility == "hidden",
			BlendMode: styleValue(e.Style, "mix-blend-mode"),
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(e.Opacity), 64); err == nil && !math.IsNaN(v) {
			img.Opacity = min(max(v, 0), 1)
		}
		d.Images = append(d.Images, img)
	}
	return d, nil
}

// parseInt reads the leading integer of a length such as "120" or "120.5px".
func parseInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] == '-' || s[end] == '+' || s[end] == '.' || s[end] >= '0' && s[end] <= '9') {
		end++
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return int(v)
}

func styleValue(style, prop string) string {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == prop {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
