package paint

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/gogpu/paint/internal/dataurl"
	"github.com/gogpu/paint/internal/svgdoc"
)

// Format is a serialization format for Save and Export.
type Format string

const (
	FormatPNG Format = "png" // flattened raster
	FormatSVG Format = "svg" // one image element per layer
	FormatPDF Format = "pdf" // flattened raster on a page of the document size
)

func (f Format) mediaType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	}
	return ""
}

// Flatten composites every visible layer onto a transparent image of the
// document size, bottom layer first.
func (a *Area) Flatten() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, a.width, a.height))
	for i := len(a.layers) - 1; i >= 0; i-- {
		a.layers[i].CompositeOnto(dst)
	}
	return dst
}

// Export writes the document to w in format f.
func (a *Area) Export(w io.Writer, f Format) error {
	var err error
	switch f {
	case FormatPNG:
		err = encodePNG(w, a.Flatten())
	case FormatSVG:
		err = a.exportSVG(w)
	case FormatPDF:
		err = a.exportPDF(w)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("paint: export %s: %w", f, err)
	}
	return nil
}

// Save returns the document in format f as a base64 data URL.
func (a *Area) Save(f Format) (string, error) {
	var buf bytes.Buffer
	if err := a.Export(&buf, f); err != nil {
		return "", err
	}
	Logger().Info("paint: document saved", "format", f, "bytes", buf.Len(), "layers", len(a.layers))
	return dataurl.Encode(f.mediaType(), buf.Bytes()), nil
}

func (a *Area) exportSVG(w io.Writer) error {
	doc := svgdoc.Document{Width: a.width, Height: a.height}
	for i := len(a.layers) - 1; i >= 0; i-- {
		l := a.layers[i]
		var buf bytes.Buffer
		if err := encodePNG(&buf, l.pix); err != nil {
			return err
		}
		size := l.pix.Rect.Size()
		doc.Images = append(doc.Images, svgdoc.Image{
			X:         l.x,
			Y:         l.y,
			Width:     size.X,
			Height:    size.Y,
			Href:      dataurl.Encode("image/png", buf.Bytes()),
			Opacity:   l.opacity,
			Hidden:    !l.visible,
			BlendMode: l.mode.String(),
		})
	}
	return svgdoc.Encode(w, doc)
}

func (a *Area) exportPDF(w io.Writer) error {
	var buf bytes.Buffer
	if err := encodePNG(&buf, a.Flatten()); err != nil {
		return err
	}
	wd, ht := float64(max(a.width, 1)), float64(max(a.height, 1))
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("document", opt, &buf)
	pdf.ImageOptions("document", 0, 0, wd, ht, false, opt, 0, "")
	return pdf.Output(w)
}

// encodePNG writes img as PNG. An empty image is written as a single
// transparent pixel, since PNG cannot represent a zero-sized image.
func encodePNG(w io.Writer, img *image.RGBA) error {
	if img.Rect.Empty() {
		img = image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return png.Encode(w, img)
}
