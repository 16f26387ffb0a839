// Package render rasterizes label layouts into images.
package render

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/fogleman/gg"

	"github.com/jwalters/qslpress/internal/label"
)

// fontSpec names the font file and point size used for a block role.
type fontSpec struct {
	file string
	bold string // bold variant; empty when the role never renders bold
	size float64
}

// Font files and sizes per block role. The barcode "font" is the USPS
// Intelligent Mail glyph set, which turns the A/D/F/T payload into bars.
var fonts = map[label.Role]fontSpec{
	label.RoleContactDetail: {file: "Inconsolata-Regular.ttf", bold: "Inconsolata-Bold.ttf", size: 60},
	label.RoleRecipientName: {file: "Inconsolata-Regular.ttf", bold: "Inconsolata-Bold.ttf", size: 55},
	label.RoleAddress:       {file: "Inconsolata-Regular.ttf", bold: "Inconsolata-Bold.ttf", size: 50},
}

const (
	barcodeFont     = "USPSIMBStandard.ttf"
	barcodeFontSize = 54
	lineSpacing     = 1.2
)

// LabelRenderer draws label layouts onto a white canvas using the
// configured font directory.
type LabelRenderer struct {
	fontDir string
}

// NewLabelRenderer creates a new LabelRenderer.
func NewLabelRenderer(fontDir string) *LabelRenderer {
	return &LabelRenderer{fontDir: fontDir}
}

// Render rasterizes one layout. Block coordinates are already in pixels;
// the renderer only loads fonts and draws.
func (r *LabelRenderer) Render(l label.Layout) (image.Image, error) {
	dc := gg.NewContext(l.Width, l.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	for _, block := range l.Blocks {
		spec, ok := fonts[block.Role]
		if !ok {
			return nil, fmt.Errorf("no font configured for block role %q", block.Role)
		}

		file := spec.file
		if block.Weight == label.WeightBold && spec.bold != "" {
			file = spec.bold
		}
		if err := dc.LoadFontFace(filepath.Join(r.fontDir, file), spec.size); err != nil {
			return nil, fmt.Errorf("failed to load font %s: %w", file, err)
		}

		drawLines(dc, block.Lines, float64(block.X), float64(block.Y), spec.size)
	}

	if l.Barcode != nil {
		if err := dc.LoadFontFace(filepath.Join(r.fontDir, barcodeFont), barcodeFontSize); err != nil {
			return nil, fmt.Errorf("failed to load barcode font: %w", err)
		}
		dc.DrawString(l.Barcode.Payload, float64(l.Barcode.X), float64(l.Barcode.Y))
	}

	return dc.Image(), nil
}

// drawLines draws successive lines below the first baseline.
func drawLines(dc *gg.Context, lines []string, x, y, size float64) {
	for i, line := range lines {
		if line == "" {
			continue
		}
		dc.DrawString(line, x, y+float64(i)*size*lineSpacing)
	}
}

// Rotate90 returns the image rotated a quarter turn clockwise, which is
// how the label printer expects the long edge fed.
func Rotate90(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(b.Max.Y-1-y, x-b.Min.X, src.At(x, y))
		}
	}
	return dst
}
