package tiv

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// alphaThreshold is the coverage above which a rasterized pixel counts as
// set (25%).
const alphaThreshold = 64

// FontFace draws glyphs into PNG previews. Each cell is drawn as a
// 8*scale x 16*scale pixel rectangle, keeping the 1:2 shape of a 4x8 cell.
type FontFace struct {
	font  *truetype.Font
	name  string
	scale int
}

// ParseFont builds a FontFace from TrueType data.
func ParseFont(data []byte, name string, scale int) (*FontFace, error) {
	f, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	return &FontFace{font: f, name: name, scale: max(1, scale)}, nil
}

// LoadFont reads a TrueType file. An empty path selects the embedded Go Mono
// font.
func LoadFont(path string, scale int) (*FontFace, error) {
	if path == "" {
		return ParseFont(gomono.TTF, "Go Mono", scale)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return ParseFont(data, path, scale)
}

// Name returns the font's file name or description.
func (f *FontFace) Name() string {
	return f.name
}

// CellSize returns the pixel size of one drawn cell.
func (f *FontFace) CellSize() (width, height int) {
	return 2 * CellWidth * f.scale, 2 * CellHeight * f.scale
}

// baseline returns the distance from the top of a cell of the given height
// to the text baseline, centering ascent and descent in the cell.
func (f *FontFace) baseline(size float64) int {
	face := truetype.NewFace(f.font, &truetype.Options{Size: size, DPI: 72})
	defer face.Close()
	m := face.Metrics()
	return (int(size) + m.Ascent.Ceil() - m.Descent.Ceil()) / 2
}

// drawCell fills the cell at (x, y) with bg and draws r over it in fg.
func (f *FontFace) drawCell(img *image.RGBA, x, y int, r rune, fg, bg RGB) {
	w, h := f.CellSize()
	cell := image.Rect(x, y, x+w, y+h)
	draw.Draw(img, cell, image.NewUniform(bg.ToColor()), image.Point{}, draw.Src)

	size := float64(h)
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f.font)
	ctx.SetFontSize(size)
	ctx.SetClip(cell)
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(fg.ToColor()))
	ctx.SetHinting(font.HintingFull)
	// A rune missing from the font draws nothing, leaving the background.
	_, _ = ctx.DrawString(string(r), freetype.Pt(x, y+f.baseline(size)))
}

// Bitmap rasterizes r into a 4x8 cell and packs it like a template
// pattern: row-major, most significant bit first.
func (f *FontFace) Bitmap(r rune) uint32 {
	img := image.NewAlpha(image.Rect(0, 0, CellWidth, CellHeight))

	size := float64(CellHeight)
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f.font)
	ctx.SetFontSize(size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.Opaque)
	ctx.SetHinting(font.HintingFull)
	_, _ = ctx.DrawString(string(r), freetype.Pt(0, f.baseline(size)))

	var bitmap uint32
	for y := 0; y < CellHeight; y++ {
		for x := 0; x < CellWidth; x++ {
			bitmap <<= 1
			if img.AlphaAt(x, y).A > alphaThreshold {
				bitmap |= 1
			}
		}
	}
	return bitmap
}

// HasGlyph reports whether the font maps r to a glyph.
func (f *FontFace) HasGlyph(r rune) bool {
	return f.font.Index(r) != 0
}
