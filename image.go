package tiv

import (
	"image"
	"image/png"
	"io"
)

// RenderImage rasterizes the glyphs chosen for buf, with colors as the
// terminal would show them in the renderer's color mode. Without a font
// each cell is painted from its template bitmap at 4x8 pixels, and shade
// glyphs are painted as a blend of their two colors.
func (r *Renderer) RenderImage(buf *PixelBuffer) *image.RGBA {
	rows := r.Cells(buf)
	cellW, cellH := CellWidth, CellHeight
	if r.font != nil {
		cellW, cellH = r.font.CellSize()
	}

	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	img := image.NewRGBA(image.Rect(0, 0, cols*cellW, len(rows)*cellH))

	for y, row := range rows {
		for x, m := range row {
			fg := Quantize(false, r.ColorMode, int(m.FG.R), int(m.FG.G), int(m.FG.B)).Resolve()
			bg := Quantize(true, r.ColorMode, int(m.BG.R), int(m.BG.G), int(m.BG.B)).Resolve()
			if r.font != nil {
				r.font.drawCell(img, x*cellW, y*cellH, m.Rune, fg, bg)
			} else {
				drawBlock(img, x*cellW, y*cellH, m.Rune, fg, bg)
			}
		}
	}
	return img
}

// WritePNG encodes RenderImage(buf) as PNG to w.
func (r *Renderer) WritePNG(w io.Writer, buf *PixelBuffer) error {
	return png.Encode(w, r.RenderImage(buf))
}

// drawBlock paints the 4x8 bitmap of glyph at (x, y). Runes outside the
// glyph library are painted as background.
func drawBlock(img *image.RGBA, x, y int, glyph rune, fg, bg RGB) {
	pattern, weight, _ := patternForRune(glyph)
	off := blend(fg, bg, weight).ToColor()
	on := fg.ToColor()

	bit := uint32(1) << 31
	for dy := 0; dy < CellHeight; dy++ {
		for dx := 0; dx < CellWidth; dx++ {
			if pattern&bit != 0 {
				img.SetRGBA(x+dx, y+dy, on)
			} else {
				img.SetRGBA(x+dx, y+dy, off)
			}
			bit >>= 1
		}
	}
}
