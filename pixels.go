package tiv

import (
	"image"
	"image/draw"
)

// PixelBuffer is a width x height grid of 4-byte pixels (R, G, B, unused).
// Row y starts at Pix[y*Stride]. The renderer only reads it.
type PixelBuffer struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
}

// NewPixelBuffer allocates a zeroed (black) buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Pix:    make([]byte, width*height*4),
		Width:  width,
		Height: height,
		Stride: width * 4,
	}
}

// PixelBufferFromImage returns a buffer holding img's pixels. An
// *image.RGBA anchored at the origin is shared rather than copied.
func PixelBufferFromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return &PixelBuffer{Pix: rgba.Pix, Width: b.Dx(), Height: b.Dy(), Stride: rgba.Stride}
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &PixelBuffer{Pix: rgba.Pix, Width: b.Dx(), Height: b.Dy(), Stride: rgba.Stride}
}

// Set stores c at (x, y). It is meant for building buffers, not for use
// while a render is in progress.
func (p *PixelBuffer) Set(x, y int, c RGB) {
	i := y*p.Stride + x*4
	p.Pix[i], p.Pix[i+1], p.Pix[i+2] = c.R, c.G, c.B
}

// At returns the color at (x, y).
func (p *PixelBuffer) At(x, y int) RGB {
	i := y*p.Stride + x*4
	return RGB{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2]}
}

// Columns returns the number of whole cells across the buffer.
func (p *PixelBuffer) Columns() int {
	return p.Width / CellWidth
}

// Rows returns the number of whole cells down the buffer.
func (p *PixelBuffer) Rows() int {
	return p.Height / CellHeight
}

// cellOffset returns the byte offset of the top-left pixel of cell
// (col, row).
func (p *PixelBuffer) cellOffset(col, row int) int {
	return row*CellHeight*p.Stride + col*CellWidth*4
}
