package tiv

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// rgbFromSums builds an RGB from integer channel values that are already
// known to lie in [0,255].
func rgbFromSums(c [3]int) RGB {
	return RGB{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2])}
}

// ToColor converts RGB to an opaque color.RGBA.
func (c RGB) ToColor() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex returns the color as a lowercase "#rrggbb" string.
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// blend mixes fg over bg with the given foreground weight in [0,1].
func blend(fg, bg RGB, weight float64) RGB {
	mix := func(f, b uint8) uint8 {
		return uint8(float64(f)*weight + float64(b)*(1-weight) + 0.5)
	}
	return RGB{R: mix(fg.R, bg.R), G: mix(fg.G, bg.G), B: mix(fg.B, bg.B)}
}
