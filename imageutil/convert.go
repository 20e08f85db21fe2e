package imageutil

import (
	"image"

	"github.com/disintegration/gift"
)

// ToGrayscale flattens an image to luminance using the BT.601 weights
// Y = 0.299*R + 0.587*G + 0.114*B. The result keeps the RGBA layout with
// R = G = B so it can be rendered like any other image.
func ToGrayscale(img *RGBAImage) *RGBAImage {
	g := gift.New(gift.Grayscale())
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img.RGBA)
	return &RGBAImage{RGBA: dst}
}
