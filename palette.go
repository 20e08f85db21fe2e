package tiv

import (
	"math"
	"slices"
	"strconv"
)

// ColorMode selects how colors are encoded in terminal output.
type ColorMode int

const (
	// TrueColor emits 24-bit colors unchanged.
	TrueColor ColorMode = iota
	// Palette256 maps colors onto the xterm 6x6x6 cube and grayscale ramp.
	Palette256
)

// String returns the flag spelling of the mode.
func (m ColorMode) String() string {
	switch m {
	case TrueColor:
		return "24bit"
	case Palette256:
		return "256"
	}
	return "ColorMode(" + strconv.Itoa(int(m)) + ")"
}

const (
	cubeBase = 16
	grayBase = 232
)

// cubeSteps are the per-channel levels of the xterm color cube
// (indices 16-231).
var cubeSteps = [6]int{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}

// graySteps are the levels of the xterm grayscale ramp (indices 232-255).
var graySteps = [24]int{
	0x08, 0x12, 0x1c, 0x26, 0x30, 0x3a, 0x44, 0x4e, 0x58, 0x62, 0x6c, 0x76,
	0x80, 0x8a, 0x94, 0x9e, 0xa8, 0xb2, 0xbc, 0xc6, 0xd0, 0xda, 0xe4, 0xee,
}

// basicColors approximates the first 16 xterm palette entries (VGA).
var basicColors = [16]RGB{
	{0x00, 0x00, 0x00}, {0xaa, 0x00, 0x00}, {0x00, 0xaa, 0x00}, {0xaa, 0x55, 0x00},
	{0x00, 0x00, 0xaa}, {0xaa, 0x00, 0xaa}, {0x00, 0xaa, 0xaa}, {0xaa, 0xaa, 0xaa},
	{0x55, 0x55, 0x55}, {0xff, 0x55, 0x55}, {0x55, 0xff, 0x55}, {0xff, 0xff, 0x55},
	{0x55, 0x55, 0xff}, {0xff, 0x55, 0xff}, {0x55, 0xff, 0xff}, {0xff, 0xff, 0xff},
}

// Color is a quantized terminal color. In TrueColor mode RGB holds the
// color; in Palette256 mode Index holds the xterm palette index. Two Colors
// compare equal exactly when they produce the same escape sequence.
type Color struct {
	Background bool
	Mode       ColorMode
	Index      uint8
	RGB        RGB
}

// Quantize maps r, g, b onto the output color space of mode. Channels are
// clamped to [0,255] first, so every input is accepted.
//
// In Palette256 mode each channel is snapped to the nearest cube level, and
// the luma is snapped to the nearest grayscale ramp step. Whichever of the
// two candidates has the smaller weighted squared error wins. The errors are
// summed in floating point, channel by channel, and the gray candidate wins
// unless the cube sum is strictly lower.
func Quantize(isBackground bool, mode ColorMode, r, g, b int) Color {
	r, g, b = clampChannel(r), clampChannel(g), clampChannel(b)
	c := Color{Background: isBackground, Mode: mode}
	if mode != Palette256 {
		c.Mode = TrueColor
		c.RGB = RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
		return c
	}

	ri := nearestStep(r, cubeSteps[:])
	gi := nearestStep(g, cubeSteps[:])
	bi := nearestStep(b, cubeSteps[:])

	luma := int(math.RoundToEven(float64(0.2989*float64(r)) + float64(0.5870*float64(g)) + float64(0.1140*float64(b))))
	grayIdx := nearestStep(luma, graySteps[:])
	gray := graySteps[grayIdx]

	cubeErr := weightedError(r, g, b, cubeSteps[ri], cubeSteps[gi], cubeSteps[bi])
	grayErr := weightedError(r, g, b, gray, gray, gray)
	if cubeErr < grayErr {
		c.Index = uint8(cubeBase + 36*ri + 6*gi + bi)
	} else {
		c.Index = uint8(grayBase + grayIdx)
	}
	return c
}

// nearestStep returns the index of the step closest to v. The search finds
// the first step >= v and moves down one only when the lower step is
// strictly closer, so a value halfway between two steps maps to the upper
// one. steps must be sorted ascending.
func nearestStep(v int, steps []int) int {
	i, _ := slices.BinarySearch(steps, v)
	if i == len(steps) || (i > 0 && v-steps[i-1] < steps[i]-v) {
		i--
	}
	return i
}

// weightedError is the perceptually weighted squared distance between two
// colors. Differences are squared as integers and each weighted term is
// rounded on its own, so equal integer distances tie or break the same way
// on every platform.
func weightedError(r, g, b, qr, qg, qb int) float64 {
	dr, dg, db := qr-r, qg-g, qb-b
	return float64(0.3*float64(dr*dr)) + float64(0.59*float64(dg*dg)) + float64(0.11*float64(db*db))
}

func clampChannel(v int) int {
	return max(0, min(255, v))
}

// Resolve returns the RGB value the terminal displays for c.
func (c Color) Resolve() RGB {
	if c.Mode != Palette256 {
		return c.RGB
	}
	return paletteRGB(c.Index)
}

// paletteRGB returns the nominal xterm color of a 256-color index.
func paletteRGB(index uint8) RGB {
	switch {
	case index < cubeBase:
		return basicColors[index]
	case index >= grayBase:
		v := uint8(graySteps[index-grayBase])
		return RGB{v, v, v}
	}
	n := int(index) - cubeBase
	return RGB{
		R: uint8(cubeSteps[n/36]),
		G: uint8(cubeSteps[n/6%6]),
		B: uint8(cubeSteps[n%6]),
	}
}

// Escape returns the SGR escape sequence selecting c.
func (c Color) Escape() string {
	return string(c.AppendEscape(nil))
}

// AppendEscape appends the SGR escape sequence selecting c to dst.
func (c Color) AppendEscape(dst []byte) []byte {
	dst = append(dst, ESC...)
	if c.Background {
		dst = append(dst, "[48;"...)
	} else {
		dst = append(dst, "[38;"...)
	}
	if c.Mode == Palette256 {
		dst = append(dst, "5;"...)
		dst = strconv.AppendUint(dst, uint64(c.Index), 10)
	} else {
		dst = append(dst, "2;"...)
		dst = strconv.AppendUint(dst, uint64(c.RGB.R), 10)
		dst = append(dst, ';')
		dst = strconv.AppendUint(dst, uint64(c.RGB.G), 10)
		dst = append(dst, ';')
		dst = strconv.AppendUint(dst, uint64(c.RGB.B), 10)
	}
	return append(dst, 'm')
}
