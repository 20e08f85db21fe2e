package tiv

import "math/bits"

// GlyphMatch is the glyph and colors chosen for one cell. FG colors the set
// bits of the glyph as drawn, BG the rest.
type GlyphMatch struct {
	Rune rune
	FG   RGB
	BG   RGB
}

// CellAnalysis holds the bi-level split of one cell.
type CellAnalysis struct {
	Min, Max [3]int

	// SplitChannel is the channel (0=R, 1=G, 2=B) with the widest range.
	// Pixels whose value on it exceeds Threshold are foreground.
	SplitChannel int
	Threshold    int

	// Bits has one bit per pixel, row-major, most significant bit first.
	Bits uint32

	FGSum, BGSum     [3]int
	FGCount, BGCount int
}

// FG returns the average foreground color, or black if no pixel is
// foreground.
func (a *CellAnalysis) FG() RGB {
	return average(a.FGSum, a.FGCount)
}

// BG returns the average background color, or black if no pixel is
// background.
func (a *CellAnalysis) BG() RGB {
	return average(a.BGSum, a.BGCount)
}

func average(sum [3]int, n int) RGB {
	if n == 0 {
		return rgbFromSums(sum)
	}
	return rgbFromSums([3]int{sum[0] / n, sum[1] / n, sum[2] / n})
}

// Scan splits the 4x8 cell starting at byte offset in pix into foreground
// and background pixels. stride is the byte length of one row of the
// buffer; each pixel is 4 bytes with the fourth ignored.
func Scan(pix []byte, offset, stride int) CellAnalysis {
	a := CellAnalysis{Min: [3]int{255, 255, 255}}

	for y := 0; y < CellHeight; y++ {
		row := pix[offset+y*stride : offset+y*stride+CellWidth*4]
		for x := 0; x < CellWidth*4; x += 4 {
			for i := 0; i < 3; i++ {
				v := int(row[x+i])
				a.Min[i] = min(a.Min[i], v)
				a.Max[i] = max(a.Max[i], v)
			}
		}
	}

	bestRange := 0
	for i := 0; i < 3; i++ {
		if r := a.Max[i] - a.Min[i]; r > bestRange {
			bestRange = r
			a.SplitChannel = i
		}
	}
	a.Threshold = a.Min[a.SplitChannel] + bestRange/2

	for y := 0; y < CellHeight; y++ {
		row := pix[offset+y*stride : offset+y*stride+CellWidth*4]
		for x := 0; x < CellWidth*4; x += 4 {
			a.Bits <<= 1
			sum := &a.BGSum
			if int(row[x+a.SplitChannel]) > a.Threshold {
				a.Bits |= 1
				a.FGCount++
				sum = &a.FGSum
			} else {
				a.BGCount++
			}
			sum[0] += int(row[x])
			sum[1] += int(row[x+1])
			sum[2] += int(row[x+2])
		}
	}
	return a
}

// Match finds the template closest to cellBits by Hamming distance, trying
// each template and then its complement. Only a strictly smaller distance
// replaces the current best, so earlier templates win ties and a template
// beats its own complement. inverted reports whether the complement won.
func Match(cellBits uint32) (r rune, distance int, inverted bool) {
	distance = 33
	for _, t := range Templates {
		if d := bits.OnesCount32(t.Pattern ^ cellBits); d < distance {
			r, distance, inverted = t.Rune, d, false
		}
		if d := bits.OnesCount32(^t.Pattern ^ cellBits); d < distance {
			r, distance, inverted = t.Rune, d, true
		}
	}
	return r, distance, inverted
}

// Analyze picks the glyph and colors for the 4x8 cell starting at byte
// offset in pix. When no template is within maxTemplateDistance bits, a
// shade glyph proportional to the foreground coverage is used instead.
func Analyze(pix []byte, offset, stride int) GlyphMatch {
	a := Scan(pix, offset, stride)
	fg, bg := a.FG(), a.BG()

	r, distance, inverted := Match(a.Bits)
	if distance > maxTemplateDistance {
		return GlyphMatch{Rune: Shades[shadeIndex(a.FGCount)], FG: fg, BG: bg}
	}
	if inverted {
		fg, bg = bg, fg
	}
	return GlyphMatch{Rune: r, FG: fg, BG: bg}
}
