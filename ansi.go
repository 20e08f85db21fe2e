package tiv

import "unicode/utf8"

const (
	ESC = "\u001b"

	// Reset clears all SGR attributes.
	Reset = ESC + "[0m"
)

// appendTerminalRow appends one row of cells as ANSI text. A color
// sequence is written only when it differs from the one before it in the
// same row; the row ends with a reset and a newline.
func appendTerminalRow(dst []byte, row []GlyphMatch, mode ColorMode) []byte {
	var lastFG, lastBG Color
	for i, m := range row {
		fg := Quantize(false, mode, int(m.FG.R), int(m.FG.G), int(m.FG.B))
		bg := Quantize(true, mode, int(m.BG.R), int(m.BG.G), int(m.BG.B))
		if i == 0 || fg != lastFG {
			dst = fg.AppendEscape(dst)
			lastFG = fg
		}
		if i == 0 || bg != lastBG {
			dst = bg.AppendEscape(dst)
			lastBG = bg
		}
		dst = utf8.AppendRune(dst, m.Rune)
	}
	dst = append(dst, Reset...)
	return append(dst, '\n')
}
