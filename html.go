package tiv

import "strconv"

// htmlStyle returns the inline style for a cell.
func htmlStyle(m GlyphMatch) string {
	return "background-color:" + m.BG.Hex() + ";color:" + m.FG.Hex()
}

// appendHTMLRow appends one row of cells as HTML. Runs of cells with the
// same colors share a <tt> span, and every glyph is written as a numeric
// character reference.
func appendHTMLRow(dst []byte, row []GlyphMatch) []byte {
	last := ""
	for _, m := range row {
		if style := htmlStyle(m); style != last {
			if last != "" {
				dst = append(dst, "</tt>"...)
			}
			dst = append(dst, "<tt style='"...)
			dst = append(dst, style...)
			dst = append(dst, "'>"...)
			last = style
		}
		dst = appendCharRef(dst, m.Rune)
	}
	return append(dst, "</tt><br />\n"...)
}

// appendCharRef appends r as "&#xHHHH;" with at least four hex digits.
func appendCharRef(dst []byte, r rune) []byte {
	dst = append(dst, "&#x"...)
	for n := len(strconv.FormatInt(int64(r), 16)); n < 4; n++ {
		dst = append(dst, '0')
	}
	dst = strconv.AppendInt(dst, int64(r), 16)
	return append(dst, ';')
}
