package tiv

const (
	// CellWidth and CellHeight are the source pixel dimensions of one
	// output character.
	CellWidth  = 4
	CellHeight = 8

	// maxTemplateDistance is the largest Hamming distance accepted for a
	// template match before falling back to a shade glyph.
	maxTemplateDistance = 10
)

// GlyphTemplate pairs a 4x8 bitmap with the character that draws it. Bits
// are row-major, most significant bit first: bit 31 is the top-left pixel
// and bit 0 the bottom-right one. A set bit is drawn in the foreground color.
type GlyphTemplate struct {
	Pattern uint32
	Rune    rune
}

// Templates is the glyph library searched by Match, in search order. Each
// pattern is also tried inverted, so shapes whose complement is already in
// the table (upper half, full block, three-quadrant blocks) are left out.
// Several shapes appear more than once; the first entry wins.
var Templates = [...]GlyphTemplate{
	{0x00000000, '\u00a0'}, // no-break space

	// Block graphics
	{0x0000000f, '▁'}, // lower 1/8
	{0x000000ff, '▂'}, // lower 1/4
	{0x00000fff, '▃'},
	{0x0000ffff, '▄'}, // lower 1/2
	{0x000fffff, '▅'},
	{0x00ffffff, '▆'}, // lower 3/4
	{0x0fffffff, '▇'},

	{0xeeeeeeee, '▊'}, // left 3/4
	{0xcccccccc, '▌'}, // left 1/2
	{0x88888888, '▎'}, // left 1/4

	{0x0000cccc, '▖'}, // quadrant lower left
	{0x00003333, '▗'}, // quadrant lower right
	{0xcccc0000, '▘'}, // quadrant upper left
	{0xcccc3333, '▚'}, // diagonal 1/2
	{0x33330000, '▝'}, // quadrant upper right

	// Line drawing. Light lines come in two offsets because a 4x8 cell
	// has no center row or column.
	{0x000ff000, '━'}, // heavy horizontal
	{0x66666666, '┃'}, // heavy vertical

	{0x00077666, '┏'}, // heavy down and right
	{0x000ee666, '┓'}, // heavy down and left
	{0x66677000, '┗'}, // heavy up and right
	{0x666ee000, '┛'}, // heavy up and left

	{0x66677666, '┣'}, // heavy vertical and right
	{0x666ee666, '┫'}, // heavy vertical and left
	{0x000ff666, '┳'}, // heavy down and horizontal
	{0x666ff000, '┻'}, // heavy up and horizontal
	{0x666ff666, '╋'}, // heavy cross

	{0x000cc000, '╸'}, // heavy left
	{0x00066000, '╹'}, // heavy up
	{0x00033000, '╺'}, // heavy right
	{0x00066000, '╻'}, // heavy down

	{0x06600660, '╏'}, // heavy double dash vertical

	{0x000f0000, '─'}, // light horizontal
	{0x0000f000, '─'},
	{0x44444444, '│'}, // light vertical
	{0x22222222, '│'},

	{0x000e0000, '╴'}, // light left
	{0x0000e000, '╴'},
	{0x44440000, '╵'}, // light up
	{0x22220000, '╵'},
	{0x00030000, '╶'}, // light right
	{0x00003000, '╶'},
	// U+2577, not U+2575: PNG previews redraw a cell from its rune, and
	// U+2575 maps back to the upward stroke.
	{0x00004444, '╷'}, // light down
	{0x00002222, '╷'},

	// Misc technical
	{0x44444444, '⎢'}, // [ extension
	{0x22222222, '⎥'}, // ] extension

	{0x0f000000, '⎺'}, // horizontal scan line 1
	{0x00f00000, '⎻'}, // horizontal scan line 3
	{0x00000f00, '⎼'}, // horizontal scan line 7
	{0x000000f0, '⎽'}, // horizontal scan line 9

	// Geometric shapes
	{0x00066000, '▪'}, // black small square
}

// Shades is the coverage ramp used when no template is close enough:
// empty, light, medium, dark, full.
var Shades = [5]rune{' ', '░', '▒', '▓', '█'}

// shadeWeights is the share of the cell each Shades entry paints in the
// foreground color.
var shadeWeights = [5]float64{0, 0.25, 0.5, 0.75, 1}

// shadeIndex picks the Shades entry for a cell with fgCount foreground
// pixels out of 32.
func shadeIndex(fgCount int) int {
	return min(4, fgCount*5/32)
}

// patternForRune returns the bitmap drawn by r and the foreground weight to
// use when r is a shade. ok is false for runes outside the glyph library.
func patternForRune(r rune) (pattern uint32, weight float64, ok bool) {
	for _, t := range Templates {
		if t.Rune == r {
			return t.Pattern, 0, true
		}
	}
	for i, s := range Shades {
		if s == r {
			return 0, shadeWeights[i], true
		}
	}
	return 0, 0, false
}
