package tiv

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"
)

// OutputKind selects the text format produced by a Renderer.
type OutputKind int

const (
	// OutputTerminal produces UTF-8 text with ANSI SGR color sequences.
	OutputTerminal OutputKind = iota
	// OutputHTML produces <tt> spans with inline styles.
	OutputHTML
)

// Renderer converts pixel buffers to glyph text. A Renderer is not modified
// by rendering and may be shared between goroutines.
type Renderer struct {
	// Configuration options
	ColorMode ColorMode
	Output    OutputKind
	Workers   int

	// PNG preview font (nil = geometric rendering)
	font *FontFace
}

// RendererOption is a functional option for configuring a Renderer.
type RendererOption func(*Renderer)

// NewRenderer creates a new Renderer with the given options.
// Default values: ColorMode=TrueColor, Output=OutputTerminal, Workers=1.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		ColorMode: TrueColor,
		Output:    OutputTerminal,
		Workers:   1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithColorMode sets the terminal color encoding.
func WithColorMode(mode ColorMode) RendererOption {
	return func(r *Renderer) {
		r.ColorMode = mode
	}
}

// WithOutput sets the output format.
func WithOutput(kind OutputKind) RendererOption {
	return func(r *Renderer) {
		r.Output = kind
	}
}

// WithWorkers sets how many rows are analyzed concurrently. Output does not
// depend on it.
func WithWorkers(n int) RendererOption {
	return func(r *Renderer) {
		r.Workers = max(1, n)
	}
}

// WithFont makes RenderImage draw glyphs with face instead of painting
// template bitmaps.
func WithFont(face *FontFace) RendererOption {
	return func(r *Renderer) {
		r.font = face
	}
}

// Render converts buf to text using mode for terminal colors.
func Render(buf *PixelBuffer, mode ColorMode, kind OutputKind) string {
	return NewRenderer(WithColorMode(mode), WithOutput(kind)).Render(buf)
}

// Render converts buf to text. Trailing pixels that do not fill a whole
// 4x8 cell are ignored, so buffers narrower than 4 or shorter than 8
// pixels render as "".
func (r *Renderer) Render(buf *PixelBuffer) string {
	var sb strings.Builder
	// strings.Builder never returns a write error.
	_ = r.RenderTo(&sb, buf)
	return sb.String()
}

// RenderTo writes the text for buf to w, one row at a time. It returns the
// first write error.
func (r *Renderer) RenderTo(w io.Writer, buf *PixelBuffer) error {
	bw := bufio.NewWriter(w)
	var line []byte
	for _, row := range r.Cells(buf) {
		if r.Output == OutputHTML {
			line = appendHTMLRow(line[:0], row)
		} else {
			line = appendTerminalRow(line[:0], row, r.ColorMode)
		}
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Cells analyzes every whole cell of buf, returning rows of matches.
func (r *Renderer) Cells(buf *PixelBuffer) [][]GlyphMatch {
	if buf.Columns() == 0 {
		return nil
	}
	rows := make([][]GlyphMatch, buf.Rows())
	if r.Workers <= 1 || len(rows) < 2 {
		for y := range rows {
			rows[y] = analyzeRow(buf, y)
		}
		return rows
	}

	var g errgroup.Group
	g.SetLimit(r.Workers)
	for y := range rows {
		y := y
		g.Go(func() error {
			rows[y] = analyzeRow(buf, y)
			return nil
		})
	}
	// Row analysis cannot fail.
	_ = g.Wait()
	return rows
}

func analyzeRow(buf *PixelBuffer, row int) []GlyphMatch {
	cols := buf.Columns()
	matches := make([]GlyphMatch, cols)
	for x := 0; x < cols; x++ {
		matches[x] = Analyze(buf.Pix, buf.cellOffset(x, row), buf.Stride)
	}
	return matches
}
