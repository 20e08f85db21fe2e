// Command glyphaudit rasterizes the glyph templates with a TrueType font and
// reports how far each drawn glyph is from the bitmap the matcher assumes.
package main

import (
	"bytes"
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"math/bits"
	"os"
	"text/tabwriter"

	"github.com/klauspost/compress/gzip"
	"github.com/wbrown/tiv"
)

// GlyphAudit compares one template with the font's rendering of its rune.
type GlyphAudit struct {
	Rune     rune
	Template uint32
	Drawn    uint32
	Distance int
	Missing  bool
}

// AuditData is the saved form of an audit.
type AuditData struct {
	FontName string
	Glyphs   []GlyphAudit
}

// auditFont rasterizes every template rune with face.
func auditFont(face *tiv.FontFace) *AuditData {
	data := &AuditData{FontName: face.Name()}
	for _, t := range tiv.Templates {
		drawn := face.Bitmap(t.Rune)
		data.Glyphs = append(data.Glyphs, GlyphAudit{
			Rune:     t.Rune,
			Template: t.Pattern,
			Drawn:    drawn,
			Distance: bits.OnesCount32(t.Pattern ^ drawn),
			Missing:  !face.HasGlyph(t.Rune),
		})
	}
	return data
}

// writeReport prints one line per glyph, worst matches flagged.
func writeReport(w io.Writer, data *AuditData, maxDistance int) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "font: %s\n", data.FontName)
	fmt.Fprintln(tw, "rune\tcode\ttemplate\tdrawn\tdistance\t")
	for _, g := range data.Glyphs {
		note := ""
		switch {
		case g.Missing:
			note = "missing"
		case g.Distance > maxDistance:
			note = "mismatch"
		}
		fmt.Fprintf(tw, "%c\t%U\t%08x\t%08x\t%d\t%s\n",
			g.Rune, g.Rune, g.Template, g.Drawn, g.Distance, note)
	}
	return tw.Flush()
}

// saveAuditData writes data as gzip-compressed gob.
func saveAuditData(data *AuditData, outputPath string) error {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)

	if err := enc.Encode(data); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode data: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to close gzip: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// loadAuditData reads a file written by saveAuditData.
func loadAuditData(path string) (*AuditData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip: %w", err)
	}
	defer gz.Close()

	var data AuditData
	if err := gob.NewDecoder(gz).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	return &data, nil
}

func main() {
	fontPath := flag.String("font", "", "Path to a TTF font (default: embedded Go Mono)")
	outputFile := flag.String("output", "", "Optional path to save the audit as gzip-compressed gob")
	maxDistance := flag.Int("max", 4, "Distance above which a glyph is flagged")
	flag.Parse()

	log.SetPrefix("glyphaudit: ")
	log.SetFlags(0)

	face, err := tiv.LoadFont(*fontPath, 1)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}

	data := auditFont(face)
	if err := writeReport(os.Stdout, data, *maxDistance); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	if *outputFile != "" {
		if err := saveAuditData(data, *outputFile); err != nil {
			log.Fatalf("Failed to save audit: %v", err)
		}
		log.Printf("Saved %d glyphs to %s", len(data.Glyphs), *outputFile)
	}
}
