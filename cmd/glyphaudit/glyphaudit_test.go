package main

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/wbrown/tiv"
)

func loadGoMono(t *testing.T) *tiv.FontFace {
	t.Helper()
	face, err := tiv.LoadFont("", 1)
	if err != nil {
		t.Fatalf("Failed to load embedded font: %v", err)
	}
	return face
}

func TestAuditFont(t *testing.T) {
	data := auditFont(loadGoMono(t))
	if data.FontName != "Go Mono" {
		t.Errorf("Expected Go Mono, got %q", data.FontName)
	}
	if len(data.Glyphs) != len(tiv.Templates) {
		t.Fatalf("Expected %d glyphs, got %d", len(tiv.Templates), len(data.Glyphs))
	}

	// The no-break space draws nothing and matches its empty template.
	first := data.Glyphs[0]
	if first.Rune != '\u00a0' || first.Drawn != 0 || first.Distance != 0 {
		t.Errorf("no-break space audit = %+v", first)
	}
	for _, g := range data.Glyphs {
		if g.Distance < 0 || g.Distance > 32 {
			t.Errorf("%U: distance %d out of range", g.Rune, g.Distance)
		}
	}
}

func TestWriteReport(t *testing.T) {
	data := &AuditData{
		FontName: "test",
		Glyphs: []GlyphAudit{
			{Rune: '▄', Template: 0x0000ffff, Drawn: 0x0000ffff},
			{Rune: '▌', Template: 0xcccccccc, Drawn: 0x00000000, Distance: 16},
			{Rune: '▁', Template: 0x0000000f, Missing: true, Distance: 4},
		},
	}
	var sb strings.Builder
	if err := writeReport(&sb, data, 4); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d:\n%s", len(lines), sb.String())
	}
	if !strings.Contains(lines[0], "font: test") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Contains(lines[2], "mismatch") || !strings.Contains(lines[2], "U+2584") {
		t.Errorf("lower half line = %q", lines[2])
	}
	if !strings.HasSuffix(lines[3], "mismatch") {
		t.Errorf("left half line = %q", lines[3])
	}
	if !strings.HasSuffix(lines[4], "missing") {
		t.Errorf("lower eighth line = %q", lines[4])
	}
}

func TestSaveLoadAuditData(t *testing.T) {
	data := auditFont(loadGoMono(t))
	path := filepath.Join(t.TempDir(), "gomono.audit")
	if err := saveAuditData(data, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := loadAuditData(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(data, loaded) {
		t.Error("loaded audit differs from the saved one")
	}
}
