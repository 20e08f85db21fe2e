package imageutil

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xfmoulet/qoi"
)

func TestNewRGBAImage(t *testing.T) {
	img := NewRGBAImage(100, 50)
	if img.Width() != 100 {
		t.Errorf("Expected width 100, got %d", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Expected height 50, got %d", img.Height())
	}
}

func TestRGBAImageGetSetRGB(t *testing.T) {
	img := NewRGBAImage(10, 10)
	c := RGB{R: 100, G: 150, B: 200}
	img.SetRGB(5, 5, c)

	got := img.GetRGB(5, 5)
	if got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}
}

func TestRGBAImageFromImageRebasesOrigin(t *testing.T) {
	src := CreateColorBarsImage(16, 4)
	sub := src.SubImage(image.Rect(2, 1, 10, 3))

	got := RGBAImageFromImage(sub)
	if got.Bounds().Min != (image.Point{}) {
		t.Fatalf("Expected origin-anchored bounds, got %v", got.Bounds())
	}
	if got.Width() != 8 || got.Height() != 2 {
		t.Fatalf("Expected 8x2, got %dx%d", got.Width(), got.Height())
	}
	if got.GetRGB(0, 0) != src.GetRGB(2, 1) {
		t.Errorf("Pixel (0,0) should come from source (2,1): %v != %v",
			got.GetRGB(0, 0), src.GetRGB(2, 1))
	}
}

func TestToGrayscale(t *testing.T) {
	tests := []struct {
		name   string
		in     RGB
		lo, hi uint8
	}{
		{"white", RGB{255, 255, 255}, 255, 255},
		{"black", RGB{0, 0, 0}, 0, 0},
		{"red", RGB{255, 0, 0}, 75, 77}, // 0.299 * 255 = 76.245
		{"green", RGB{0, 255, 0}, 149, 151},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := ToGrayscale(CreateSolidImage(2, 2, tt.in))
			c := gray.GetRGB(1, 1)
			if c.R != c.G || c.G != c.B {
				t.Fatalf("Grayscale pixel should have equal channels, got %v", c)
			}
			if c.R < tt.lo || c.R > tt.hi {
				t.Errorf("Expected luminance in [%d,%d], got %d", tt.lo, tt.hi, c.R)
			}
		})
	}
}

func TestResize(t *testing.T) {
	img := CreateGradientImage(100, 100)

	for _, filter := range []Filter{FilterLanczos, FilterCatmullRom, FilterBilinear, FilterNearest} {
		resized := Resize(img, 50, 25, filter)
		if resized.Width() != 50 || resized.Height() != 25 {
			t.Errorf("%v: expected 50x25, got %dx%d", filter, resized.Width(), resized.Height())
		}
		resized = Resize(img, 200, 120, filter)
		if resized.Width() != 200 || resized.Height() != 120 {
			t.Errorf("%v: expected 200x120, got %dx%d", filter, resized.Width(), resized.Height())
		}
	}
}

func TestResizeSolidKeepsColor(t *testing.T) {
	c := RGB{R: 200, G: 40, B: 90}
	img := CreateSolidImage(40, 40, c)
	for _, filter := range []Filter{FilterLanczos, FilterCatmullRom, FilterBilinear, FilterNearest} {
		got := Resize(img, 12, 12, filter).GetRGB(6, 6)
		if absDiff(got.R, c.R) > 1 || absDiff(got.G, c.G) > 1 || absDiff(got.B, c.B) > 1 {
			t.Errorf("%v: solid color should survive resizing, got %v", filter, got)
		}
	}
}

func TestParseFilter(t *testing.T) {
	for name, want := range map[string]Filter{
		"lanczos":    FilterLanczos,
		"CatmullRom": FilterCatmullRom,
		"bilinear":   FilterBilinear,
		"NEAREST":    FilterNearest,
	} {
		got, err := ParseFilter(name)
		if err != nil {
			t.Errorf("ParseFilter(%q) failed: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFilter(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseFilter("bicubic"); err == nil {
		t.Error("Expected error for unknown filter")
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{800, 600, 320, 192, 256, 192},
		{100, 50, 320, 192, 320, 160},
		{320, 100, 320, 192, 320, 100},
		{1000, 10, 320, 192, 320, 3},
		{10000, 1, 320, 192, 320, 1},
	}
	for _, tt := range tests {
		w, h := FitSize(tt.w, tt.h, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("FitSize(%d,%d,%d,%d) = %dx%d, want %dx%d",
				tt.w, tt.h, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestFitKeepsImageWhenWidthMatches(t *testing.T) {
	img := CreateGradientImage(320, 100)
	if got := Fit(img, 320, 192, false, FilterLanczos); got != img {
		t.Error("Fit should return the original image when no resize is needed")
	}
}

func TestFitGrayscale(t *testing.T) {
	img := CreateColorBarsImage(320, 100)
	got := Fit(img, 320, 192, true, FilterLanczos)
	if got == img {
		t.Fatal("Fit with grayscale should produce a new image")
	}
	if got.Width() != 320 || got.Height() != 100 {
		t.Fatalf("Expected 320x100, got %dx%d", got.Width(), got.Height())
	}
	for x := 0; x < got.Width(); x += 17 {
		c := got.GetRGB(x, 50)
		if c.R != c.G || c.G != c.B {
			t.Errorf("Pixel %d should be gray, got %v", x, c)
		}
	}
}

func TestFitDownscales(t *testing.T) {
	img := CreateCheckerboardImage(800, 600, 50)
	got := Fit(img, 320, 192, false, FilterBilinear)
	if got.Width() != 256 || got.Height() != 192 {
		t.Errorf("Expected 256x192, got %dx%d", got.Width(), got.Height())
	}
}

func TestLoadSaveImage(t *testing.T) {
	tmpDir := t.TempDir()
	img := CreateColorBarsImage(64, 64)

	pngPath := filepath.Join(tmpDir, "test.png")
	if err := SaveImage(img.RGBA, pngPath); err != nil {
		t.Fatalf("Failed to save PNG: %v", err)
	}

	loaded, err := Load(context.Background(), pngPath)
	if err != nil {
		t.Fatalf("Failed to load PNG: %v", err)
	}

	// PNG should be lossless
	if mse := CalculateMSE(img, loaded); mse > 0.01 {
		t.Errorf("PNG should be lossless, MSE=%f", mse)
	}

	// Lossy formats keep the dimensions.
	for _, name := range []string{"test.gif", "test.jpg", "test.JPEG"} {
		path := filepath.Join(tmpDir, name)
		if err := SaveImage(img.RGBA, path); err != nil {
			t.Fatalf("Failed to save %s: %v", name, err)
		}
		loaded, err := LoadImage(path)
		if err != nil {
			t.Fatalf("Failed to load %s: %v", name, err)
		}
		if loaded.Width() != 64 || loaded.Height() != 64 {
			t.Errorf("%s: expected 64x64, got %dx%d", name, loaded.Width(), loaded.Height())
		}
	}
}

func TestSaveImageBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")
	if err := SaveImage(CreateColorBarsImage(4, 4).RGBA, path); err == nil {
		t.Error("Expected an error saving into a missing directory")
	}
}

func TestIsSaveFormat(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"out.png", true},
		{"out.PNG", true},
		{"out.jpg", true},
		{"out.jpeg", true},
		{"out.gif", true},
		{"out.txt", false},
		{"out.png.gz", false},
		{"out", false},
	}
	for _, tt := range tests {
		if got := IsSaveFormat(tt.in); got != tt.want {
			t.Errorf("IsSaveFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadQOI(t *testing.T) {
	img := CreateColorBarsImage(32, 16)
	var buf bytes.Buffer
	if err := qoi.Encode(&buf, img.RGBA); err != nil {
		t.Fatalf("qoi encode failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "bars.qoi")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadImage(path)
	if err != nil {
		t.Fatalf("Failed to load QOI: %v", err)
	}
	if mse := CalculateMSE(img, loaded); mse != 0 {
		t.Errorf("QOI should be lossless, MSE=%f", mse)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode(strings.NewReader("not an image")); err == nil {
		t.Error("Expected decode error for garbage input")
	}
}

func TestLoadURL(t *testing.T) {
	img := CreateCheckerboardImage(16, 16, 4)
	var body bytes.Buffer
	if err := png.Encode(&body, img.RGBA); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/img.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(body.Bytes())
	}))
	defer srv.Close()

	loaded, err := Load(context.Background(), srv.URL+"/img.png")
	if err != nil {
		t.Fatalf("Failed to load URL: %v", err)
	}
	if mse := CalculateMSE(img, loaded); mse != 0 {
		t.Errorf("Fetched image differs, MSE=%f", mse)
	}

	_, err = Load(context.Background(), srv.URL+"/missing.png")
	if !errors.Is(err, ErrFetch) {
		t.Errorf("Expected ErrFetch for 404, got %v", err)
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"http://example.com", true},
		{"https://example.com", true},
		{"ftp://example.com", false},
		{"", false},
		{" http://example.com", false},
		{"HtTp://example.com", false},
		{"HtTpS://example.com", false},
		{"image.png", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
