package render

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/fractal-tools-mcp/internal/fractal"
)

// gridOf builds a grid directly from rows of values.
func gridOf(iterations int, rows ...[]int) *fractal.Grid {
	g := &fractal.Grid{Rows: len(rows), Cols: len(rows[0]), Iterations: iterations}
	for _, r := range rows {
		g.Values = append(g.Values, r...)
	}
	return g
}

func computeGrid(t *testing.T, rows, cols int) (*fractal.Grid, fractal.Range) {
	t.Helper()
	region := fractal.Range{Start: complex(-2, -1.2), End: complex(0.6, 1.2)}
	g, err := fractal.Compute(context.Background(), fractal.Params{
		Kind:       fractal.Mandelbrot,
		Iterations: 40,
		Tolerance:  2,
		Region:     region,
		Size:       fractal.Size{Rows: rows, Cols: cols},
	})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	return g, region
}

func TestColorize_Grayscale(t *testing.T) {
	g := gridOf(4,
		[]int{1, 2},
		[]int{4, 3},
	)

	img := Colorize(g, Grayscale{})

	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("dimensions: got %v, want 2x2", img.Bounds())
	}

	tests := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 63},  // 1/4
		{1, 0, 127}, // 2/4
		{0, 1, 255}, // inside
		{1, 1, 191}, // 3/4
	}
	for _, tt := range tests {
		c := img.NRGBAAt(tt.x, tt.y)
		if c.R != tt.want || c.G != tt.want || c.B != tt.want || c.A != 255 {
			t.Errorf("pixel (%d,%d): got %v, want gray %d", tt.x, tt.y, c, tt.want)
		}
	}
}

func TestColorize_RowMapsToY(t *testing.T) {
	g := gridOf(10,
		[]int{10, 10, 10},
		[]int{1, 1, 1},
	)
	img := Colorize(g, Grayscale{})
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("dimensions: got %v, want 3x2", img.Bounds())
	}
	if img.NRGBAAt(2, 0).R != 255 {
		t.Errorf("row 0 should be inside (white)")
	}
	if img.NRGBAAt(2, 1).R == 255 {
		t.Errorf("row 1 should have escaped")
	}
}

func TestParsePalette(t *testing.T) {
	tests := []struct {
		name    string
		stops   []string
		inside  string
		wantErr bool
	}{
		{"grayscale", nil, "", false},
		{"", nil, "", false},
		{"hsv", nil, "#102030", false},
		{"fire", nil, "", false},
		{"OCEAN", nil, "", false},
		{"gradient", []string{"#000000", "#FFFFFF"}, "", false},
		{"gradient", []string{"#000000"}, "", true},
		{"gradient", []string{"#000000", "nothex"}, "", true},
		{"hsv", nil, "#12", true},
		{"plasma-x", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePalette(tt.name, tt.stops, tt.inside)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got palette %T", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePalette failed: %v", err)
			}
			if p == nil {
				t.Fatal("palette is nil")
			}
		})
	}
}

func TestPalette_InsideColor(t *testing.T) {
	for _, name := range PaletteNames() {
		var stops []string
		if name == "gradient" {
			stops = []string{"#FF0000", "#0000FF"}
		}
		p, err := ParsePalette(name, stops, "#123456")
		if err != nil {
			t.Fatalf("%s: ParsePalette failed: %v", name, err)
		}
		got := p.Color(50, 50)
		want := color.NRGBA{0x12, 0x34, 0x56, 255}
		if got != want {
			t.Errorf("%s: inside color got %v, want %v", name, got, want)
		}
	}
}

func TestGradient_Endpoints(t *testing.T) {
	g, err := NewGradient([]string{"#FF0000", "#0000FF"}, nil)
	if err != nil {
		t.Fatalf("NewGradient failed: %v", err)
	}

	// Escape fraction close to 0 is near the first stop.
	c := g.Color(0, 1000)
	if c.R != 255 || c.B != 0 {
		t.Errorf("start color: got %v, want red", c)
	}

	// Inside defaults to opaque black.
	if got := g.Color(1000, 1000); got != (color.NRGBA{A: 255}) {
		t.Errorf("inside color: got %v, want black", got)
	}
}

func TestHSV_EscapedColorsAreSaturated(t *testing.T) {
	p := HSV{Inside: color.NRGBA{A: 255}}
	for v := 1; v < 10; v++ {
		c := p.Color(v, 10)
		hi := max(c.R, c.G, c.B)
		if hi != 255 {
			t.Errorf("value %d: got %v, expected a full-value color", v, c)
		}
	}
}

func TestSwatches(t *testing.T) {
	s := Swatches(Grayscale{}, 100, 3)
	want := []string{"#020202", "#7F7F7F", "#FFFFFF"}
	if len(s) != len(want) {
		t.Fatalf("got %d swatches, want %d", len(s), len(want))
	}
	for i := range want {
		if s[i] != want[i] {
			t.Errorf("swatch %d: got %s, want %s", i, s[i], want[i])
		}
	}
}

func TestOutline(t *testing.T) {
	uniform := gridOf(10,
		[]int{10, 10, 10},
		[]int{10, 10, 10},
		[]int{10, 10, 10},
	)
	img := Outline(uniform, 0.1)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if img.GrayAt(x, y).Y != 0 {
				t.Errorf("uniform grid: pixel (%d,%d) should be black", x, y)
			}
		}
	}

	step := gridOf(10,
		[]int{1, 1, 10, 10},
		[]int{1, 1, 10, 10},
		[]int{1, 1, 10, 10},
	)
	img = Outline(step, 0.1)
	if img.GrayAt(1, 1).Y != 255 || img.GrayAt(2, 1).Y != 255 {
		t.Errorf("boundary pixels should be white")
	}
	if img.GrayAt(0, 1).Y != 0 {
		t.Errorf("pixel away from the boundary should be black")
	}
}

func TestOverlay(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	region := fractal.Range{Start: complex(-2, -2), End: complex(2, 2)}

	out, err := Overlay(img, region, OverlayOptions{Spacing: 25, Color: "#FF0000FF"})
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}

	r, g, b, _ := out.At(25, 50).RGBA()
	if uint8(r>>8) != 255 || uint8(g>>8) != 0 || uint8(b>>8) != 0 {
		t.Errorf("grid line color at (25,50): got (%d,%d,%d), want (255,0,0)", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = out.At(10, 10).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("non-grid pixel should be untouched")
	}

	if _, err := Overlay(img, region, OverlayOptions{Spacing: 0}); err == nil {
		t.Error("expected error for zero spacing")
	}

	labelled, err := Overlay(img, region, OverlayOptions{Spacing: 50, Color: "invalid", Labels: true})
	if err != nil {
		t.Fatalf("Overlay with labels failed: %v", err)
	}
	// Label background is drawn just below-right of the intersection.
	if _, _, _, a := labelled.At(53, 53).RGBA(); a == 0 {
		t.Error("expected label background at (53,53)")
	}
}

func TestPixelToComplex(t *testing.T) {
	region := fractal.Range{Start: complex(-2, 1), End: complex(2, -1)}
	if z := pixelToComplex(region, 0, 0, 5, 3); z != complex(-2, 1) {
		t.Errorf("top-left: got %v", z)
	}
	if z := pixelToComplex(region, 4, 2, 5, 3); z != complex(2, -1) {
		t.Errorf("bottom-right: got %v", z)
	}
	if z := pixelToComplex(region, 2, 1, 5, 3); z != 0 {
		t.Errorf("center: got %v", z)
	}
}

func TestRender_Pipeline(t *testing.T) {
	g, region := computeGrid(t, 60, 80)
	p, err := ParsePalette("fire", nil, "")
	if err != nil {
		t.Fatalf("ParsePalette failed: %v", err)
	}

	img, err := Render(g, region, Options{
		Palette: p,
		Gamma:   1.8,
		Blur:    0.5,
		Width:   40,
		Height:  30,
		Overlay: &OverlayOptions{Spacing: 10, Labels: true},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("dimensions: got %v, want 40x30", img.Bounds())
	}
}

func TestRender_Outline(t *testing.T) {
	g, region := computeGrid(t, 30, 40)
	img, err := Render(g, region, Options{Outline: true})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if _, ok := img.(*image.Gray); !ok {
		t.Errorf("outline render should produce *image.Gray, got %T", img)
	}
}

func TestRender_InvalidOptions(t *testing.T) {
	g, region := computeGrid(t, 4, 4)
	tests := []struct {
		name string
		opts Options
	}{
		{"negative gamma", Options{Gamma: -1}},
		{"negative blur", Options{Blur: -2}},
		{"negative width", Options{Width: -1}},
		{"zero spacing overlay", Options{Overlay: &OverlayOptions{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(g, region, tt.opts)
			if !errors.Is(err, fractal.ErrInvalidParameter) {
				t.Errorf("got %v, want ErrInvalidParameter", err)
			}
		})
	}

	if _, err := Render(nil, region, Options{}); err == nil {
		t.Error("expected error for nil grid")
	}
}

func TestResize_KeepsAspect(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	out := Resize(img, 50, 0)
	if out.Bounds().Dx() != 50 || out.Bounds().Dy() != 25 {
		t.Errorf("got %v, want 50x25", out.Bounds())
	}
	if Resize(img, 0, 0) != image.Image(img) {
		t.Error("zero size should return the input unchanged")
	}
}

func TestEncodeBase64PNG(t *testing.T) {
	g, _ := computeGrid(t, 12, 16)
	res, err := EncodeBase64PNG(Colorize(g, Grayscale{}))
	if err != nil {
		t.Fatalf("EncodeBase64PNG failed: %v", err)
	}
	if res.Width != 16 || res.Height != 12 || res.MimeType != "image/png" {
		t.Errorf("unexpected result metadata: %+v", res)
	}

	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	if decoded.Bounds().Dx() != 16 {
		t.Errorf("decoded width: got %d", decoded.Bounds().Dx())
	}
}

func TestSaveAndDescribe(t *testing.T) {
	g, _ := computeGrid(t, 20, 30)
	img := Colorize(g, Grayscale{})
	dir := t.TempDir()

	for _, name := range []string{"out.png", "nested/out.jpg", "out.bmp", "out.gif"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(img, path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			info, err := DescribeFile(path)
			if err != nil {
				t.Fatalf("DescribeFile failed: %v", err)
			}
			if info.Width != 30 || info.Height != 20 {
				t.Errorf("dimensions: got %dx%d, want 30x20", info.Width, info.Height)
			}
			if info.FileSizeBytes <= 0 {
				t.Errorf("file size should be positive")
			}
		})
	}

	if err := Save(img, filepath.Join(dir, "out.xyz")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := DescribeFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := os.Stat(filepath.Join(dir, "out.xyz")); !os.IsNotExist(err) {
		t.Error("unsupported format should not create a file")
	}
}

func TestDescribeFile_Format(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.PNG")
	if err := Save(image.NewGray(image.Rect(0, 0, 3, 2)), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	info, err := DescribeFile(path)
	if err != nil {
		t.Fatalf("DescribeFile failed: %v", err)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
}
