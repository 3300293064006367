package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ironsheep/fractal-tools-mcp/internal/fractal"
)

// OverlayOptions configures the coordinate overlay.
type OverlayOptions struct {
	// Spacing is the distance between grid lines in pixels.
	Spacing int

	// Color is the line colour as "#RRGGBB" or "#RRGGBBAA". Invalid or empty
	// values fall back to semi-transparent red.
	Color string

	// Labels prints the complex coordinate at each intersection.
	Labels bool
}

// Overlay draws grid lines every opts.Spacing pixels and, if requested,
// labels each intersection with the complex coordinate it samples.
//
// region must be the range the image was rendered from: pixel x maps
// linearly from real(region.Start) to real(region.End) across the width and
// pixel y from imag(region.Start) to imag(region.End) down the height.
func Overlay(img image.Image, region fractal.Range, opts OverlayOptions) (*image.RGBA, error) {
	if opts.Spacing < 1 {
		return nil, fmt.Errorf("%w: overlay spacing must be positive, got %d", fractal.ErrInvalidParameter, opts.Spacing)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	lineColor, err := parseHexColor(opts.Color)
	if err != nil {
		lineColor = color.RGBA{255, 0, 0, 128}
	}

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	for x := opts.Spacing; x < width; x += opts.Spacing {
		for y := 0; y < height; y++ {
			result.Set(x, y, lineColor)
		}
	}
	for y := opts.Spacing; y < height; y += opts.Spacing {
		for x := 0; x < width; x++ {
			result.Set(x, y, lineColor)
		}
	}

	if opts.Labels {
		labelColor := color.RGBA{255, 255, 255, 255}
		bgColor := color.RGBA{0, 0, 0, 180}

		for y := opts.Spacing; y < height; y += opts.Spacing {
			for x := opts.Spacing; x < width; x += opts.Spacing {
				z := pixelToComplex(region, x, y, width, height)
				label := fmt.Sprintf("%.2f,%.2fi", real(z), imag(z))
				drawLabel(result, x+2, y+2, label, labelColor, bgColor)
			}
		}
	}

	return result, nil
}

// pixelToComplex maps pixel (x, y) of a width x height image to the complex
// point sampled there.
func pixelToComplex(region fractal.Range, x, y, width, height int) complex128 {
	re := lerp(real(region.Start), real(region.End), x, width)
	im := lerp(imag(region.Start), imag(region.End), y, height)
	return complex(re, im)
}

func lerp(a, b float64, i, n int) float64 {
	if n <= 1 {
		return a
	}
	t := float64(i) / float64(n-1)
	return a + (b-a)*t
}

// glyphs is a 3x5 pixel font covering the characters used in coordinate
// labels.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
	'.': {"000", "000", "000", "000", "010"},
	'-': {"000", "000", "111", "000", "000"},
	'i': {"010", "000", "010", "010", "010"},
}

// drawLabel draws text with its top-left corner at (x, y) on a filled
// background box. Characters without a glyph are left blank.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(bounds) {
				img.Set(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				px, py := cx+col, y+row
				if image.Pt(px, py).In(bounds) {
					img.Set(px, py, fg)
				}
			}
		}
		cx += charWidth
	}
}
