package render

import (
	"image"

	"github.com/ironsheep/fractal-tools-mcp/internal/fractal"
)

// Colorize maps every grid cell to a pixel using p. The image is
// grid.Cols wide and grid.Rows tall.
func Colorize(grid *fractal.Grid, p Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, grid.Cols, grid.Rows))
	for r := 0; r < grid.Rows; r++ {
		for c, v := range grid.Row(r) {
			img.SetNRGBA(c, r, p.Color(v, grid.Iterations))
		}
	}
	return img
}

// Swatches samples p at count evenly spaced escape fractions, ending with
// the inside colour, and returns them as "#RRGGBB" strings.
func Swatches(p Palette, iterations, count int) []string {
	if count < 2 {
		count = 2
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		v := 1 + (iterations-1)*i/(count-1)
		out = append(out, hexString(p.Color(v, iterations)))
	}
	return out
}
