package render

import (
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/fractal-tools-mcp/internal/fractal"
)

// Outline draws the boundary between regions of different escape behaviour.
//
// Each cell is normalised to value/iterations (0-1). A 3x3 Sobel operator
// gives the gradient magnitude at every cell; cells whose magnitude is at
// least threshold become white (255), the rest black.
//
// Border cells use clamped (replicated) neighbours, so a uniform grid
// produces an all-black image.
func Outline(grid *fractal.Grid, threshold float64) *image.Gray {
	width, height := grid.Cols, grid.Rows

	norm := make([][]float64, height)
	for y := 0; y < height; y++ {
		norm[y] = make([]float64, width)
		for x, v := range grid.Row(y) {
			norm[y][x] = fraction(v, grid.Iterations)
		}
	}

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	result := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					gx += norm[py][px] * sobelX[ky+1][kx+1]
					gy += norm[py][px] * sobelY[ky+1][kx+1]
				}
			}
			if math.Sqrt(gx*gx+gy*gy) >= threshold {
				result.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return result
}

// clamp constrains val to [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
