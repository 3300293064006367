// Package render turns divergence grids into images.
//
// The fractal package produces integer escape values and knows nothing about
// pixels. This package maps those values to colours, applies optional
// post-processing and encodes the result for the MCP server or for a file.
//
// # Coordinate System
//
// Grid column c becomes image X and grid row r becomes image Y, so row 0 is
// the top of the image. To get the conventional picture with the positive
// imaginary axis pointing up, compute the grid over Range.Flipped().
//
// # Palettes
//
// A Palette maps (value, iterations) to a colour:
//   - grayscale: intensity proportional to value / iterations
//   - hsv: hue sweep over the escape fraction, inside cells in a fixed colour
//   - gradient: blend between colour stops in HCL space (fire, ocean, or
//     user-supplied "#RRGGBB" stops)
//
// # Post-processing
//
// Gamma correction and Gaussian smoothing use bild; downscaling a
// supersampled grid uses a Lanczos filter from disintegration/imaging.
// Outline produces a boundary image using Sobel gradients over the
// normalised divergence values. Overlay draws labelled complex-plane grid
// lines.
//
// # Error Handling
//
// Functions return errors for unknown palettes, malformed colours,
// unsupported output formats and I/O failures.
package render
