// Package fractal computes escape-time divergence grids for the Mandelbrot
// and Julia recurrences.
//
// A computation samples a rectangular region of the complex plane on a
// Rows×Cols lattice and records, for every cell, the first iteration at
// which the iterate's modulus exceeds a tolerance. Cells that never escape
// keep the iteration budget.
//
// # Lattice Orientation
//
// The real axis is interpolated across columns and the imaginary axis across
// rows, both inclusive of the region's endpoints. Row 0 therefore samples
// Region.Start's imaginary part. Callers that want row 0 at the top of an
// image (largest imaginary part) pass Range.Flipped().
//
// # Recurrences
//
//   - Mandelbrot: z₀ = c, zₙ₊₁ = zₙ² + c, evaluated at every lattice point c.
//   - Julia: z₀ = lattice point, zₙ₊₁ = zₙ² + k for a fixed constant k.
//
// # Numeric Semantics
//
// All arithmetic uses complex128 (double precision). The escape test compares
// the modulus |z| directly against the tolerance. Overflow to infinity is not
// an error: an infinite modulus exceeds any finite tolerance, and the
// element-wise minimum update keeps the first recorded iteration even if the
// iterate later becomes NaN.
//
// # Concurrency
//
// Each iteration is split into row bands that are processed in parallel.
// All bands finish before the next iteration starts, so cancellation and
// progress reporting only ever observe whole iterations. Compute holds no
// package-level state and every call owns its grids.
//
// # Error Handling
//
// Every precondition failure wraps ErrInvalidParameter and is reported before
// any iteration runs:
//
//	grid, err := fractal.Compute(ctx, params)
//	if errors.Is(err, fractal.ErrInvalidParameter) {
//	    // bad input
//	}
package fractal
