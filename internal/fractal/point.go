package fractal

import (
	"fmt"
	"math/cmplx"
)

// EscapeAt runs the recurrence for a single starting point z0 and returns
// its divergence value, using the same semantics as one cell of Compute.
//
// For Mandelbrot, z0 is also the added term c and constant is ignored.
func EscapeAt(kind Kind, iterations int, tolerance float64, z0 complex128, constant *complex128) (int, error) {
	p := Params{
		Kind:       kind,
		Iterations: iterations,
		Tolerance:  tolerance,
		Size:       Size{Rows: 1, Cols: 1},
		Constant:   constant,
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	add := z0
	if kind == Julia {
		add = *constant
	}

	z := z0
	for i := 1; i < iterations; i++ {
		if cmplx.Abs(z) > tolerance {
			return i, nil
		}
		z = z*z + add
	}
	return iterations, nil
}

// PointResult is the outcome of evaluating one complex point.
type PointResult struct {
	Point      string `json:"point"`
	Kind       string `json:"kind"`
	Iterations int    `json:"iterations"`
	Divergence int    `json:"divergence"`
	Escaped    bool   `json:"escaped"`
}

// EvaluatePoint wraps EscapeAt in a JSON-friendly result.
func EvaluatePoint(kind Kind, iterations int, tolerance float64, z0 complex128, constant *complex128) (*PointResult, error) {
	d, err := EscapeAt(kind, iterations, tolerance, z0, constant)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %s: %w", FormatComplex(z0), err)
	}
	return &PointResult{
		Point:      FormatComplex(z0),
		Kind:       kind.String(),
		Iterations: iterations,
		Divergence: d,
		Escaped:    d < iterations,
	}, nil
}
