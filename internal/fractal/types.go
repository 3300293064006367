package fractal

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidParameter is wrapped by every input validation failure.
var ErrInvalidParameter = errors.New("invalid parameter")

// Kind selects the recurrence family.
type Kind int

const (
	// Mandelbrot iterates z² + c where c is the lattice point.
	Mandelbrot Kind = iota
	// Julia iterates z² + k for a fixed constant k.
	Julia
)

// String returns the lower-case name used on the command line and in tool
// arguments.
func (k Kind) String() string {
	switch k {
	case Mandelbrot:
		return "mandelbrot"
	case Julia:
		return "julia"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DefaultRegion is the view used when no region is given: the whole
// Mandelbrot set, or the window around the origin that holds connected
// Julia sets.
func (k Kind) DefaultRegion() Range {
	if k == Julia {
		return Range{Start: complex(-1.5, -1), End: complex(1.5, 1)}
	}
	return Range{Start: complex(-2, -1.3), End: complex(1, 1.3)}
}

// Range is a rectangular region of the complex plane given by two corners.
//
// Start need not be component-wise smaller than End. An inverted range is
// sampled in reverse along the inverted axis.
type Range struct {
	Start complex128
	End   complex128
}

// Flipped returns the range with the imaginary endpoints swapped, so that
// row 0 samples the largest imaginary value.
func (r Range) Flipped() Range {
	return Range{
		Start: complex(real(r.Start), imag(r.End)),
		End:   complex(real(r.End), imag(r.Start)),
	}
}

// String formats the range as "start:end", the form accepted by ParseRange.
func (r Range) String() string {
	return FormatComplex(r.Start) + ":" + FormatComplex(r.End)
}

// Size is the lattice resolution.
type Size struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// String formats the size as "COLSxROWS", the form accepted by ParseSize.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Cols, s.Rows)
}

// Exceeds reports whether the size holds more than limit cells. The
// comparison never forms the product, so it is safe for any int dimensions.
// Non-positive dimensions never exceed.
func (s Size) Exceeds(limit int) bool {
	if s.Rows < 1 || s.Cols < 1 {
		return false
	}
	return s.Rows > limit/s.Cols
}

// Params fully describes one divergence computation.
type Params struct {
	Kind       Kind
	Iterations int
	Tolerance  float64
	Region     Range
	Size       Size

	// Constant is required for Julia and ignored for Mandelbrot.
	Constant *complex128
}

// Validate reports the first violated precondition, wrapped in
// ErrInvalidParameter.
func (p Params) Validate() error {
	if p.Kind != Mandelbrot && p.Kind != Julia {
		return fmt.Errorf("%w: unknown fractal kind %s", ErrInvalidParameter, p.Kind)
	}
	if p.Iterations < 1 {
		return fmt.Errorf("%w: iteration budget must be positive, got %d", ErrInvalidParameter, p.Iterations)
	}
	if p.Size.Rows < 1 || p.Size.Cols < 1 {
		return fmt.Errorf("%w: image size must be positive, got %d rows x %d cols",
			ErrInvalidParameter, p.Size.Rows, p.Size.Cols)
	}
	// NaN fails this comparison as well.
	if !(p.Tolerance > 0) {
		return fmt.Errorf("%w: tolerance must be positive, got %v", ErrInvalidParameter, p.Tolerance)
	}
	if p.Kind == Julia && p.Constant == nil {
		return fmt.Errorf("%w: Julia set requires a constant", ErrInvalidParameter)
	}
	return nil
}

// Key returns a canonical string identifying the computation. Two Params
// with equal keys produce identical grids.
func (p Params) Key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|n=%d|tol=%s|r=%s|s=%s",
		p.Kind, p.Iterations, formatFloat(p.Tolerance), p.Region, p.Size)
	if p.Kind == Julia && p.Constant != nil {
		fmt.Fprintf(&b, "|k=%s", FormatComplex(*p.Constant))
	}
	return b.String()
}

// Grid holds the divergence value of every lattice cell in row-major order.
type Grid struct {
	Rows       int
	Cols       int
	Iterations int
	Values     []int
}

func newGrid(size Size, iterations int) *Grid {
	values := make([]int, size.Rows*size.Cols)
	for i := range values {
		values[i] = iterations
	}
	return &Grid{
		Rows:       size.Rows,
		Cols:       size.Cols,
		Iterations: iterations,
		Values:     values,
	}
}

// At returns the divergence value at row r, column c.
func (g *Grid) At(r, c int) int {
	return g.Values[r*g.Cols+c]
}

// Row returns row r as a slice sharing the grid's storage.
func (g *Grid) Row(r int) []int {
	return g.Values[r*g.Cols : (r+1)*g.Cols]
}

// Rows2D returns a copy of the grid as a slice of rows.
func (g *Grid) Rows2D() [][]int {
	out := make([][]int, g.Rows)
	for r := range out {
		out[r] = append([]int(nil), g.Row(r)...)
	}
	return out
}

// Inside reports whether the cell at (r, c) never escaped.
func (g *Grid) Inside(r, c int) bool {
	return g.At(r, c) >= g.Iterations
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FormatComplex formats z in the form accepted by ParseComplex, e.g.
// "-0.8+0.156i".
func FormatComplex(z complex128) string {
	im := imag(z)
	sign := "+"
	if im < 0 || (im == 0 && math.Signbit(im)) {
		sign = "-"
		im = -im
	}
	return formatFloat(real(z)) + sign + formatFloat(im) + "i"
}
