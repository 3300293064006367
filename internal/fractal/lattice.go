package fractal

import "fmt"

// Lattice is the fixed grid of complex sample points for one computation.
//
// Point (r, c) has real part interpolated across the columns and imaginary
// part interpolated across the rows. A Lattice is never modified after
// NewLattice returns it.
type Lattice struct {
	size   Size
	points []complex128
}

// NewLattice samples region on a size.Rows × size.Cols grid.
//
// Both axes include their endpoints and are divided into n-1 equal steps.
// An axis with a single sample takes the start value.
func NewLattice(region Range, size Size) (*Lattice, error) {
	if size.Rows < 1 || size.Cols < 1 {
		return nil, fmt.Errorf("%w: image size must be positive, got %d rows x %d cols",
			ErrInvalidParameter, size.Rows, size.Cols)
	}

	re := linspace(real(region.Start), real(region.End), size.Cols)
	im := linspace(imag(region.Start), imag(region.End), size.Rows)

	points := make([]complex128, size.Rows*size.Cols)
	for r := 0; r < size.Rows; r++ {
		row := points[r*size.Cols : (r+1)*size.Cols]
		for c := range row {
			row[c] = complex(re[c], im[r])
		}
	}
	return &Lattice{size: size, points: points}, nil
}

// Size returns the lattice resolution.
func (l *Lattice) Size() Size {
	return l.size
}

// At returns the sample point at row r, column c.
func (l *Lattice) At(r, c int) complex128 {
	return l.points[r*l.size.Cols+c]
}

// linspace returns n values evenly spaced from a to b inclusive.
//
// Each value is a weighted sum of the endpoints rather than a + j*step, so a
// range symmetric about zero yields exactly negated values at mirrored
// indices.
func linspace(a, b float64, n int) []float64 {
	v := make([]float64, n)
	if n == 1 {
		v[0] = a
		return v
	}
	steps := float64(n - 1)
	for j := range v {
		v[j] = (a*float64(n-1-j) + b*float64(j)) / steps
	}
	v[0] = a
	v[n-1] = b
	return v
}
