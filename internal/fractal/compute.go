package fractal

import (
	"context"
	"math/cmplx"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ProgressFunc is called after each completed iteration with the number of
// iterations done and the total that will run.
type ProgressFunc func(done, total int)

// Option configures a Compute call.
type Option func(*options)

type options struct {
	workers  int
	progress ProgressFunc
}

// WithWorkers bounds the number of row bands processed in parallel.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithProgress registers a callback invoked at every iteration boundary.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// Compute runs the escape-time recurrence described by p and returns the
// divergence grid.
//
// Every cell starts at p.Iterations. For i = 1 .. p.Iterations-1 each cell
// whose iterate has modulus greater than p.Tolerance is lowered to
// min(value, i), then every iterate advances one step. Cells that never
// exceed the tolerance keep p.Iterations.
//
// ctx is consulted only between iterations. If it is cancelled Compute
// returns ctx.Err() and no grid.
func Compute(ctx context.Context, p Params, opts ...Option) (*Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	lattice, err := NewLattice(p.Region, p.Size)
	if err != nil {
		return nil, err
	}

	it := &iteration{
		cols:      p.Size.Cols,
		tolerance: p.Tolerance,
		x:         lattice.points,
		z:         append([]complex128(nil), lattice.points...),
		grid:      newGrid(p.Size, p.Iterations),
	}
	if p.Kind == Julia {
		it.julia = true
		it.constant = *p.Constant
	}

	bands := splitRows(p.Size.Rows, o.workers)
	total := p.Iterations - 1

	for i := 1; i < p.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if len(bands) == 1 {
			it.step(i, bands[0])
		} else {
			var eg errgroup.Group
			for _, b := range bands {
				b := b
				eg.Go(func() error {
					it.step(i, b)
					return nil
				})
			}
			// Barrier: iteration i+1 must not start before every band has
			// committed iteration i.
			_ = eg.Wait()
		}

		if o.progress != nil {
			o.progress(i, total)
		}
	}

	return it.grid, nil
}

// iteration carries the per-call state shared by the row-band workers.
// Bands never overlap, so workers write disjoint index ranges.
type iteration struct {
	cols      int
	tolerance float64
	julia     bool
	constant  complex128

	x    []complex128
	z    []complex128
	grid *Grid
}

type band struct {
	lo, hi int // rows [lo, hi)
}

// step records escapes at iteration i and advances the iterates for the
// rows in b.
func (it *iteration) step(i int, b band) {
	values := it.grid.Values
	for idx := b.lo * it.cols; idx < b.hi*it.cols; idx++ {
		z := it.z[idx]
		if cmplx.Abs(z) > it.tolerance {
			values[idx] = min(values[idx], i)
		}
		if it.julia {
			it.z[idx] = z*z + it.constant
		} else {
			it.z[idx] = z*z + it.x[idx]
		}
	}
}

// splitRows divides rows into at most n contiguous, non-empty bands of
// near-equal height.
func splitRows(rows, n int) []band {
	if n > rows {
		n = rows
	}
	if n < 1 {
		n = 1
	}
	bands := make([]band, 0, n)
	per, extra := rows/n, rows%n
	lo := 0
	for k := 0; k < n; k++ {
		h := per
		if k < extra {
			h++
		}
		bands = append(bands, band{lo: lo, hi: lo + h})
		lo += h
	}
	return bands
}
