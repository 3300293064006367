package fractal

import (
	"errors"
	"testing"
)

func TestNewLattice_Endpoints(t *testing.T) {
	region := Range{Start: complex(-2, -1.3), End: complex(1, 1.3)}
	l, err := NewLattice(region, Size{Rows: 4, Cols: 7})
	if err != nil {
		t.Fatalf("NewLattice failed: %v", err)
	}

	if got := l.At(0, 0); got != region.Start {
		t.Errorf("At(0,0): got %v, want %v", got, region.Start)
	}
	if got := l.At(3, 6); got != region.End {
		t.Errorf("At(3,6): got %v, want %v", got, region.End)
	}
	if got := l.At(0, 6); got != complex(1, -1.3) {
		t.Errorf("At(0,6): got %v, want (1-1.3i)", got)
	}
	if got := l.At(3, 0); got != complex(-2, 1.3) {
		t.Errorf("At(3,0): got %v, want (-2+1.3i)", got)
	}
	if got := l.Size(); got != (Size{Rows: 4, Cols: 7}) {
		t.Errorf("Size: got %+v", got)
	}
}

func TestNewLattice_AxesAreSeparable(t *testing.T) {
	l, err := NewLattice(Range{Start: complex(0, 0), End: complex(3, 2)}, Size{Rows: 3, Cols: 4})
	if err != nil {
		t.Fatalf("NewLattice failed: %v", err)
	}

	wantRe := []float64{0, 1, 2, 3}
	wantIm := []float64{0, 1, 2}
	for r, im := range wantIm {
		for c, re := range wantRe {
			if got := l.At(r, c); got != complex(re, im) {
				t.Errorf("At(%d,%d): got %v, want %v", r, c, got, complex(re, im))
			}
		}
	}
}

func TestNewLattice_SingleSampleAxis(t *testing.T) {
	region := Range{Start: complex(-1, 0.5), End: complex(1, 2)}

	l, err := NewLattice(region, Size{Rows: 1, Cols: 3})
	if err != nil {
		t.Fatalf("NewLattice failed: %v", err)
	}
	for c := 0; c < 3; c++ {
		if im := imag(l.At(0, c)); im != 0.5 {
			t.Errorf("single row: imag at col %d = %v, want 0.5", c, im)
		}
	}

	l, err = NewLattice(region, Size{Rows: 1, Cols: 1})
	if err != nil {
		t.Fatalf("NewLattice failed: %v", err)
	}
	if got := l.At(0, 0); got != region.Start {
		t.Errorf("1x1: got %v, want %v", got, region.Start)
	}
}

func TestNewLattice_InvalidSize(t *testing.T) {
	for _, size := range []Size{{0, 1}, {1, 0}, {-1, 5}} {
		if _, err := NewLattice(Range{}, size); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("size %+v: expected ErrInvalidParameter, got %v", size, err)
		}
	}
}

func TestLinspace_SymmetricAboutZero(t *testing.T) {
	for _, n := range []int{2, 3, 4, 11, 41, 600} {
		v := linspace(-1.3, 1.3, n)
		for j := range v {
			if v[j] != -v[n-1-j] {
				t.Fatalf("n=%d: v[%d]=%v is not the negation of v[%d]=%v", n, j, v[j], n-1-j, v[n-1-j])
			}
		}
	}
}

func TestRange_Flipped(t *testing.T) {
	r := Range{Start: complex(-2, -1), End: complex(1, 1.5)}
	f := r.Flipped()
	if f.Start != complex(-2, 1.5) || f.End != complex(1, -1) {
		t.Errorf("Flipped: got %v", f)
	}
	if f.Flipped() != r {
		t.Errorf("Flipped twice should return the original range")
	}
}

func TestSize_Exceeds(t *testing.T) {
	tests := []struct {
		size  Size
		limit int
		want  bool
	}{
		{Size{Rows: 256, Cols: 256}, 65536, false},
		{Size{Rows: 256, Cols: 257}, 65536, true},
		{Size{Rows: 1, Cols: 65537}, 65536, true},
		{Size{Rows: 1 << 32, Cols: 1 << 32}, 65536, true},
		{Size{Rows: 0, Cols: 1 << 40}, 65536, false},
	}
	for _, tt := range tests {
		if got := tt.size.Exceeds(tt.limit); got != tt.want {
			t.Errorf("%v.Exceeds(%d) = %v, want %v", tt.size, tt.limit, got, tt.want)
		}
	}
}
