package fractal

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseKind accepts "mandelbrot" or "julia" in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mandelbrot", "":
		return Mandelbrot, nil
	case "julia":
		return Julia, nil
	default:
		return 0, fmt.Errorf("%w: unknown fractal kind %q", ErrInvalidParameter, s)
	}
}

// ParseComplex parses a number such as "-0.8+0.156i", "2", or "(1-1i)".
func ParseComplex(s string) (complex128, error) {
	z, err := strconv.ParseComplex(strings.TrimSpace(s), 128)
	if err != nil {
		return 0, fmt.Errorf("%w: bad complex number %q", ErrInvalidParameter, s)
	}
	return z, nil
}

// ParseRange parses "start:end", for example "-2-1.3i:1+1.3i".
func ParseRange(s string) (Range, error) {
	start, end, ok := strings.Cut(s, ":")
	if !ok {
		return Range{}, fmt.Errorf("%w: region %q must have the form start:end", ErrInvalidParameter, s)
	}
	a, err := ParseComplex(start)
	if err != nil {
		return Range{}, err
	}
	b, err := ParseComplex(end)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: a, End: b}, nil
}

// ParseSize parses "COLSxROWS", matching the usual width x height notation.
func ParseSize(s string) (Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Size{}, fmt.Errorf("%w: size %q must have the form WIDTHxHEIGHT", ErrInvalidParameter, s)
	}
	cols, err := strconv.Atoi(w)
	if err != nil {
		return Size{}, fmt.Errorf("%w: bad width in %q", ErrInvalidParameter, s)
	}
	rows, err := strconv.Atoi(h)
	if err != nil {
		return Size{}, fmt.Errorf("%w: bad height in %q", ErrInvalidParameter, s)
	}
	if rows < 1 || cols < 1 {
		return Size{}, fmt.Errorf("%w: image size must be positive, got %q", ErrInvalidParameter, s)
	}
	return Size{Rows: rows, Cols: cols}, nil
}
