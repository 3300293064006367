package config

import (
	"fmt"

	"github.com/ironsheep/fractal-tools-mcp/internal/fractal"
)

// MaxSupersample bounds the supersampling factor of a render.
const MaxSupersample = 4

// Request holds computation arguments as they arrive from a tool call or
// the command line. Empty strings and nil pointers mean "not given"; an
// explicit zero is kept and fails validation.
type Request struct {
	Kind       string   `json:"kind"`
	Preset     string   `json:"preset"`
	Region     string   `json:"region"`
	Constant   string   `json:"constant"`
	Iterations *int     `json:"iterations"`
	Tolerance  *float64 `json:"tolerance"`
	Width      *int     `json:"width"`
	Height     *int     `json:"height"`
}

// Resolve turns r into validated fractal parameters. Each value is taken
// from r if given, else from the named preset, else from Defaults. The
// kind defaults to Mandelbrot and the region to the kind's default view.
//
// An explicit kind that contradicts the preset's kind is an error.
func (c *Config) Resolve(r Request) (fractal.Params, error) {
	var p fractal.Params

	var preset *ResolvedPreset
	if r.Preset != "" {
		pr, ok := c.Presets[r.Preset]
		if !ok {
			return p, fmt.Errorf("%w: unknown preset %q", fractal.ErrInvalidParameter, r.Preset)
		}
		rp, err := pr.Resolve()
		if err != nil {
			return p, fmt.Errorf("preset %s: %w", r.Preset, err)
		}
		preset = rp
	}

	switch {
	case r.Kind != "":
		k, err := fractal.ParseKind(r.Kind)
		if err != nil {
			return p, err
		}
		p.Kind = k
		if preset != nil && preset.Kind != k {
			return p, fmt.Errorf("%w: preset %q is a %s preset, not %s",
				fractal.ErrInvalidParameter, r.Preset, preset.Kind, k)
		}
	case preset != nil:
		p.Kind = preset.Kind
	default:
		p.Kind = fractal.Mandelbrot
	}

	switch {
	case r.Region != "":
		region, err := fractal.ParseRange(r.Region)
		if err != nil {
			return p, err
		}
		p.Region = region
	case preset != nil:
		p.Region = preset.Region
	default:
		p.Region = p.Kind.DefaultRegion()
	}

	if r.Constant != "" {
		k, err := fractal.ParseComplex(r.Constant)
		if err != nil {
			return p, err
		}
		p.Constant = &k
	} else if preset != nil {
		p.Constant = preset.Constant
	}

	p.Iterations = c.Defaults.Iterations
	if preset != nil && preset.Iterations > 0 {
		p.Iterations = preset.Iterations
	}
	if r.Iterations != nil {
		p.Iterations = *r.Iterations
	}

	p.Tolerance = c.Defaults.Tolerance
	if r.Tolerance != nil {
		p.Tolerance = *r.Tolerance
	}

	size, err := fractal.ParseSize(c.Defaults.Size)
	if err != nil {
		return p, err
	}
	if r.Width != nil {
		size.Cols = *r.Width
	}
	if r.Height != nil {
		size.Rows = *r.Height
	}
	p.Size = size

	return p, p.Validate()
}

// CheckSize rejects a computation of size scaled by scale in both
// dimensions when it would exceed MaxCells (or limit, if smaller and
// positive). It never overflows, whatever the dimensions.
func (c *Config) CheckSize(size fractal.Size, scale, limit int) error {
	if limit < 1 || limit > c.MaxCells {
		limit = c.MaxCells
	}
	if scale < 1 || scale > MaxSupersample {
		return fmt.Errorf("%w: supersample must be between 1 and %d, got %d",
			fractal.ErrInvalidParameter, MaxSupersample, scale)
	}
	// Each dimension alone must fit before it is scaled, so the scaled
	// dimensions cannot overflow.
	if size.Rows > limit/scale || size.Cols > limit/scale {
		return fmt.Errorf("%w: grid of %dx%d (x%d) exceeds the limit of %d cells",
			fractal.ErrInvalidParameter, size.Cols, size.Rows, scale, limit)
	}
	scaled := fractal.Size{Rows: size.Rows * scale, Cols: size.Cols * scale}
	if scaled.Exceeds(limit) {
		return fmt.Errorf("%w: grid of %dx%d (x%d) exceeds the limit of %d cells",
			fractal.ErrInvalidParameter, size.Cols, size.Rows, scale, limit)
	}
	return nil
}
