package render

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/fractal-tools-mcp/internal/fractal"
)

// Options controls the render pipeline.
type Options struct {
	Palette Palette

	// Gamma applies gamma correction when not 0 or 1.
	Gamma float64

	// Blur is the Gaussian blur radius in pixels; 0 disables it.
	Blur float64

	// Width and Height, when set, resize the final image with a Lanczos
	// filter. Used to downsample a supersampled grid.
	Width  int
	Height int

	// Outline renders the escape-set boundary instead of palette colours.
	Outline bool

	// Overlay draws labelled coordinate lines over the result.
	Overlay *OverlayOptions
}

// Render runs the pipeline: colour (or outline), gamma, blur, resize,
// overlay. Invalid options wrap fractal.ErrInvalidParameter.
//
// region is the range the grid was computed over; it is only used by the
// overlay.
func Render(grid *fractal.Grid, region fractal.Range, opts Options) (image.Image, error) {
	if grid == nil || grid.Rows == 0 || grid.Cols == 0 {
		return nil, fmt.Errorf("%w: empty divergence grid", fractal.ErrInvalidParameter)
	}
	if opts.Gamma < 0 {
		return nil, fmt.Errorf("%w: gamma must not be negative, got %v", fractal.ErrInvalidParameter, opts.Gamma)
	}
	if opts.Blur < 0 {
		return nil, fmt.Errorf("%w: blur radius must not be negative, got %v", fractal.ErrInvalidParameter, opts.Blur)
	}
	if opts.Width < 0 || opts.Height < 0 {
		return nil, fmt.Errorf("%w: output size must not be negative, got %dx%d",
			fractal.ErrInvalidParameter, opts.Width, opts.Height)
	}

	var img image.Image
	if opts.Outline {
		img = Outline(grid, 0.1)
	} else {
		p := opts.Palette
		if p == nil {
			p = Grayscale{}
		}
		img = Colorize(grid, p)
	}

	if opts.Gamma != 0 && opts.Gamma != 1 {
		img = adjust.Gamma(img, opts.Gamma)
	}
	if opts.Blur > 0 {
		img = blur.Gaussian(img, opts.Blur)
	}
	img = Resize(img, opts.Width, opts.Height)

	if opts.Overlay != nil {
		out, err := Overlay(img, region, *opts.Overlay)
		if err != nil {
			return nil, err
		}
		img = out
	}
	return img, nil
}

// Resize scales img to width x height with a Lanczos filter. A zero
// dimension preserves the aspect ratio; both zero, or a size equal to the
// current one, returns img unchanged.
func Resize(img image.Image, width, height int) image.Image {
	if width == 0 && height == 0 {
		return img
	}
	b := img.Bounds()
	if width == b.Dx() && height == b.Dy() {
		return img
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}
