package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ironsheep/fractal-tools-mcp/internal/config"
	"github.com/ironsheep/fractal-tools-mcp/internal/fractal"
	"github.com/ironsheep/fractal-tools-mcp/internal/render"
)

type renderFlags struct {
	kind        string
	preset      string
	region      string
	constant    string
	size        string
	iterations  int
	tolerance   float64
	workers     int
	output      string
	palette     string
	stops       []string
	inside      string
	gamma       float64
	blur        float64
	supersample int
	outline     bool
	overlay     int
}

func newRenderCmd(c *cli) *cobra.Command {
	f := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a Mandelbrot or Julia set to an image file",
		Long: `Computes a divergence grid and writes it as an image. The format follows
the output extension (.png, .jpg, .gif, .tif, .bmp). The positive imaginary
axis points up.

Unset flags fall back to the --preset, then to the config defaults.
Regions that start with a minus sign need the --region=... form.

Examples:
  fractal-mcp render -o mandelbrot.png
  fractal-mcp render --preset rabbit --size 1024x768 --palette ocean -o rabbit.png
  fractal-mcp render --region=-0.8-0.2i:-0.7-0.1i --iterations 300 --supersample 2 -o seahorse.jpg
  fractal-mcp render --kind julia --constant=-0.8+0.156i --palette gradient --stops '#000000,#00FF88,#FFFFFF' -o julia.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.kind, "kind", "", "Recurrence family: mandelbrot or julia (default mandelbrot)")
	fl.StringVar(&f.preset, "preset", "", "Named region from the config")
	fl.StringVar(&f.region, "region", "", "Complex-plane rectangle as start:end")
	fl.StringVar(&f.constant, "constant", "", "Julia constant k, e.g. -0.8+0.156i")
	fl.StringVar(&f.size, "size", "", "Image size as WIDTHxHEIGHT (default from config)")
	fl.IntVar(&f.iterations, "iterations", 0, "Iteration budget (default from preset or config)")
	fl.Float64Var(&f.tolerance, "tolerance", 0, "Escape threshold on |z| (default from config)")
	fl.IntVar(&f.workers, "workers", 0, "Parallel row bands (default from config, 0 = all CPUs)")
	fl.StringVarP(&f.output, "output", "o", "", "Output image path")
	fl.StringVar(&f.palette, "palette", "", "Palette: "+fmt.Sprint(render.PaletteNames()))
	fl.StringSliceVar(&f.stops, "stops", nil, "Hex color stops for the gradient palette")
	fl.StringVar(&f.inside, "inside", "", "Hex color for points that never escape")
	fl.Float64Var(&f.gamma, "gamma", 0, "Gamma correction (default from config)")
	fl.Float64Var(&f.blur, "blur", 0, "Gaussian blur radius in output pixels")
	fl.IntVar(&f.supersample, "supersample", 1, fmt.Sprintf("Compute at N times the resolution and downscale (1-%d)", config.MaxSupersample))
	fl.BoolVar(&f.outline, "outline", false, "Render only the boundary of the escape set")
	fl.IntVar(&f.overlay, "overlay", 0, "Draw labelled coordinate lines every N pixels")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// request converts the computation flags into a config.Request. Numeric
// flags are passed on only when set, so an explicit zero reaches validation.
func (f *renderFlags) request(fl *pflag.FlagSet) (config.Request, error) {
	req := config.Request{
		Kind:     f.kind,
		Preset:   f.preset,
		Region:   f.region,
		Constant: f.constant,
	}
	if fl.Changed("iterations") {
		req.Iterations = &f.iterations
	}
	if fl.Changed("tolerance") {
		req.Tolerance = &f.tolerance
	}
	if fl.Changed("size") {
		size, err := fractal.ParseSize(f.size)
		if err != nil {
			return req, err
		}
		req.Width = &size.Cols
		req.Height = &size.Rows
	}
	return req, nil
}

func (c *cli) runRender(cmd *cobra.Command, f *renderFlags) error {
	req, err := f.request(cmd.Flags())
	if err != nil {
		return err
	}
	p, err := c.cfg.Resolve(req)
	if err != nil {
		return err
	}
	if err := c.cfg.CheckSize(p.Size, f.supersample, 0); err != nil {
		return err
	}

	paletteName := f.palette
	if paletteName == "" {
		paletteName = c.cfg.Defaults.Palette
	}
	palette, err := render.ParsePalette(paletteName, f.stops, f.inside)
	if err != nil {
		return err
	}

	workers := c.cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = f.workers
	}

	out := p.Size
	view := p.Region
	p.Region = view.Flipped()
	p.Size = fractal.Size{Rows: out.Rows * f.supersample, Cols: out.Cols * f.supersample}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c.logger.Info("rendering",
		zap.Stringer("kind", p.Kind),
		zap.Stringer("region", view),
		zap.Stringer("size", out),
		zap.Int("supersample", f.supersample),
		zap.Int("iterations", p.Iterations),
		zap.Float64("tolerance", p.Tolerance),
	)

	start := time.Now()
	grid, err := fractal.Compute(ctx, p,
		fractal.WithWorkers(workers),
		fractal.WithProgress(progressLogger(c.logger, start)),
	)
	if err != nil {
		return fmt.Errorf("computation failed: %w", err)
	}
	computed := time.Since(start)

	opts := render.Options{
		Palette: palette,
		Gamma:   c.cfg.Defaults.Gamma,
		Blur:    f.blur * float64(f.supersample),
		Outline: f.outline,
	}
	if cmd.Flags().Changed("gamma") {
		opts.Gamma = f.gamma
	}
	if f.supersample > 1 {
		opts.Width = out.Cols
		opts.Height = out.Rows
	}
	if f.overlay > 0 {
		opts.Overlay = &render.OverlayOptions{Spacing: f.overlay, Labels: true}
	}

	img, err := render.Render(grid, p.Region, opts)
	if err != nil {
		return err
	}

	path := c.cfg.OutputPath(f.output)
	if err := render.Save(img, path); err != nil {
		return err
	}
	info, err := render.DescribeFile(path)
	if err != nil {
		return err
	}

	c.logger.Info("render complete",
		zap.String("path", info.Path),
		zap.Duration("compute", computed),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int64("bytes", info.FileSizeBytes),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d %s, %d bytes)\n",
		info.Path, info.Width, info.Height, info.Format, info.FileSizeBytes)
	return nil
}

// progressLogger logs at debug level roughly every tenth of the iterations.
func progressLogger(logger *zap.Logger, start time.Time) fractal.ProgressFunc {
	return func(done, total int) {
		step := max(1, total/10)
		if done%step != 0 && done != total {
			return
		}
		logger.Debug("progress",
			zap.Int("iteration", done),
			zap.Int("total", total),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
