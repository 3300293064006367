package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/fractal-tools-mcp/internal/config"
	"github.com/ironsheep/fractal-tools-mcp/internal/fractal"
	"github.com/ironsheep/fractal-tools-mcp/internal/render"
)

// MaxDivergenceCells bounds the grid returned verbatim by fractal_divergence.
// The configured max_cells applies when it is smaller.
const MaxDivergenceCells = 65536

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "fractal_mandelbrot").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`

	// Meta carries the optional progress token. When present, long
	// computations report notifications/progress messages.
	Meta *struct {
		ProgressToken interface{} `json:"progressToken"`
	} `json:"_meta,omitempty"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument errors return -32602, other tool failures -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	var token interface{}
	if params.Meta != nil {
		token = params.Meta.ProgressToken
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments, token)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		if errors.Is(err, fractal.ErrInvalidParameter) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage, token interface{}) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "fractal_mandelbrot":
		return s.handleRender(ctx, fractal.Mandelbrot, args, token)
	case "fractal_julia":
		return s.handleRender(ctx, fractal.Julia, args, token)
	case "fractal_divergence":
		return s.handleDivergence(ctx, args, token)
	case "fractal_stats":
		return s.handleStats(ctx, args, token)
	case "fractal_point":
		return s.handlePoint(args)
	case "fractal_presets":
		return s.handlePresets()
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, tagging failures as parameter errors.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", fractal.ErrInvalidParameter, err)
	}
	return nil
}

// compute fetches p from the grid cache, computing it on a miss. Progress
// is reported about twenty times per computation when token is set.
func (s *Server) compute(ctx context.Context, jobID string, p fractal.Params, token interface{}) (*fractal.Grid, bool, error) {
	opts := []fractal.Option{fractal.WithWorkers(s.cfg.Workers)}
	if token != nil {
		step := max(1, p.Iterations/20)
		opts = append(opts, fractal.WithProgress(func(done, total int) {
			if done%step == 0 || done == total {
				s.notifyProgress(token, done, total)
			}
		}))
	}

	start := time.Now()
	grid, hit, err := s.cache.Compute(ctx, p, opts...)
	if err != nil {
		return nil, false, err
	}

	s.logger.Info("divergence grid ready",
		zap.String("job_id", jobID),
		zap.Stringer("kind", p.Kind),
		zap.Stringer("size", p.Size),
		zap.Int("iterations", p.Iterations),
		zap.Bool("cache_hit", hit),
		zap.Duration("elapsed", time.Since(start)),
	)
	return grid, hit, nil
}

// gridInfo echoes the resolved parameters of a computation.
type gridInfo struct {
	JobID      string  `json:"job_id"`
	Kind       string  `json:"kind"`
	Region     string  `json:"region"`
	Constant   string  `json:"constant,omitempty"`
	Iterations int     `json:"iterations"`
	Tolerance  float64 `json:"tolerance"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	CacheHit   bool    `json:"cache_hit"`
}

func newGridInfo(jobID string, p fractal.Params, hit bool) gridInfo {
	info := gridInfo{
		JobID:      jobID,
		Kind:       p.Kind.String(),
		Region:     p.Region.String(),
		Iterations: p.Iterations,
		Tolerance:  p.Tolerance,
		Width:      p.Size.Cols,
		Height:     p.Size.Rows,
		CacheHit:   hit,
	}
	if p.Kind == fractal.Julia && p.Constant != nil {
		info.Constant = fractal.FormatComplex(*p.Constant)
	}
	return info
}

// === Render Handlers ===

type renderArgs struct {
	config.Request
	Palette     string   `json:"palette"`
	Stops       []string `json:"stops"`
	InsideColor string   `json:"inside_color"`
	Gamma       *float64 `json:"gamma"`
	Blur        float64  `json:"blur"`
	Supersample int      `json:"supersample"`
	Outline     bool     `json:"outline"`
	GridSpacing int      `json:"grid_spacing"`
	Output      string   `json:"output"`
}

type renderResult struct {
	gridInfo
	Palette string              `json:"palette"`
	Image   *render.ImageResult `json:"image,omitempty"`
	File    *render.FileInfo    `json:"file,omitempty"`
}

// handleRender computes a grid with the positive imaginary axis at the top
// of the image and runs it through the render pipeline.
func (s *Server) handleRender(ctx context.Context, kind fractal.Kind, args json.RawMessage, token interface{}) (interface{}, error) {
	var a renderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	ss := a.Supersample
	if ss == 0 {
		ss = 1
	}

	// The tool decides the kind, so a preset of the other kind is rejected.
	a.Kind = kind.String()
	p, err := s.cfg.Resolve(a.Request)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.CheckSize(p.Size, ss, 0); err != nil {
		return nil, err
	}

	paletteName := a.Palette
	if paletteName == "" {
		paletteName = s.cfg.Defaults.Palette
	}
	palette, err := render.ParsePalette(paletteName, a.Stops, a.InsideColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fractal.ErrInvalidParameter, err)
	}

	out := p.Size
	view := p.Region
	p.Region = view.Flipped()
	p.Size = fractal.Size{Rows: out.Rows * ss, Cols: out.Cols * ss}

	jobID := uuid.NewString()
	grid, hit, err := s.compute(ctx, jobID, p, token)
	if err != nil {
		return nil, err
	}

	opts := render.Options{
		Palette: palette,
		Gamma:   s.cfg.Defaults.Gamma,
		Blur:    a.Blur * float64(ss),
		Outline: a.Outline,
	}
	if a.Gamma != nil {
		opts.Gamma = *a.Gamma
	}
	if ss > 1 {
		opts.Width = out.Cols
		opts.Height = out.Rows
	}
	if a.GridSpacing > 0 {
		opts.Overlay = &render.OverlayOptions{Spacing: a.GridSpacing, Labels: true}
	}

	// Option errors already wrap ErrInvalidParameter; anything else is a
	// tool failure.
	img, err := render.Render(grid, p.Region, opts)
	if err != nil {
		return nil, err
	}

	p.Region = view
	p.Size = out
	result := renderResult{
		gridInfo: newGridInfo(jobID, p, hit),
		Palette:  paletteName,
	}

	if a.Output != "" {
		path := s.cfg.OutputPath(a.Output)
		if err := render.Save(img, path); err != nil {
			return nil, err
		}
		info, err := render.DescribeFile(path)
		if err != nil {
			return nil, err
		}
		result.File = info
		s.logger.Info("image written", zap.String("job_id", jobID), zap.String("path", path))
		return result, nil
	}

	encoded, err := render.EncodeBase64PNG(img)
	if err != nil {
		return nil, err
	}
	result.Image = encoded
	return result, nil
}

// === Raw Grid Handlers ===

type divergenceResult struct {
	gridInfo
	Values [][]int `json:"values"`
}

func (s *Server) handleDivergence(ctx context.Context, args json.RawMessage, token interface{}) (interface{}, error) {
	var a config.Request
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	p, err := s.cfg.Resolve(a)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.CheckSize(p.Size, 1, MaxDivergenceCells); err != nil {
		return nil, err
	}

	jobID := uuid.NewString()
	grid, hit, err := s.compute(ctx, jobID, p, token)
	if err != nil {
		return nil, err
	}

	return divergenceResult{
		gridInfo: newGridInfo(jobID, p, hit),
		Values:   grid.Rows2D(),
	}, nil
}

type statsResult struct {
	gridInfo
	Stats fractal.Stats `json:"stats"`
}

func (s *Server) handleStats(ctx context.Context, args json.RawMessage, token interface{}) (interface{}, error) {
	var a config.Request
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	p, err := s.cfg.Resolve(a)
	if err != nil {
		return nil, err
	}
	if err := s.cfg.CheckSize(p.Size, 1, 0); err != nil {
		return nil, err
	}

	jobID := uuid.NewString()
	grid, hit, err := s.compute(ctx, jobID, p, token)
	if err != nil {
		return nil, err
	}

	return statsResult{
		gridInfo: newGridInfo(jobID, p, hit),
		Stats:    fractal.Summarize(grid),
	}, nil
}

type pointArgs struct {
	config.Request
	Point string `json:"point"`
}

func (s *Server) handlePoint(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Point == "" {
		return nil, fmt.Errorf("%w: point is required", fractal.ErrInvalidParameter)
	}

	z0, err := fractal.ParseComplex(a.Point)
	if err != nil {
		return nil, err
	}
	p, err := s.cfg.Resolve(a.Request)
	if err != nil {
		return nil, err
	}

	return fractal.EvaluatePoint(p.Kind, p.Iterations, p.Tolerance, z0, p.Constant)
}

// === Discovery Handlers ===

type presetInfo struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Region      string `json:"region"`
	Constant    string `json:"constant,omitempty"`
	Iterations  int    `json:"iterations,omitempty"`
	Description string `json:"description,omitempty"`
}

type paletteInfo struct {
	Name     string   `json:"name"`
	Swatches []string `json:"swatches,omitempty"`
}

type presetsResult struct {
	Presets  []presetInfo          `json:"presets"`
	Palettes []paletteInfo         `json:"palettes"`
	Defaults config.RenderDefaults `json:"defaults"`
}

func (s *Server) handlePresets() (interface{}, error) {
	result := presetsResult{Defaults: s.cfg.Defaults}

	for _, name := range s.cfg.PresetNames() {
		p := s.cfg.Presets[name]
		result.Presets = append(result.Presets, presetInfo{
			Name:        name,
			Kind:        p.Kind,
			Region:      p.Region,
			Constant:    p.Constant,
			Iterations:  p.Iterations,
			Description: p.Description,
		})
	}

	for _, name := range render.PaletteNames() {
		info := paletteInfo{Name: name}
		// "gradient" needs caller-supplied stops, so it has no swatches.
		if pal, err := render.ParsePalette(name, nil, ""); err == nil {
			info.Swatches = render.Swatches(pal, s.cfg.Defaults.Iterations, 8)
		}
		result.Palettes = append(result.Palettes, info)
	}

	return result, nil
}
