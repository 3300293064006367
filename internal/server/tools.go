package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// computeProperties are the schema properties shared by every tool that
// runs a divergence computation.
func computeProperties() map[string]interface{} {
	return map[string]interface{}{
		"preset": map[string]interface{}{
			"type":        "string",
			"description": "Named region from the server configuration (see fractal_presets). Explicit arguments override preset values.",
		},
		"region": map[string]interface{}{
			"type":        "string",
			"description": "Complex-plane rectangle as start:end, e.g. \"-2-1.3i:1+1.3i\"",
		},
		"iterations": map[string]interface{}{
			"type":        "integer",
			"description": "Iteration budget (>= 1). Defaults to the configured value.",
		},
		"tolerance": map[string]interface{}{
			"type":        "number",
			"description": "Escape threshold compared against |z| (> 0). Default 4.0",
		},
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Grid columns / image width in pixels",
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Grid rows / image height in pixels",
		},
	}
}

// renderProperties extends computeProperties with colouring and output
// options.
func renderProperties() map[string]interface{} {
	props := computeProperties()
	props["palette"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"grayscale", "hsv", "fire", "ocean", "gradient"},
		"description": "Color palette. Default from configuration",
	}
	props["stops"] = map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": "Hex color stops (#RRGGBB) for the gradient palette",
	}
	props["inside_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Hex color for points that never escape",
	}
	props["gamma"] = map[string]interface{}{
		"type":        "number",
		"description": "Gamma correction factor. 1.0 leaves colors unchanged",
	}
	props["blur"] = map[string]interface{}{
		"type":        "number",
		"description": "Gaussian blur radius in pixels. Default 0",
	}
	props["supersample"] = map[string]interface{}{
		"type":        "integer",
		"description": "Compute at N times the resolution and downscale (1-4). Default 1",
	}
	props["outline"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Render only the boundary of the escape set",
	}
	props["grid_spacing"] = map[string]interface{}{
		"type":        "integer",
		"description": "Draw labelled coordinate lines every N pixels. 0 disables the overlay",
	}
	props["output"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional file path (.png, .jpg, .gif, .tif, .bmp). If omitted the image is returned as base64 PNG",
	}
	return props
}

func juliaProperties(props map[string]interface{}) map[string]interface{} {
	props["constant"] = map[string]interface{}{
		"type":        "string",
		"description": "Julia constant k in z² + k, e.g. \"-0.8+0.156i\"",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Rendering
		{
			Name:        "fractal_mandelbrot",
			Description: "Render the Mandelbrot set over a region of the complex plane. Returns a base64 PNG or writes an image file. The positive imaginary axis points up in the image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProperties(),
			},
		},
		{
			Name:        "fractal_julia",
			Description: "Render the Julia set for constant k over a region of the complex plane. Returns a base64 PNG or writes an image file.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": juliaProperties(renderProperties()),
			},
		},

		// Raw data
		{
			Name:        "fractal_divergence",
			Description: "Compute the escape-time divergence grid and return it as rows of integers. Row 0 samples the start of the region's imaginary range. Limited to 65536 cells.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": juliaProperties(withKind(computeProperties())),
			},
		},
		{
			Name:        "fractal_stats",
			Description: "Compute a divergence grid and summarise it: inside fraction, escape range, mean and histogram.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": juliaProperties(withKind(computeProperties())),
			},
		},
		{
			Name:        "fractal_point",
			Description: "Return the escape iteration for a single complex point.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": juliaProperties(withKind(map[string]interface{}{
					"point": map[string]interface{}{
						"type":        "string",
						"description": "Starting point, e.g. \"-0.75+0.1i\"",
					},
					"iterations": map[string]interface{}{
						"type":        "integer",
						"description": "Iteration budget (>= 1)",
					},
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Escape threshold compared against |z|. Default 4.0",
					},
				})),
				"required": []string{"point"},
			},
		},

		// Discovery
		{
			Name:        "fractal_presets",
			Description: "List the configured named regions and the available palettes with sample colors.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

func withKind(props map[string]interface{}) map[string]interface{} {
	props["kind"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"mandelbrot", "julia"},
		"description": "Recurrence family. Default mandelbrot",
	}
	return props
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
