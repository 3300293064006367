// Package server implements the MCP (Model Context Protocol) server for the
// fractal tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and progress notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Rendering:
//   - fractal_mandelbrot: Render the Mandelbrot set to PNG or a file
//   - fractal_julia: Render a Julia set to PNG or a file
//
// Raw data:
//   - fractal_divergence: Return the divergence grid as rows of integers
//   - fractal_stats: Summarise a divergence grid
//   - fractal_point: Escape value of a single point
//
// Discovery:
//   - fractal_presets: Named regions, palettes and defaults
//
// Arguments left unset fall back to the named preset, then to the
// configured defaults.
//
// # Grid Caching
//
// Computed grids are kept in a fractal.Cache keyed by their parameters, so
// re-rendering a region with another palette or gamma skips the
// computation. The cache is bounded by config.Config.CacheSize.
//
// # Progress
//
// When a tools/call request carries _meta.progressToken, the server emits
// notifications/progress messages as iterations complete.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - code: -32602 for invalid arguments, -32000 for other tool failures
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal("server failed", zap.Error(err))
//	}
package server
