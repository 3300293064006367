// Package config loads fractal-mcp settings from YAML.
//
// A missing config file is not an error: DefaultConfig is used instead.
// Environment variables override file values (see ApplyEnv).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/fractal-tools-mcp/internal/fractal"
)

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel  = "FRACTAL_MCP_LOG_LEVEL"
	EnvWorkers   = "FRACTAL_MCP_WORKERS"
	EnvOutputDir = "FRACTAL_MCP_OUTPUT_DIR"
)

// DefaultMaxCells allows a 4096x4096 grid.
const DefaultMaxCells = 4096 * 4096

// Config holds all fractal-mcp configuration.
type Config struct {
	// Defaults apply to any argument a request or flag leaves unset.
	Defaults RenderDefaults `yaml:"defaults"`

	// Presets are named regions selectable by name.
	Presets map[string]Preset `yaml:"presets"`

	// Workers bounds parallel row bands per computation. 0 = GOMAXPROCS.
	Workers int `yaml:"workers"`

	// CacheSize is the number of grids the server keeps. 0 = unbounded.
	CacheSize int `yaml:"cache_size"`

	// MaxCells bounds rows x cols of any computation, after supersampling.
	MaxCells int `yaml:"max_cells"`

	// OutputDir is where relative output paths are resolved.
	OutputDir string `yaml:"output_dir"`

	Logging LoggingConfig `yaml:"logging"`
}

// RenderDefaults are the fallback computation and colouring settings.
type RenderDefaults struct {
	Iterations int     `yaml:"iterations" json:"iterations"`
	Tolerance  float64 `yaml:"tolerance" json:"tolerance"`
	Size       string  `yaml:"size" json:"size"` // WIDTHxHEIGHT
	Palette    string  `yaml:"palette" json:"palette"`
	Gamma      float64 `yaml:"gamma" json:"gamma"`
}

// Preset is a named view of the complex plane.
type Preset struct {
	Kind        string `yaml:"kind"`
	Region      string `yaml:"region"`             // start:end
	Constant    string `yaml:"constant,omitempty"` // Julia only
	Iterations  int    `yaml:"iterations,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// LoggingConfig selects the log level: "debug", "info", "warn" or "error".
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Defaults: RenderDefaults{
			Iterations: 100,
			Tolerance:  4.0,
			Size:       "800x600",
			Palette:    "grayscale",
			Gamma:      1.0,
		},
		Presets: map[string]Preset{
			"classic": {
				Kind:        "mandelbrot",
				Region:      "-2-1.3i:1+1.3i",
				Description: "Whole Mandelbrot set",
			},
			"seahorse": {
				Kind:        "mandelbrot",
				Region:      "-0.8-0.2i:-0.7-0.1i",
				Iterations:  300,
				Description: "Seahorse valley",
			},
			"dendrite": {
				Kind:        "julia",
				Region:      "-1.5-1i:1.5+1i",
				Constant:    "0+1i",
				Description: "Dendrite Julia set, k = i",
			},
			"rabbit": {
				Kind:        "julia",
				Region:      "-1.5-1i:1.5+1i",
				Constant:    "-0.123+0.745i",
				Description: "Douady rabbit",
			},
			"san-marco": {
				Kind:        "julia",
				Region:      "-2-1i:2+1i",
				Constant:    "-0.75+0i",
				Description: "San Marco dragon",
			},
		},
		CacheSize: 32,
		MaxCells:  DefaultMaxCells,
		Logging:   LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config from path on top of DefaultConfig. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from FRACTAL_MCP_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	return c.Validate()
}

// Validate checks defaults and every preset.
func (c *Config) Validate() error {
	d := c.Defaults
	if d.Iterations < 1 {
		return fmt.Errorf("defaults.iterations must be positive, got %d", d.Iterations)
	}
	if !(d.Tolerance > 0) {
		return fmt.Errorf("defaults.tolerance must be positive, got %v", d.Tolerance)
	}
	if _, err := fractal.ParseSize(d.Size); err != nil {
		return fmt.Errorf("defaults.size: %w", err)
	}
	if d.Gamma < 0 {
		return fmt.Errorf("defaults.gamma must not be negative, got %v", d.Gamma)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.MaxCells < 1 {
		return fmt.Errorf("max_cells must be positive, got %d", c.MaxCells)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	for _, name := range c.PresetNames() {
		if _, err := c.Presets[name].Resolve(); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
	}
	return nil
}

// PresetNames returns preset names in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolvedPreset is a Preset with its strings parsed.
type ResolvedPreset struct {
	Kind       fractal.Kind
	Region     fractal.Range
	Constant   *complex128
	Iterations int
}

// Resolve parses the preset's kind, region and constant.
func (p Preset) Resolve() (*ResolvedPreset, error) {
	kind, err := fractal.ParseKind(p.Kind)
	if err != nil {
		return nil, err
	}
	region, err := fractal.ParseRange(p.Region)
	if err != nil {
		return nil, err
	}
	rp := &ResolvedPreset{Kind: kind, Region: region, Iterations: p.Iterations}
	if p.Constant != "" {
		k, err := fractal.ParseComplex(p.Constant)
		if err != nil {
			return nil, err
		}
		rp.Constant = &k
	}
	if kind == fractal.Julia && rp.Constant == nil {
		return nil, fmt.Errorf("%w: Julia set requires a constant", fractal.ErrInvalidParameter)
	}
	return rp, nil
}

// OutputPath resolves name against OutputDir unless it is absolute.
func (c *Config) OutputPath(name string) string {
	if filepath.IsAbs(name) || c.OutputDir == "" {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}
