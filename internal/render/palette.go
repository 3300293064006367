package render

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette maps a divergence value to a colour.
//
// value lies in [1, iterations]; value == iterations means the cell never
// escaped.
type Palette interface {
	Color(value, iterations int) color.NRGBA
}

// Built-in gradient stops.
var builtinGradients = map[string][]string{
	"fire":  {"#000000", "#7F0000", "#FF4500", "#FFD700", "#FFFFFF"},
	"ocean": {"#000428", "#004E92", "#00C6FF", "#E0FFFF"},
}

// PaletteNames lists the names accepted by ParsePalette.
func PaletteNames() []string {
	return []string{"grayscale", "hsv", "fire", "ocean", "gradient"}
}

// ParsePalette builds a palette by name.
//
// Parameters:
//   - name: "grayscale", "hsv", "fire", "ocean" or "gradient".
//   - stops: colour stops for "gradient" ("#RRGGBB"); at least two required.
//     Ignored by the other palettes.
//   - inside: optional "#RRGGBB" or "#RRGGBBAA" colour for cells that never
//     escaped. Empty keeps the palette's default.
func ParsePalette(name string, stops []string, inside string) (Palette, error) {
	var insideColor *color.NRGBA
	if inside != "" {
		c, err := parseHexColor(inside)
		if err != nil {
			return nil, fmt.Errorf("invalid inside color %q: %w", inside, err)
		}
		n := color.NRGBA(c)
		insideColor = &n
	}

	switch strings.ToLower(name) {
	case "", "grayscale", "gray", "grey":
		return Grayscale{Inside: insideColor}, nil
	case "hsv":
		p := HSV{Inside: color.NRGBA{A: 255}}
		if insideColor != nil {
			p.Inside = *insideColor
		}
		return p, nil
	case "gradient":
		return NewGradient(stops, insideColor)
	default:
		if builtin, ok := builtinGradients[strings.ToLower(name)]; ok {
			return NewGradient(builtin, insideColor)
		}
		return nil, fmt.Errorf("unknown palette: %s", name)
	}
}

// Grayscale maps value/iterations linearly to intensity: cells that escape
// immediately are dark and cells that never escape are white.
type Grayscale struct {
	// Inside overrides the colour of cells that never escaped.
	Inside *color.NRGBA
}

// Color implements Palette.
func (p Grayscale) Color(value, iterations int) color.NRGBA {
	if value >= iterations && p.Inside != nil {
		return *p.Inside
	}
	level := uint8(255 * fraction(value, iterations))
	return color.NRGBA{R: level, G: level, B: level, A: 255}
}

// HSV sweeps the hue wheel with the escape fraction.
type HSV struct {
	Inside color.NRGBA
}

// Color implements Palette.
func (p HSV) Color(value, iterations int) color.NRGBA {
	if value >= iterations {
		return p.Inside
	}
	return toNRGBA(colorful.Hsv(360*fraction(value, iterations), 1, 1))
}

// Gradient blends between evenly spaced colour stops in HCL space.
type Gradient struct {
	stops  []colorful.Color
	inside color.NRGBA
}

// NewGradient parses hex stops into a gradient. Cells that never escaped
// use inside, or black when inside is nil.
func NewGradient(stops []string, inside *color.NRGBA) (*Gradient, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("gradient needs at least 2 color stops, got %d", len(stops))
	}
	g := &Gradient{
		stops:  make([]colorful.Color, 0, len(stops)),
		inside: color.NRGBA{A: 255},
	}
	if inside != nil {
		g.inside = *inside
	}
	for _, s := range stops {
		c, err := colorful.Hex(normalizeHex(s))
		if err != nil {
			return nil, fmt.Errorf("invalid color stop %q: %w", s, err)
		}
		g.stops = append(g.stops, c)
	}
	return g, nil
}

// Color implements Palette.
func (g *Gradient) Color(value, iterations int) color.NRGBA {
	if value >= iterations {
		return g.inside
	}
	pos := fraction(value, iterations) * float64(len(g.stops)-1)
	i := int(pos)
	if i >= len(g.stops)-1 {
		return toNRGBA(g.stops[len(g.stops)-1])
	}
	return toNRGBA(g.stops[i].BlendHcl(g.stops[i+1], pos-float64(i)))
}

func fraction(value, iterations int) float64 {
	if iterations <= 0 {
		return 0
	}
	f := float64(value) / float64(iterations)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// normalizeHex accepts "RRGGBB" or "#RRGGBB" and returns lower-case
// "#rrggbb" as colorful.Hex expects.
func normalizeHex(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return s
}
