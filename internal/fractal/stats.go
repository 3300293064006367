package fractal

import "sort"

// EscapeCount is the number of cells that share one divergence value.
type EscapeCount struct {
	Value      int     `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Stats summarises a divergence grid.
type Stats struct {
	Rows       int `json:"rows"`
	Cols       int `json:"cols"`
	Iterations int `json:"iterations"`

	// Inside counts cells that never exceeded the tolerance.
	Inside int `json:"inside"`

	// Escaped counts cells with a divergence value below the budget.
	Escaped int `json:"escaped"`

	// InsideFraction is Inside divided by the number of cells (0-1).
	InsideFraction float64 `json:"inside_fraction"`

	// MinEscape, MaxEscape and MeanEscape describe escaped cells only and
	// are zero when nothing escaped.
	MinEscape  int     `json:"min_escape"`
	MaxEscape  int     `json:"max_escape"`
	MeanEscape float64 `json:"mean_escape"`

	// Histogram lists every distinct divergence value in ascending order.
	Histogram []EscapeCount `json:"histogram"`
}

// Summarize counts divergence values across the grid.
func Summarize(g *Grid) Stats {
	s := Stats{Rows: g.Rows, Cols: g.Cols, Iterations: g.Iterations}

	counts := make(map[int]int)
	sum := 0
	for _, v := range g.Values {
		counts[v]++
		if v >= g.Iterations {
			s.Inside++
			continue
		}
		s.Escaped++
		sum += v
		if s.Escaped == 1 || v < s.MinEscape {
			s.MinEscape = v
		}
		if v > s.MaxEscape {
			s.MaxEscape = v
		}
	}

	total := len(g.Values)
	if total > 0 {
		s.InsideFraction = float64(s.Inside) / float64(total)
	}
	if s.Escaped > 0 {
		s.MeanEscape = float64(sum) / float64(s.Escaped)
	}

	s.Histogram = make([]EscapeCount, 0, len(counts))
	for v, n := range counts {
		s.Histogram = append(s.Histogram, EscapeCount{
			Value:      v,
			Count:      n,
			Percentage: float64(n) / float64(total) * 100,
		})
	}
	sort.Slice(s.Histogram, func(i, j int) bool {
		return s.Histogram[i].Value < s.Histogram[j].Value
	})

	return s
}
