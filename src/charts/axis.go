package charts

import (
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
)

// niceAxisBounds expands [min, max] by a small margin and rounds both ends to
// increments matching the span's order of magnitude.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	if pad <= 0 {
		pad = 1
	}
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	if min >= 0 && a < 0 {
		a = 0
	}
	return a, b
}

// niceTicks generates up to n tick marks between [min, max] using nice
// increments (1, 2, 2.5, 5, 10 scaled by powers of ten).
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	step := math.Pow(10, math.Floor(math.Log10((max-min)/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := step
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		s := c * step
		count := math.Ceil((max - min) / s)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = s
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	var ticks []chart.Tick
	for v := start; v <= max+bestStep/2; v += bestStep {
		if v < min-bestStep/2 {
			continue
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
