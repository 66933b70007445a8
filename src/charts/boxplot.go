// Package charts renders delay distributions as annotated box-and-strip
// charts, headlessly, for PNG export.
package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"sort"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/QueryDelayCharts/src/analysis"
	"github.com/iafilius/QueryDelayCharts/src/delays"
)

const (
	boxHalfWidth     = 0.22
	whiskerHalfWidth = 0.10
	jitterHalfWidth  = 0.16
)

// Options controls chart rendering. Zero values fall back to defaults.
type Options struct {
	Title   string
	Width   int
	Height  int
	Caption string // optional footer text drawn onto the image
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "End-to-End Delay Distribution for Each gRPC Query"
	}
	if o.Width <= 0 {
		o.Width = 1400
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	return o
}

// boxStyle returns a line-only style for box/whisker segments.
func boxStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2.0,
		StrokeColor: col,
	}
}

// pointStyle returns a style that renders points only (no connecting line).
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

// RenderBoxPlot draws one box per query (whiskers at min/max, box spanning
// p25..p75, median line), overlays every raw sample as a jittered dot, and
// annotates each box with its median and quartiles. Boxes are laid out at
// integer x slots in sorted query-identifier order; each slot's geometry and
// labels come from a keyed lookup of that query's summary, so slots can never
// pick up a neighbor's statistics.
//
// Queries with zero samples are skipped (a warning is logged); rendering
// fails only when no query has samples at all.
func RenderBoxPlot(ds delays.DelayDataset, names map[string]string, opts Options) (image.Image, error) {
	opts = opts.withDefaults()
	sums, empty, err := analysis.Summarize(ds, names)
	if err != nil {
		return nil, err
	}
	for _, id := range empty {
		delays.Warnf("query %q has no samples; omitting from chart", id)
	}
	if len(sums) == 0 {
		return nil, fmt.Errorf("no queries with samples to plot")
	}

	// Slot order: sorted query identifiers, restricted to non-empty queries.
	slots := make([]string, 0, len(sums))
	for _, id := range analysis.SortedQueryIDs(ds) {
		if len(ds[id]) > 0 {
			slots = append(slots, id)
		}
	}

	var series []chart.Series
	var notes []chart.Value2
	maxY := -math.MaxFloat64
	ticks := []chart.Tick{{Value: -0.5, Label: ""}}
	for i, id := range slots {
		x := float64(i)
		name := names[id]
		s := sums[name]
		col := chart.GetDefaultColor(i)

		// Lower whisker, upper whisker, whisker caps.
		series = append(series,
			chart.ContinuousSeries{
				XValues: []float64{x, x},
				YValues: []float64{s.MinMs, s.P25Ms},
				Style:   boxStyle(col),
			},
			chart.ContinuousSeries{
				XValues: []float64{x, x},
				YValues: []float64{s.P75Ms, s.MaxMs},
				Style:   boxStyle(col),
			},
			chart.ContinuousSeries{
				XValues: []float64{x - whiskerHalfWidth, x + whiskerHalfWidth},
				YValues: []float64{s.MinMs, s.MinMs},
				Style:   boxStyle(col),
			},
			chart.ContinuousSeries{
				XValues: []float64{x - whiskerHalfWidth, x + whiskerHalfWidth},
				YValues: []float64{s.MaxMs, s.MaxMs},
				Style:   boxStyle(col),
			},
			// Box outline p25..p75, closed.
			chart.ContinuousSeries{
				XValues: []float64{x - boxHalfWidth, x + boxHalfWidth, x + boxHalfWidth, x - boxHalfWidth, x - boxHalfWidth},
				YValues: []float64{s.P25Ms, s.P25Ms, s.P75Ms, s.P75Ms, s.P25Ms},
				Style:   boxStyle(col),
			},
			// Median line.
			chart.ContinuousSeries{
				XValues: []float64{x - boxHalfWidth, x + boxHalfWidth},
				YValues: []float64{s.MedianMs, s.MedianMs},
				Style:   boxStyle(chart.ColorBlack),
			},
		)

		// Strip overlay: raw samples with deterministic jitter inside the slot.
		xs, ys := stripPoints(x, ds[id])
		series = append(series, chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(drawing.Color{R: 0, G: 0, B: 0, A: 150}),
		})

		notes = append(notes,
			chart.Value2{XValue: x + boxHalfWidth, YValue: s.MedianMs, Label: fmt.Sprintf("Median: %.2f", s.MedianMs)},
			chart.Value2{XValue: x + boxHalfWidth, YValue: s.P25Ms, Label: fmt.Sprintf("25%%: %.2f", s.P25Ms)},
			chart.Value2{XValue: x + boxHalfWidth, YValue: s.P75Ms, Label: fmt.Sprintf("75%%: %.2f", s.P75Ms)},
		)
		if s.MaxMs > maxY {
			maxY = s.MaxMs
		}
		ticks = append(ticks, chart.Tick{Value: x, Label: name})
	}
	ticks = append(ticks, chart.Tick{Value: float64(len(slots)) - 0.5, Label: ""})
	series = append(series, chart.AnnotationSeries{Annotations: notes})

	if maxY <= 0 {
		maxY = 1
	}
	_, nMax := niceAxisBounds(0, maxY)

	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 48}},
		XAxis: chart.XAxis{
			Name:  "gRPC Query",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(slots)) - 0.5},
		},
		YAxis: chart.YAxis{
			Name:  "Delay (ms)",
			Range: &chart.ContinuousRange{Min: 0, Max: nMax},
			Ticks: niceTicks(0, nMax, 8),
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode rendered chart: %w", err)
	}
	if opts.Caption != "" {
		img = drawCaption(img, opts.Caption)
	}
	return img, nil
}

// RenderToFile renders the box plot and writes it as a PNG to outPath.
func RenderToFile(ds delays.DelayDataset, names map[string]string, opts Options, outPath string) error {
	opts = opts.withDefaults()
	img, err := RenderBoxPlot(ds, names, opts)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	delays.Infof("wrote %s (%dx%d, %d bytes)", outPath, opts.Width, opts.Height, buf.Len())
	return nil
}

// stripPoints spreads samples across the slot's jitter band by value rank, so
// repeated renders of the same dataset place every dot identically.
func stripPoints(x float64, samples []float64) (xs, ys []float64) {
	n := len(samples)
	xs = make([]float64, n)
	ys = make([]float64, n)
	ranked := append([]float64(nil), samples...)
	sort.Float64s(ranked)
	for i, v := range ranked {
		frac := 0.5
		if n > 1 {
			frac = float64(i) / float64(n-1)
		}
		xs[i] = x - jitterHalfWidth + 2*jitterHalfWidth*frac
		ys[i] = v
	}
	return xs, ys
}

// drawCaption draws footer text onto the bottom-left of the image with a
// semi-opaque background for readability.
func drawCaption(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	shadowCol := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 180})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	// Shadow first for contrast on varying backgrounds.
	drShadow := &font.Drawer{Dst: rgba, Src: shadowCol, Face: face, Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	drShadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
