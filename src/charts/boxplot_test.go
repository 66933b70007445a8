package charts

import (
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"testing"

	"github.com/iafilius/QueryDelayCharts/src/delays"
)

func sampleDataset() delays.DelayDataset {
	return delays.DelayDataset{
		"query1": {12.3, 15.1, 14.0, 18.6, 13.2},
		"query2": {45.0, 52.1, 48.8},
		"query3": {5.5, 6.1, 5.9, 7.2},
		"query4": {120.0, 98.4, 110.2, 105.7},
	}
}

func TestRenderBoxPlot_Dimensions(t *testing.T) {
	img, err := RenderBoxPlot(sampleDataset(), delays.DefaultQueryNames, Options{Width: 900, Height: 500})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 900 || b.Dy() != 500 {
		t.Fatalf("expected 900x500 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderBoxPlot_DefaultsApplied(t *testing.T) {
	img, err := RenderBoxPlot(sampleDataset(), delays.DefaultQueryNames, Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 1400 || b.Dy() != 800 {
		t.Fatalf("expected default 1400x800 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderBoxPlot_SkipsEmptyQuery(t *testing.T) {
	ds := sampleDataset()
	ds["query3"] = nil
	img, err := RenderBoxPlot(ds, delays.DefaultQueryNames, Options{Width: 600, Height: 400})
	if err != nil {
		t.Fatalf("render with empty query: %v", err)
	}
	if img == nil {
		t.Fatal("expected image")
	}
}

func TestRenderBoxPlot_AllEmptyFails(t *testing.T) {
	ds := delays.DelayDataset{"query1": {}, "query2": {}}
	if _, err := RenderBoxPlot(ds, delays.DefaultQueryNames, Options{}); err == nil {
		t.Fatal("expected error when no query has samples")
	}
}

func TestRenderBoxPlot_UnknownQueryFails(t *testing.T) {
	ds := delays.DelayDataset{"query9": {1, 2}}
	if _, err := RenderBoxPlot(ds, delays.DefaultQueryNames, Options{}); err == nil {
		t.Fatal("expected error for unmapped query identifier")
	}
}

func TestRenderBoxPlot_SingleSampleQuery(t *testing.T) {
	// One sample pins min=p25=median=p75=max; box degenerates to a line but
	// rendering must still succeed.
	ds := delays.DelayDataset{"query1": {42.0}}
	if _, err := RenderBoxPlot(ds, delays.DefaultQueryNames, Options{Width: 600, Height: 400}); err != nil {
		t.Fatalf("render single-sample dataset: %v", err)
	}
}

func TestRenderToFile_WritesDecodablePNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "delays.png")
	opts := Options{Width: 800, Height: 450, Caption: "synthetic data"}
	if err := RenderToFile(sampleDataset(), delays.DefaultQueryNames, opts, out); err != nil {
		t.Fatalf("render to file: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "png" {
		t.Fatalf("expected png, got %s", format)
	}
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 450 {
		t.Fatalf("unexpected output size %v", img.Bounds())
	}
}

func TestStripPoints_DeterministicAndInBand(t *testing.T) {
	xs1, ys1 := stripPoints(2, []float64{5, 3, 9, 7})
	xs2, ys2 := stripPoints(2, []float64{5, 3, 9, 7})
	for i := range xs1 {
		if xs1[i] != xs2[i] || ys1[i] != ys2[i] {
			t.Fatalf("strip points not deterministic at %d", i)
		}
		if xs1[i] < 2-jitterHalfWidth || xs1[i] > 2+jitterHalfWidth {
			t.Fatalf("jitter out of band: %v", xs1[i])
		}
	}
}

func TestNiceAxisBounds_NonNegativeFloor(t *testing.T) {
	lo, hi := niceAxisBounds(0, 118)
	if lo < 0 {
		t.Fatalf("lower bound went negative: %v", lo)
	}
	if hi < 118 {
		t.Fatalf("upper bound %v below max", hi)
	}
}

func TestNiceTicks_CoversRange(t *testing.T) {
	ticks := niceTicks(0, 100, 8)
	if len(ticks) < 2 {
		t.Fatalf("expected at least 2 ticks, got %d", len(ticks))
	}
	if ticks[0].Value > 0 {
		t.Fatalf("first tick %v above range start", ticks[0].Value)
	}
	last := ticks[len(ticks)-1].Value
	if last < 100-1e-9 {
		t.Fatalf("last tick %v below range end", last)
	}
}
