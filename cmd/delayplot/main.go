// delayplot renders the end-to-end delay distribution of benchmarked gRPC
// queries as an annotated box-and-strip chart.
//
// It reads a delays JSON file (object of query identifier -> array of delay
// samples in ms), maps identifiers to display names, computes per-query
// median/quartiles, and writes the chart as a PNG. All errors are fatal; this
// is a one-shot batch job with no partial success.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/iafilius/QueryDelayCharts/src/charts"
	"github.com/iafilius/QueryDelayCharts/src/delays"
)

func main() {
	var (
		file     string
		out      string
		namesArg string
		title    string
		caption  string
		width    int
		height   int
		logLevel string
	)
	flag.StringVar(&file, "file", "", "Path to delays JSON file (required)")
	flag.StringVar(&out, "out", "e2e_delay_boxplots.png", "Output PNG path")
	flag.StringVar(&namesArg, "names", "", "Optional JSONC file mapping query identifiers to display names (replaces built-in mapping)")
	flag.StringVar(&title, "title", "", "Chart title (default: built-in)")
	flag.StringVar(&caption, "caption", "", "Optional footer caption drawn onto the image")
	flag.IntVar(&width, "width", 1400, "Chart width in pixels")
	flag.IntVar(&height, "height", 800, "Chart height in pixels")
	flag.StringVar(&logLevel, "loglevel", "info", "Log level: debug, info, warn, error")
	flag.Parse()
	delays.SetLogLevel(logLevel)

	if file == "" {
		delays.Errorf("missing required -file")
		flag.Usage()
		os.Exit(2)
	}

	names := delays.DefaultQueryNames
	if namesArg != "" {
		var err error
		names, err = delays.LoadQueryNames(namesArg)
		if err != nil {
			delays.Errorf("%v", err)
			os.Exit(1)
		}
	}

	start := time.Now()
	ds, err := delays.Load(file)
	if err != nil {
		delays.Errorf("%v", err)
		os.Exit(1)
	}
	opts := charts.Options{Title: title, Width: width, Height: height, Caption: caption}
	if err := charts.RenderToFile(ds, names, opts, out); err != nil {
		delays.Errorf("%v", err)
		os.Exit(1)
	}
	delays.TimeTrack(start, "delayplot")
}
