// delayreport prints per-query delay summary statistics as a text table, for
// quick inspection of a delays JSON file without rendering a chart.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iafilius/QueryDelayCharts/src/analysis"
	"github.com/iafilius/QueryDelayCharts/src/delays"
)

func main() {
	var file string
	var namesArg string
	var logLevel string
	flag.StringVar(&file, "file", "", "Path to delays JSON file (required)")
	flag.StringVar(&namesArg, "names", "", "Optional JSONC file mapping query identifiers to display names")
	flag.StringVar(&logLevel, "loglevel", "info", "Log level: debug, info, warn, error")
	flag.Parse()
	delays.SetLogLevel(logLevel)

	if file == "" {
		fmt.Fprintln(os.Stderr, "error: missing required -file")
		flag.Usage()
		os.Exit(2)
	}

	names := delays.DefaultQueryNames
	if namesArg != "" {
		var err error
		names, err = delays.LoadQueryNames(namesArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	ds, err := delays.Load(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	sums, empty, err := analysis.Summarize(ds, names)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Queries: %d  Samples: %d\n", len(ds), ds.TotalSamples())
	fmt.Printf("%-40s %6s %10s %10s %10s %10s %10s\n", "Query", "Count", "Min", "P25", "Median", "P75", "Max")
	for _, id := range analysis.SortedQueryIDs(ds) {
		name := names[id]
		s, ok := sums[name]
		if !ok {
			continue
		}
		fmt.Printf("%-40s %6d %10.2f %10.2f %10.2f %10.2f %10.2f\n", s.Query, s.Count, s.MinMs, s.P25Ms, s.MedianMs, s.P75Ms, s.MaxMs)
	}
	for _, id := range empty {
		fmt.Printf("%-40s %6d %10s %10s %10s %10s %10s\n", names[id]+" ("+id+")", 0, "-", "-", "-", "-", "-")
		delays.Warnf("query %q has no samples; statistics undefined", id)
	}
}
