// Package analysis turns a loaded delay dataset into flattened records and
// per-query summary statistics for reporting and charting.
//
// Design notes:
//   - All association between a query and its derived data is keyed by query
//     identifier (never by position in a list), so adding or removing queries
//     cannot silently misalign summaries with labels.
//   - Queries are visited in sorted-identifier order to keep output
//     deterministic across runs.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/iafilius/QueryDelayCharts/src/delays"
)

// UnknownQueryError reports a dataset query identifier that has no configured
// display name. This is a configuration error: the mapping is expected to
// cover every identifier the dataset can contain.
type UnknownQueryError struct {
	Key string
}

func (e *UnknownQueryError) Error() string {
	return fmt.Sprintf("unknown query identifier %q: no display name configured", e.Key)
}

// DelayRecord is one flattened (display name, delay) observation.
type DelayRecord struct {
	Query   string  `json:"query"`
	DelayMs float64 `json:"delay_ms"`
}

// QuerySummary captures the distribution of one query's delay samples.
// Median, P25 and P75 use linear interpolation between ranked samples.
type QuerySummary struct {
	Query    string  `json:"query"`
	Count    int     `json:"count"`
	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
	MeanMs   float64 `json:"mean_ms"`
	MedianMs float64 `json:"median_ms"`
	P25Ms    float64 `json:"p25_ms"`
	P75Ms    float64 `json:"p75_ms"`
}

// SortedQueryIDs returns the dataset's query identifiers in sorted order.
func SortedQueryIDs(ds delays.DelayDataset) []string {
	ids := make([]string, 0, len(ds))
	for id := range ds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Flatten converts a dataset into a single ordered slice of DelayRecord,
// substituting display names for query identifiers. Queries appear in
// sorted-identifier order; within a query, samples keep their recorded order.
// An identifier missing from names fails with UnknownQueryError.
func Flatten(ds delays.DelayDataset, names map[string]string) ([]DelayRecord, error) {
	recs := make([]DelayRecord, 0, ds.TotalSamples())
	for _, id := range SortedQueryIDs(ds) {
		name, ok := names[id]
		if !ok {
			return nil, &UnknownQueryError{Key: id}
		}
		for _, v := range ds[id] {
			recs = append(recs, DelayRecord{Query: name, DelayMs: v})
		}
	}
	return recs, nil
}

// quantile returns the p-quantile (0..1) of a sorted slice using linear
// interpolation between ranked samples (the pandas/spreadsheet convention):
// the quantile position is p*(n-1), interpolated between its neighbors.
// The slice must be non-empty and sorted ascending.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Summarize computes a QuerySummary per query, keyed by display name.
// Queries with zero samples have no defined quantiles; they are omitted from
// the result and their identifiers returned in empty so callers can surface
// the gap instead of silently charting nothing. An identifier missing from
// names fails with UnknownQueryError.
func Summarize(ds delays.DelayDataset, names map[string]string) (sums map[string]QuerySummary, empty []string, err error) {
	sums = make(map[string]QuerySummary, len(ds))
	for _, id := range SortedQueryIDs(ds) {
		name, ok := names[id]
		if !ok {
			return nil, nil, &UnknownQueryError{Key: id}
		}
		samples := ds[id]
		if len(samples) == 0 {
			empty = append(empty, id)
			continue
		}
		cp := append([]float64(nil), samples...)
		sort.Float64s(cp)
		total := 0.0
		for _, v := range cp {
			total += v
		}
		sums[name] = QuerySummary{
			Query:    name,
			Count:    len(cp),
			MinMs:    cp[0],
			MaxMs:    cp[len(cp)-1],
			MeanMs:   total / float64(len(cp)),
			MedianMs: quantile(cp, 0.5),
			P25Ms:    quantile(cp, 0.25),
			P75Ms:    quantile(cp, 0.75),
		}
	}
	return sums, empty, nil
}
