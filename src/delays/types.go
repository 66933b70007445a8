package delays

// DelayDataset maps a query identifier (e.g. "query1") to the ordered
// sequence of end-to-end delay samples recorded for it, in milliseconds.
// It is loaded wholesale from a JSON file at startup and never mutated.
type DelayDataset map[string][]float64

// DefaultQueryNames maps the benchmarked gRPC query identifiers to the
// human-readable labels used in reports and chart axes. Every identifier
// appearing in a dataset must have an entry here (or in an override mapping
// loaded via LoadQueryNames), otherwise summarization fails.
var DefaultQueryNames = map[string]string{
	"query1": "GetPrizesByCategory",
	"query2": "CountLaureatesByCategoryAndYearRange",
	"query3": "CountLaureatesByMotivationKeyword",
	"query4": "GetLaureateDetailsByName",
}

// TotalSamples returns the number of samples across all queries.
func (ds DelayDataset) TotalSamples() int {
	n := 0
	for _, samples := range ds {
		n += len(samples)
	}
	return n
}
