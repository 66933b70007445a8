package delays

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// MalformedDataError reports a delays file whose content is not a JSON object
// of query identifier -> array of non-negative numbers.
type MalformedDataError struct {
	Path string
	Err  error
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed delays data in %s: %v", e.Path, e.Err)
}

func (e *MalformedDataError) Unwrap() error { return e.Err }

// Load reads a delays JSON file into a DelayDataset. The top-level value must
// be an object; each key is a query identifier and each value an array of
// delay measurements in milliseconds. Negative values are rejected: a delay
// sample is a measured duration and cannot be below zero.
func Load(path string) (DelayDataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read delays file: %w", err)
	}
	var ds DelayDataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return nil, &MalformedDataError{Path: path, Err: err}
	}
	for q, samples := range ds {
		for i, v := range samples {
			if v < 0 {
				return nil, &MalformedDataError{Path: path, Err: fmt.Errorf("query %q sample %d: negative delay %v ms", q, i, v)}
			}
		}
	}
	Debugf("loaded %d queries (%d samples) from %s", len(ds), ds.TotalSamples(), path)
	return ds, nil
}

// stripJSONC reads a JSONC file (full-line // comments only) and returns raw
// JSON bytes suitable for unmarshalling. Inline // is left alone because of
// URLs (http://).
func stripJSONC(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		out = append(out, []byte(line+"\n")...)
	}
	return out, scanner.Err()
}

// LoadQueryNames reads a display-name mapping from a JSONC file, replacing
// DefaultQueryNames. Keys are query identifiers, values the labels to show.
// Empty labels and duplicate labels are rejected: downstream grouping and
// chart slots are keyed by label, so labels must be unique and non-empty.
func LoadQueryNames(path string) (map[string]string, error) {
	b, err := stripJSONC(path)
	if err != nil {
		return nil, fmt.Errorf("read query names file: %w", err)
	}
	var names map[string]string
	if err := json.Unmarshal(b, &names); err != nil {
		return nil, fmt.Errorf("parse query names file %s: %w", path, err)
	}
	seen := make(map[string]string, len(names))
	for id, label := range names {
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, fmt.Errorf("query names file %s: empty display name for %q", path, id)
		}
		if prev, dup := seen[label]; dup {
			return nil, fmt.Errorf("query names file %s: display name %q used by both %q and %q", path, label, prev, id)
		}
		seen[label] = id
		names[id] = label
	}
	return names, nil
}
