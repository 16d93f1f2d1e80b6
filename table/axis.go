package table

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/araddon/dateparse"
)

// Numeric projects a coordinate value onto the real line. Numbers are taken
// as-is; dates and timestamps become Unix seconds.
func Numeric(value string) (float64, error) {
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f, nil
	}

	t, err := dateparse.ParseAny(value)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q is neither a number nor a date", value)
	}

	return float64(t.Unix()), nil
}

// SortAxis orders the distinct values of a time axis. The ordering is numeric
// when every value is a number, chronological when every value is a date, and
// lexicographic otherwise.
func SortAxis(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	if pos, ok := project(out, func(v string) (float64, error) { return strconv.ParseFloat(v, 64) }); ok {
		sortBy(out, pos)
		return out
	}

	if pos, ok := project(out, func(v string) (float64, error) {
		t, err := dateparse.ParseAny(v)
		if err != nil {
			return 0, err
		}
		return float64(t.UnixNano()), nil
	}); ok {
		sortBy(out, pos)
		return out
	}

	sort.Strings(out)
	return out
}

func project(values []string, f func(string) (float64, error)) (map[string]float64, bool) {
	out := make(map[string]float64, len(values))
	for _, v := range values {
		x, err := f(v)
		if err != nil {
			return nil, false
		}
		out[v] = x
	}

	return out, true
}

func sortBy(values []string, pos map[string]float64) {
	sort.SliceStable(values, func(i, j int) bool {
		return pos[values[i]] < pos[values[j]]
	})
}
