package weighting

import (
	"fmt"

	"github.com/carbocation/epiquark/distribution"
	"github.com/carbocation/epiquark/table"
)

// TimeMask marks, for each evaluation row (x, d), whether x lies inside the
// time window of d's cases within x's spatial group: from the first to the
// last time step at which the group observed a case of d. Spatial groups are
// the cells sharing every coordinate except timeAxis. Groups without any case
// of d are masked out entirely.
func TimeMask(eval *distribution.EvalTable, cases *table.Table, timeAxis string) ([]bool, error) {
	ti := cases.CoordIndex(timeAxis)
	if ti < 0 {
		return nil, fmt.Errorf("time axis %q is not a coordinate of %v", timeAxis, cases.Coords)
	}

	times := make([]string, 0, len(cases.Rows))
	for _, r := range cases.Rows {
		times = append(times, r.Cell[ti])
	}
	rank := make(map[string]int)
	for i, t := range table.SortAxis(times) {
		rank[t] = i
	}

	type window struct{ first, last int }
	windows := make(map[table.LabelKey]window)
	for _, r := range cases.Rows {
		if r.Value.Float64 <= 0 {
			continue
		}
		k := table.LabelKey{Cell: r.Cell.Without(ti).Key(), Label: r.Label}
		t := rank[r.Cell[ti]]

		w, ok := windows[k]
		if !ok {
			windows[k] = window{t, t}
			continue
		}
		if t < w.first {
			w.first = t
		}
		if t > w.last {
			w.last = t
		}
		windows[k] = w
	}

	out := make([]bool, len(eval.Rows))
	for i, r := range eval.Rows {
		w, ok := windows[table.LabelKey{Cell: r.Cell.Without(ti).Key(), Label: r.Label}]
		if !ok {
			continue
		}
		t, ok := rank[r.Cell[ti]]
		out[i] = ok && t >= w.first && t <= w.last
	}

	return out, nil
}
