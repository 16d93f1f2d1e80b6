// Package impute fills the (cell, label) combinations that downstream
// probability math requires but the input tables leave out. Both passes
// return new tables and leave their inputs untouched.
package impute

import (
	"fmt"
	"sort"

	"github.com/carbocation/epiquark/table"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Policy aggregates the observed values of one signal label into the value
// used for cells where that label is missing.
type Policy string

const (
	PolicyMin  Policy = "min"
	PolicyMax  Policy = "max"
	PolicyMean Policy = "mean"
	PolicyZero Policy = "zero"
)

func (p Policy) aggregate(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, nil
	}

	switch p {
	case PolicyMin, "":
		return floats.Min(values), nil
	case PolicyMax:
		return floats.Max(values), nil
	case PolicyMean:
		return stat.Mean(values, nil), nil
	case PolicyZero:
		return 0, nil
	}

	return 0, fmt.Errorf("unknown imputation policy %q", p)
}

// NonCase completes the case table to the full cells x data_label cross
// product, with absent combinations counted as zero, and adds a non-case row
// to every cell: 1 when the cell holds no case at all, 0 otherwise. Every
// cell therefore has a positive total to normalize against.
//
// Rows are ordered by cell (first appearance) and then by label.
func NonCase(cases *table.Table) *table.Table {
	values := cases.Values()
	labels := cases.Labels()

	out := table.New(cases.Coords, cases.LabelColumn, table.KindInt)
	for _, cell := range cases.Cells() {
		k := cell.Key()

		total := 0.0
		withNonCase := make([]string, 0, len(labels)+1)
		for _, label := range labels {
			total += values[table.LabelKey{Cell: k, Label: label}]
			withNonCase = append(withNonCase, label)
		}
		withNonCase = append(withNonCase, table.LabelNonCase)
		sort.Strings(withNonCase)

		for _, label := range withNonCase {
			if label == table.LabelNonCase {
				nc := 0.0
				if total == 0 {
					nc = 1
				}
				out.Add(cell, label, nc)
				continue
			}
			out.Add(cell, label, values[table.LabelKey{Cell: k, Label: label}])
		}
	}

	return out
}

// Signals adds, for every case cell lacking a signal label, a row whose value
// aggregates that label's observed values under the given policy. The
// signal table must already be aligned to the case table's coordinate order.
//
// Rows are ordered by case cell (first appearance) and then by label.
func Signals(signals, cases *table.Table, policy Policy) (*table.Table, error) {
	values := signals.Values()
	labels := signals.Labels()

	fill := make(map[string]float64, len(labels))
	observed := make(map[string][]float64, len(labels))
	for _, r := range signals.Rows {
		observed[r.Label] = append(observed[r.Label], r.Value.Float64)
	}
	for _, label := range labels {
		v, err := policy.aggregate(observed[label])
		if err != nil {
			return nil, err
		}
		fill[label] = v
	}

	out := table.New(cases.Coords, signals.LabelColumn, table.KindFloat)
	for _, cell := range cases.Cells() {
		k := cell.Key()
		for _, label := range labels {
			v, ok := values[table.LabelKey{Cell: k, Label: label}]
			if !ok {
				v = fill[label]
			}
			out.Add(cell, label, v)
		}
	}

	return out, nil
}
