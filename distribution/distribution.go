// Package distribution turns case counts and signal strengths into per-cell
// categorical distributions, p(d|x) and p_hat(s|x), aligns the predicted
// side onto the data labels and joins both sides into the evaluation table.
package distribution

import (
	"fmt"

	"github.com/carbocation/epiquark/table"
)

// Row is one probability of a label at a cell.
type Row struct {
	Cell  table.Cell
	Label string
	P     float64
}

// Distribution holds one categorical distribution per cell. Rows keep the
// order of the table they were built from.
type Distribution struct {
	Rows  []Row
	index map[table.LabelKey]int
}

func newDistribution(capacity int) *Distribution {
	return &Distribution{
		Rows:  make([]Row, 0, capacity),
		index: make(map[table.LabelKey]int, capacity),
	}
}

func (d *Distribution) add(cell table.Cell, label string, p float64) {
	d.index[table.LabelKey{Cell: cell.Key(), Label: label}] = len(d.Rows)
	d.Rows = append(d.Rows, Row{Cell: cell, Label: label, P: p})
}

// Get returns the probability of label at the cell with key k.
func (d *Distribution) Get(k table.LabelKey) (float64, bool) {
	i, ok := d.index[k]
	if !ok {
		return 0, false
	}

	return d.Rows[i].P, true
}

// normalize divides each row's value by its cell's total. Cells whose total
// is zero get all of their mass on zeroLabel.
func normalize(t *table.Table, zeroLabel string) *Distribution {
	totals := make(map[table.Key]float64)
	for _, r := range t.Rows {
		totals[r.Cell.Key()] += r.Value.Float64
	}

	out := newDistribution(len(t.Rows))
	for _, r := range t.Rows {
		total := totals[r.Cell.Key()]

		var p float64
		switch {
		case total > 0:
			p = r.Value.Float64 / total
		case r.Label == zeroLabel:
			p = 1
		}
		out.add(r.Cell, r.Label, p)
	}

	return out
}

// True computes p(d|x) from a case table completed by impute.NonCase. The
// non-case row guarantees a positive total in every cell.
func True(cases *table.Table) (*Distribution, error) {
	if cases.LabelColumn != table.ColumnDataLabel {
		return nil, fmt.Errorf("expected a case table, got labels in %q", cases.LabelColumn)
	}

	return normalize(cases, table.LabelNonCase), nil
}

// Predicted computes p_hat(s|x) from an imputed signal table by normalizing
// the strengths of each cell. A cell whose strengths are all zero reports
// nothing, which is read as certainty of non-case.
func Predicted(signals *table.Table) (*Distribution, error) {
	if signals.LabelColumn != table.ColumnSignalLabel {
		return nil, fmt.Errorf("expected a signal table, got labels in %q", signals.LabelColumn)
	}

	return normalize(signals, table.LabelNonCase), nil
}
