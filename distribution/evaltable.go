package distribution

import (
	"fmt"

	"github.com/carbocation/epiquark/table"
)

// EvalRow pairs the true and the predicted probability of one data label at
// one cell. Every metric reads from these rows.
type EvalRow struct {
	Cell  table.Cell
	Label string
	P     float64
	PHat  float64
}

// EvalTable holds one EvalRow per (cell, data_label) of the true side, in the
// true side's order: by cell in order of first appearance in the case table,
// then by label.
type EvalTable struct {
	Coords []string
	Rows   []EvalRow
}

// Join inner-joins the true and the aligned predicted distribution on
// (cell, data_label).
func Join(coords []string, truth, aligned *Distribution) (*EvalTable, error) {
	out := &EvalTable{
		Coords: append([]string(nil), coords...),
		Rows:   make([]EvalRow, 0, len(truth.Rows)),
	}

	seen := make(map[table.LabelKey]struct{}, len(truth.Rows))
	for _, r := range truth.Rows {
		k := table.LabelKey{Cell: r.Cell.Key(), Label: r.Label}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("duplicate true probability for %q at cell %v", r.Label, r.Cell)
		}
		seen[k] = struct{}{}

		pHat, ok := aligned.Get(k)
		if !ok {
			continue
		}
		out.Rows = append(out.Rows, EvalRow{Cell: r.Cell, Label: r.Label, P: r.P, PHat: pHat})
	}

	return out, nil
}

// Labels returns the data labels of the table in order of first appearance.
func (e *EvalTable) Labels() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range e.Rows {
		if _, ok := seen[r.Label]; ok {
			continue
		}
		seen[r.Label] = struct{}{}
		out = append(out, r.Label)
	}

	return out
}

// Indices returns the positions of the rows carrying label, in table order.
func (e *EvalTable) Indices(label string) []int {
	out := make([]int, 0, len(e.Rows))
	for i, r := range e.Rows {
		if r.Label == label {
			out = append(out, i)
		}
	}

	return out
}

// Columns extracts p and p_hat for the given rows.
func (e *EvalTable) Columns(indices []int) (p, pHat []float64) {
	p = make([]float64, len(indices))
	pHat = make([]float64, len(indices))
	for j, i := range indices {
		p[j] = e.Rows[i].P
		pHat[j] = e.Rows[i].PHat
	}

	return p, pHat
}
