package distribution

import (
	"fmt"

	"github.com/carbocation/epiquark/table"
)

// AlignPolicy decides p_hat(d|x) for a data label d that no signal label is
// named after.
type AlignPolicy string

const (
	// AlignZero gives such labels no direct predicted mass.
	AlignZero AlignPolicy = "zero"
	// AlignNonCase gives such labels the predicted probability of non-case.
	AlignNonCase AlignPolicy = "non-case"
)

// Contribution is p_hat(d|s,x): how much of signal label s at cell x counts
// toward data label d.
type Contribution struct {
	Cell        table.Cell
	DataLabel   string
	SignalLabel string
	P           float64
}

// Contributions lists p_hat(d|s,x) for every cell of the completed case
// table. A signal label that equals a data label counts fully toward that
// label. Any other signal label is a generic outbreak signal, spread over the
// outbreak data labels in proportion to the cases observed at the cell, or
// evenly when the cell has none. Without any outbreak data label a generic
// signal counts fully toward endemic.
func Contributions(cases *table.Table, signalLabels []string) []Contribution {
	values := cases.Values()
	dataLabels := cases.Labels()

	isData := make(map[string]bool, len(dataLabels))
	outbreaks := make([]string, 0, len(dataLabels))
	for _, d := range dataLabels {
		isData[d] = true
		if table.IsOutbreak(d) {
			outbreaks = append(outbreaks, d)
		}
	}

	out := make([]Contribution, 0)
	for _, cell := range cases.Cells() {
		k := cell.Key()

		outbreakTotal := 0.0
		for _, d := range outbreaks {
			outbreakTotal += values[table.LabelKey{Cell: k, Label: d}]
		}

		for _, s := range signalLabels {
			if isData[s] {
				out = append(out, Contribution{Cell: cell, DataLabel: s, SignalLabel: s, P: 1})
				continue
			}

			if len(outbreaks) == 0 {
				out = append(out, Contribution{Cell: cell, DataLabel: table.LabelEndemic, SignalLabel: s, P: 1})
				continue
			}

			for _, d := range outbreaks {
				p := 1 / float64(len(outbreaks))
				if outbreakTotal > 0 {
					p = values[table.LabelKey{Cell: k, Label: d}] / outbreakTotal
				}
				out = append(out, Contribution{Cell: cell, DataLabel: d, SignalLabel: s, P: p})
			}
		}
	}

	return out
}

// Align computes p_hat(d|x) = sum_s p_hat(d|s,x) p_hat(s|x) for every row of
// the true distribution, so the result has exactly the true side's rows and
// order. Data labels without an equally named signal label additionally
// follow policy.
func Align(truth, predicted *Distribution, cases *table.Table, policy AlignPolicy) (*Distribution, error) {
	signalLabels := labelsOf(predicted)

	hasSignal := make(map[string]bool, len(signalLabels))
	for _, s := range signalLabels {
		hasSignal[s] = true
	}

	switch policy {
	case AlignZero, AlignNonCase:
	case "":
		policy = AlignZero
	default:
		return nil, fmt.Errorf("unknown alignment policy %q", policy)
	}

	mass := make(map[table.LabelKey]float64)
	for _, c := range Contributions(cases, signalLabels) {
		ps, ok := predicted.Get(table.LabelKey{Cell: c.Cell.Key(), Label: c.SignalLabel})
		if !ok {
			return nil, fmt.Errorf("no predicted probability for %q at cell %v", c.SignalLabel, c.Cell)
		}
		mass[table.LabelKey{Cell: c.Cell.Key(), Label: c.DataLabel}] += c.P * ps
	}

	out := newDistribution(len(truth.Rows))
	for _, r := range truth.Rows {
		k := table.LabelKey{Cell: r.Cell.Key(), Label: r.Label}
		p := mass[k]

		if !hasSignal[r.Label] && policy == AlignNonCase {
			nc, _ := predicted.Get(table.LabelKey{Cell: k.Cell, Label: table.LabelNonCase})
			p += nc
		}

		out.add(r.Cell, r.Label, p)
	}

	return out, nil
}

func labelsOf(d *Distribution) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range d.Rows {
		if _, ok := seen[r.Label]; ok {
			continue
		}
		seen[r.Label] = struct{}{}
		out = append(out, r.Label)
	}

	return out
}
