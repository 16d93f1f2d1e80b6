// Package weighting computes per-row sample weights for the evaluation
// table, aligned row for row with it.
package weighting

import (
	"fmt"
	"math"

	"github.com/carbocation/epiquark/distribution"
	"github.com/carbocation/epiquark/table"
	"gonum.org/v1/gonum/mat"
)

type Mode string

const (
	ModeNone      Mode = ""
	ModeCases     Mode = "cases"
	ModeTimeSpace Mode = "timespace"
	ModeRaw       Mode = "raw"
)

// Config selects one weighting mode and carries its parameters.
type Config struct {
	Mode Mode

	// GaussDims names the coordinates the Gaussian kernel runs over. Empty
	// means every coordinate.
	GaussDims []string

	// Covariance of the kernel over GaussDims. Nil means the identity.
	Covariance *mat.SymDense

	// TimeAxis, when set with ModeTimeSpace, restricts nonzero weights to the
	// time window of each label's cases.
	TimeAxis string

	// Raw holds one weight per evaluation row, in table order, for ModeRaw.
	Raw []float64
}

// Weights returns the sample weights for eval, or nil for ModeNone. cases is
// the completed case table the evaluation table was built from.
func (c Config) Weights(eval *distribution.EvalTable, cases *table.Table) ([]float64, error) {
	switch c.Mode {
	case ModeNone:
		return nil, nil
	case ModeCases:
		return CaseVolume(eval, cases), nil
	case ModeTimeSpace:
		return Gauss(eval, cases, c.GaussDims, c.Covariance, c.TimeAxis)
	case ModeRaw:
		return Raw(eval, c.Raw)
	}

	return nil, fmt.Errorf("unknown weighting %q, expected %q, %q or %q", c.Mode, ModeCases, ModeTimeSpace, ModeRaw)
}

// CaseVolume weights each row by the number of cases observed at its cell.
// Cells without cases weigh 1, so that they still count.
func CaseVolume(eval *distribution.EvalTable, cases *table.Table) []float64 {
	totals := make(map[table.Key]float64)
	for _, r := range cases.Rows {
		if table.Classify(r.Label) == table.NonCase {
			continue
		}
		totals[r.Cell.Key()] += r.Value.Float64
	}

	out := make([]float64, len(eval.Rows))
	for i, r := range eval.Rows {
		out[i] = math.Max(totals[r.Cell.Key()], 1)
	}

	return out
}

// Raw checks an externally supplied weight vector against the table.
func Raw(eval *distribution.EvalTable, weights []float64) ([]float64, error) {
	if len(weights) != len(eval.Rows) {
		return nil, fmt.Errorf("expected %d weights, one per evaluation row, got %d", len(eval.Rows), len(weights))
	}

	for i, w := range weights {
		if math.IsNaN(w) || w < 0 {
			return nil, fmt.Errorf("weight %d is %v, weights must be non-negative", i, w)
		}
	}

	return append([]float64(nil), weights...), nil
}
