// Package validate enforces the structural invariants of case and signal
// tables. Every failure wraps one of the exported sentinel errors so callers
// can tell the violated invariant apart with errors.Is.
package validate

import (
	"errors"
	"fmt"
	"math"

	"github.com/carbocation/epiquark/table"
)

var (
	ErrLabelColumn       = errors.New("unexpected label column")
	ErrMissingValue      = errors.New("'value' in cases must not contain missing entries")
	ErrValueKind         = errors.New("'value' in cases must be numeric")
	ErrNegativeValue     = errors.New("'value' in cases must not be negative")
	ErrFractionalValue   = errors.New("'value' in cases must be integers")
	ErrReservedLabel     = errors.New("'data_label' must not contain the reserved label " + table.LabelNonCase)
	ErrMissingEndemic    = errors.New("'data_label' must contain " + table.LabelEndemic)
	ErrSignalLabels      = errors.New("'signal_label' must contain " + table.LabelEndemic + " and " + table.LabelNonCase)
	ErrCoordinateColumns = errors.New("signals and cases must share the same coordinate columns")
	ErrSignalCoordinates = errors.New("signals' coordinates must be a subset of cases' coordinates")
	ErrSignalValue       = errors.New("'value' in signals must be floats between 0 and 1")
	ErrSignalCount       = errors.New("each coordinate must contain the same amount of signals")
)

// Tables validates both tables. Nothing downstream may run when it fails.
func Tables(cases, signals *table.Table) error {
	if err := Cases(cases); err != nil {
		return err
	}

	return Signals(signals, cases)
}

// Cases checks the case table on its own.
func Cases(cases *table.Table) error {
	if cases.LabelColumn != table.ColumnDataLabel {
		return fmt.Errorf("%w: cases use %q, expected %q", ErrLabelColumn, cases.LabelColumn, table.ColumnDataLabel)
	}

	for i, r := range cases.Rows {
		if !r.Value.Valid {
			return fmt.Errorf("%w: row %d", ErrMissingValue, i)
		}
	}

	if cases.Kind != table.KindInt && cases.Kind != table.KindFloat {
		return fmt.Errorf("%w: value column has kind %s", ErrValueKind, cases.Kind)
	}

	for i, r := range cases.Rows {
		v := r.Value.Float64
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: row %d holds %v", ErrValueKind, i, v)
		}
		if v < 0 {
			return fmt.Errorf("%w: row %d holds %v", ErrNegativeValue, i, v)
		}
		if v != math.Trunc(v) {
			return fmt.Errorf("%w: row %d holds %v", ErrFractionalValue, i, v)
		}
	}

	hasEndemic := false
	for i, r := range cases.Rows {
		switch table.Classify(r.Label) {
		case table.NonCase:
			return fmt.Errorf("%w: row %d", ErrReservedLabel, i)
		case table.Endemic:
			hasEndemic = true
		}
	}
	if !hasEndemic {
		return ErrMissingEndemic
	}

	return nil
}

// Signals checks the signal table and its relation to the case table.
func Signals(signals, cases *table.Table) error {
	if signals.LabelColumn != table.ColumnSignalLabel {
		return fmt.Errorf("%w: signals use %q, expected %q", ErrLabelColumn, signals.LabelColumn, table.ColumnSignalLabel)
	}

	if signals.Kind != table.KindFloat {
		return fmt.Errorf("%w: value column has kind %s", ErrSignalValue, signals.Kind)
	}
	for i, r := range signals.Rows {
		if !r.Value.Valid || !(r.Value.Float64 >= 0 && r.Value.Float64 <= 1) {
			return fmt.Errorf("%w: row %d", ErrSignalValue, i)
		}
	}

	if !signals.HasLabel(table.LabelEndemic) || !signals.HasLabel(table.LabelNonCase) {
		return ErrSignalLabels
	}

	if !table.SameColumns(signals.Coords, cases.Coords) {
		return fmt.Errorf("%w: signals have %v, cases have %v", ErrCoordinateColumns, signals.Coords, cases.Coords)
	}
	aligned, err := signals.Reorder(cases.Coords)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCoordinateColumns, err)
	}

	if k, ok := aligned.CellKeys().SubsetOf(cases.CellKeys()); !ok {
		return fmt.Errorf("%w: cell %q", ErrSignalCoordinates, k)
	}

	return crossProduct(aligned)
}

// crossProduct requires every cell to carry each label of the table exactly
// once.
func crossProduct(signals *table.Table) error {
	labels := signals.Labels()
	for k, set := range table.LabelSets(signals) {
		if len(set) != len(labels) {
			return fmt.Errorf("%w: cell %q has %d of %d labels", ErrSignalCount, k, len(set), len(labels))
		}
		for label, n := range set {
			if n != 1 {
				return fmt.Errorf("%w: cell %q has %d rows for %q", ErrSignalCount, k, n, label)
			}
		}
	}

	return nil
}
