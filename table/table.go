// Package table holds the long-format tables consumed by the scoring
// pipeline: one row per (cell, label) with a single numeric value. A cell is
// identified by its values in every column that is neither the label column
// nor the value column.
package table

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// Column names with a fixed meaning. Every other column is a coordinate.
const (
	ColumnValue       = "value"
	ColumnDataLabel   = "data_label"
	ColumnSignalLabel = "signal_label"
)

// Kind is the numeric type of a table's value column. It mirrors the column
// dtype of the source data, so that an integer-typed signal column can be
// told apart from a float-typed one even when the numbers are equal.
type Kind byte

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	}

	return "invalid"
}

// keySep cannot appear in coordinate values read from delimited text.
const keySep = "\x1f"

// Key is the composite key of a cell: its coordinate values joined in
// coordinate-column order.
type Key string

// Cell is a point in the coordinate grid, holding one value per coordinate
// column of its table.
type Cell []string

func (c Cell) Key() Key {
	return Key(strings.Join(c, keySep))
}

// Without returns a copy of the cell lacking the coordinate at position i.
func (c Cell) Without(i int) Cell {
	out := make(Cell, 0, len(c))
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...)
}

// LabelKey is the composite key of a (cell, label) pair.
type LabelKey struct {
	Cell  Key
	Label string
}

type Row struct {
	Cell  Cell
	Label string
	Value null.Float
}

func (r Row) Key() LabelKey {
	return LabelKey{Cell: r.Cell.Key(), Label: r.Label}
}

type Table struct {
	// Coords names the coordinate columns, in the order cell values are stored.
	Coords []string

	// LabelColumn is ColumnDataLabel for case tables and ColumnSignalLabel for
	// signal tables.
	LabelColumn string

	// Kind is the type of the value column.
	Kind Kind

	Rows []Row
}

// New returns an empty table with the given layout.
func New(coords []string, labelColumn string, kind Kind) *Table {
	return &Table{
		Coords:      append([]string(nil), coords...),
		LabelColumn: labelColumn,
		Kind:        kind,
	}
}

// Add appends a row with a present value.
func (t *Table) Add(cell Cell, label string, value float64) {
	t.Rows = append(t.Rows, Row{Cell: append(Cell(nil), cell...), Label: label, Value: null.FloatFrom(value)})
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := New(t.Coords, t.LabelColumn, t.Kind)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = Row{Cell: append(Cell(nil), r.Cell...), Label: r.Label, Value: r.Value}
	}

	return out
}

// CoordIndex returns the position of a coordinate column, or -1.
func (t *Table) CoordIndex(name string) int {
	for i, c := range t.Coords {
		if c == name {
			return i
		}
	}

	return -1
}

// Cells returns the distinct cells of the table in order of first appearance.
func (t *Table) Cells() []Cell {
	seen := make(KeySet)
	out := make([]Cell, 0)
	for _, r := range t.Rows {
		k := r.Cell.Key()
		if seen.Has(k) {
			continue
		}
		seen.Add(k)
		out = append(out, r.Cell)
	}

	return out
}

// CellKeys returns the set of cell keys present in the table.
func (t *Table) CellKeys() KeySet {
	out := make(KeySet)
	for _, r := range t.Rows {
		out.Add(r.Cell.Key())
	}

	return out
}

// Labels returns the distinct labels of the table, sorted.
func (t *Table) Labels() []string {
	seen := make(map[string]struct{})
	for _, r := range t.Rows {
		seen[r.Label] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)

	return out
}

// HasLabel reports whether any row carries the label.
func (t *Table) HasLabel(label string) bool {
	for _, r := range t.Rows {
		if r.Label == label {
			return true
		}
	}

	return false
}

// Values maps each (cell, label) to its value. Missing values are skipped and
// duplicate keys are summed.
func (t *Table) Values() map[LabelKey]float64 {
	out := make(map[LabelKey]float64, len(t.Rows))
	for _, r := range t.Rows {
		if !r.Value.Valid {
			continue
		}
		out[r.Key()] += r.Value.Float64
	}

	return out
}

// Reorder returns a copy of the table whose cell values follow the given
// coordinate order. The coordinate sets must be identical.
func (t *Table) Reorder(coords []string) (*Table, error) {
	if !SameColumns(t.Coords, coords) {
		return nil, fmt.Errorf("coordinate columns %v cannot be reordered as %v", t.Coords, coords)
	}

	positions := make([]int, len(coords))
	for i, c := range coords {
		positions[i] = t.CoordIndex(c)
	}

	out := New(coords, t.LabelColumn, t.Kind)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		cell := make(Cell, len(coords))
		for j, p := range positions {
			cell[j] = r.Cell[p]
		}
		out.Rows[i] = Row{Cell: cell, Label: r.Label, Value: r.Value}
	}

	return out, nil
}

// SameColumns reports whether a and b name the same set of columns.
func SameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; !ok {
			return false
		}
	}

	return len(set) == len(a)
}
