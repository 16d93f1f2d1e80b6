// Package tabletest provides a small, hand-checkable pair of case and signal
// tables on a 2x3 grid (x1 in {0,1}, time axis x2 in {0,1,2}) for tests.
//
// Completed cases (endemic, non-case, one, two) per cell:
//
//	(0,0) 1 0 0 0    (1,0) 0 1 0 0
//	(0,1) 2 0 2 0    (1,1) 0 0 0 3
//	(0,2) 0 0 1 0    (1,2) 0 1 0 0
//
// Signal strengths (endemic, non-case, one, two); cell (1,2) is absent and is
// imputed with per-label minima (all zero):
//
//	(0,0) .5  .5  0   0     (1,0) 0   .5  0 0
//	(0,1) .25 0   .75 0     (1,1) .25 .25 0 .5
//	(0,2) 0   .25 .75 0
package tabletest

import (
	"strconv"

	"github.com/carbocation/epiquark/table"
)

var Coords = []string{"x1", "x2"}

// Cases returns the sparse case table.
func Cases() *table.Table {
	t := table.New(Coords, table.ColumnDataLabel, table.KindInt)
	t.Add(table.Cell{"0", "0"}, "endemic", 1)
	t.Add(table.Cell{"0", "1"}, "one", 2)
	t.Add(table.Cell{"0", "1"}, "endemic", 2)
	t.Add(table.Cell{"0", "2"}, "one", 1)
	t.Add(table.Cell{"1", "0"}, "endemic", 0)
	t.Add(table.Cell{"1", "1"}, "two", 3)
	t.Add(table.Cell{"1", "2"}, "endemic", 0)
	return t
}

// Signals returns the signal table, complete for the five cells it covers.
func Signals() *table.Table {
	t := table.New(Coords, table.ColumnSignalLabel, table.KindFloat)
	for _, v := range []struct {
		cell                  table.Cell
		endemic, nc, one, two float64
	}{
		{table.Cell{"0", "0"}, .5, .5, 0, 0},
		{table.Cell{"0", "1"}, .25, 0, .75, 0},
		{table.Cell{"0", "2"}, 0, .25, .75, 0},
		{table.Cell{"1", "0"}, 0, .5, 0, 0},
		{table.Cell{"1", "1"}, .25, .25, 0, .5},
	} {
		t.Add(v.cell, "endemic", v.endemic)
		t.Add(v.cell, "non-case", v.nc)
		t.Add(v.cell, "one", v.one)
		t.Add(v.cell, "two", v.two)
	}
	return t
}

// Series builds a case and a signal table for a single spatial group whose
// time axis "t" runs over 0..len(cases)-1, for the outbreak label "one".
func Series(cases []float64, signals []float64) (*table.Table, *table.Table) {
	c := table.New([]string{"t"}, table.ColumnDataLabel, table.KindInt)
	s := table.New([]string{"t"}, table.ColumnSignalLabel, table.KindFloat)
	for i := range cases {
		cell := table.Cell{strconv.Itoa(i)}
		c.Add(cell, "endemic", 0)
		c.Add(cell, "one", cases[i])
		s.Add(cell, "endemic", 0)
		s.Add(cell, "non-case", 0)
		s.Add(cell, "one", signals[i])
	}
	return c, s
}

