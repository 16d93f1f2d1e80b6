package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// Tokens treated as a missing value.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
}

// ReadCSV decodes a long-format table with a header line. The header must
// contain labelColumn and "value"; every other column becomes a coordinate.
// The value column's kind is KindInt when every present value parses as an
// integer, and KindFloat otherwise.
func ReadCSV(r io.Reader, comma rune, labelColumn string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no header line in %s table", labelColumn)
	} else if err != nil {
		return nil, err
	}

	labelCol, valueCol := -1, -1
	coordCols := make([]int, 0, len(header))
	coords := make([]string, 0, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		switch col {
		case labelColumn:
			labelCol = i
		case ColumnValue:
			valueCol = i
		default:
			coordCols = append(coordCols, i)
			coords = append(coords, col)
		}
	}
	if labelCol < 0 {
		return nil, fmt.Errorf("expected a %q column, got %v", labelColumn, header)
	}
	if valueCol < 0 {
		return nil, fmt.Errorf("expected a %q column, got %v", ColumnValue, header)
	}

	out := New(coords, labelColumn, KindInt)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		cell := make(Cell, len(coordCols))
		for j, c := range coordCols {
			cell[j] = rec[c]
		}

		row := Row{Cell: cell, Label: rec[labelCol]}
		raw := strings.TrimSpace(rec[valueCol])
		if _, missing := missingTokens[raw]; !missing {
			if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
				out.Kind = KindFloat
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: value %q is not numeric", line, raw)
			}
			row.Value = null.FloatFrom(v)
		}

		out.Rows = append(out.Rows, row)
	}

	return out, nil
}

// WriteCSV encodes the table in the layout ReadCSV accepts.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := append(append([]string(nil), t.Coords...), t.LabelColumn, ColumnValue)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range t.Rows {
		rec := append(append([]string(nil), r.Cell...), r.Label, formatValue(r.Value, t.Kind))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v null.Float, kind Kind) string {
	if !v.Valid {
		return ""
	}
	if kind == KindInt {
		return strconv.FormatInt(int64(v.Float64), 10)
	}

	// Keep a decimal point so the column reads back as KindFloat.
	s := strconv.FormatFloat(v.Float64, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}

	return s
}
