package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const casesCSV = `x1,x2,data_label,value
0,0,endemic,1
0,1,one,2
1,0,endemic,0
`

func TestReadCSVKinds(t *testing.T) {
	for _, v := range []struct {
		input string
		kind  Kind
	}{
		{casesCSV, KindInt},
		{"x,signal_label,value\n0,endemic,0.5\n0,non-case,1\n", KindFloat},
		{"x,signal_label,value\n0,endemic,1.0\n", KindFloat},
	} {
		labelColumn := ColumnDataLabel
		if strings.Contains(v.input, ColumnSignalLabel) {
			labelColumn = ColumnSignalLabel
		}

		tab, err := ReadCSV(strings.NewReader(v.input), ',', labelColumn)
		if err != nil {
			t.Fatal(err)
		}
		if tab.Kind != v.kind {
			t.Errorf("Expected kind %s, got %s for %q", v.kind, tab.Kind, v.input)
		}
	}
}

func TestReadCSVLayout(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader(casesCSV), ',', ColumnDataLabel)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"x1", "x2"}, tab.Coords); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]Cell{{"0", "0"}, {"0", "1"}, {"1", "0"}}, tab.Cells()); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]string{"endemic", "one"}, tab.Labels()); diff != "" {
		t.Error(diff)
	}
	if got := tab.Values()[LabelKey{Cell: Cell{"0", "1"}.Key(), Label: "one"}]; got != 2 {
		t.Errorf("Expected 2, got %v", got)
	}
}

func TestReadCSVMissing(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader("x,data_label,value\n0,endemic,NA\n1,endemic,\n2,endemic,3\n"), ',', ColumnDataLabel)
	if err != nil {
		t.Fatal(err)
	}

	valid := make([]bool, 0, len(tab.Rows))
	for _, r := range tab.Rows {
		valid = append(valid, r.Value.Valid)
	}
	if diff := cmp.Diff([]bool{false, false, true}, valid); diff != "" {
		t.Error(diff)
	}
}

func TestReadCSVErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"x,value\n0,1\n",
		"x,data_label\n0,one\n",
		"x,data_label,value\n0,one,many\n",
	} {
		if _, err := ReadCSV(strings.NewReader(input), ',', ColumnDataLabel); err == nil {
			t.Errorf("Expected an error for %q", input)
		}
	}
}

func TestWriteCSVRoundTripKeepsKind(t *testing.T) {
	tab := New([]string{"x"}, ColumnSignalLabel, KindFloat)
	tab.Add(Cell{"0"}, LabelEndemic, 1)
	tab.Add(Cell{"0"}, LabelNonCase, 0.25)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tab); err != nil {
		t.Fatal(err)
	}

	back, err := ReadCSV(&buf, ',', ColumnSignalLabel)
	if err != nil {
		t.Fatal(err)
	}
	if back.Kind != KindFloat {
		t.Errorf("Expected float kind after round trip, got %s", back.Kind)
	}
}

func TestReorder(t *testing.T) {
	tab := New([]string{"b", "a"}, ColumnDataLabel, KindInt)
	tab.Add(Cell{"2", "1"}, "one", 1)

	out, err := tab.Reorder([]string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Cell{"1", "2"}, out.Rows[0].Cell); diff != "" {
		t.Error(diff)
	}

	if _, err := tab.Reorder([]string{"a", "c"}); err == nil {
		t.Error("Expected an error for mismatched coordinates")
	}
}

func TestSortAxis(t *testing.T) {
	for _, v := range []struct {
		in, out []string
	}{
		{[]string{"10", "2", "1", "2"}, []string{"1", "2", "10"}},
		{[]string{"2021-03-01", "2021-01-15", "2021-02-01"}, []string{"2021-01-15", "2021-02-01", "2021-03-01"}},
		{[]string{"week-b", "week-a"}, []string{"week-a", "week-b"}},
	} {
		if diff := cmp.Diff(v.out, SortAxis(v.in)); diff != "" {
			t.Error(diff)
		}
	}
}

func TestClassify(t *testing.T) {
	for label, want := range map[string]Reserved{
		"endemic":  Endemic,
		"non-case": NonCase,
		"measles":  Outbreak,
	} {
		if got := Classify(label); got != want {
			t.Errorf("%s: expected %s, got %s", label, want, got)
		}
	}
}

func TestKeySetSubset(t *testing.T) {
	a, b := make(KeySet), make(KeySet)
	a.Add(Cell{"1"}.Key())
	b.Add(Cell{"1"}.Key())
	b.Add(Cell{"2"}.Key())

	if _, ok := a.SubsetOf(b); !ok {
		t.Error("Expected a to be a subset of b")
	}
	if k, ok := b.SubsetOf(a); ok || k != (Cell{"2"}).Key() {
		t.Errorf("Expected key 2 to violate the subset, got %q", k)
	}
}
