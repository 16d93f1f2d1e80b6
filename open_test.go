package epiquark

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/epiquark/table"
	"github.com/carbocation/epiquark/table/tabletest"
	"github.com/google/go-cmp/cmp"
)

const tabCases = "x1\tx2\tdata_label\tvalue\n0\t0\tendemic\t1\n0\t1\tone\t2\n"

func TestDetermineDelimiter(t *testing.T) {
	for input, want := range map[string]rune{
		tabCases:                            '\t',
		"x1,x2,data_label,value\n0,0,one,1\n1,0,two,3\n": ',',
		"x1;data_label;value\n0;one;1\n1;two;3\n":         ';',
	} {
		if got := DetermineDelimiter([]byte(input)); got != want {
			t.Errorf("Expected %q, got %q for %q", want, got, input)
		}
	}
}

func TestParseCompressedTable(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(tabCases)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	for name, raw := range map[string][]byte{
		"gzip":  buf.Bytes(),
		"plain": []byte(tabCases),
	} {
		tab, err := ParseTable(raw, table.ColumnDataLabel)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if diff := cmp.Diff([]string{"x1", "x2"}, tab.Coords); diff != "" {
			t.Errorf("%s: %s", name, diff)
		}
		if len(tab.Rows) != 2 || tab.Kind != table.KindInt {
			t.Errorf("%s: unexpected table %+v", name, tab)
		}
	}
}

func TestDetectDataType(t *testing.T) {
	dt, err := DetectDataType(strings.NewReader("ab"))
	if err != nil {
		t.Fatal(err)
	}
	if dt != DataTypeNoCompression {
		t.Errorf("Expected no compression, got %v", dt)
	}
}

func TestTableFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.csv")
	if err := WriteTable(path, tabletest.Signals()); err != nil {
		t.Fatal(err)
	}

	got, err := OpenTable(context.Background(), path, table.ColumnSignalLabel, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tabletest.Signals(), got); diff != "" {
		t.Error(diff)
	}

	if _, err := OpenTable(context.Background(), "gs://bucket/signals.csv", table.ColumnSignalLabel, nil); err == nil {
		t.Error("Expected an error for a gs:// path without a client")
	}
	if _, err := OpenTable(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), table.ColumnSignalLabel, nil); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestQuoteFix(t *testing.T) {
	in := "a,b\n\"say \\\"hi\\\"\",1\nlast"
	got, err := io.ReadAll(newQuoteFixReader(strings.NewReader(in)))
	if err != nil {
		t.Fatal(err)
	}

	expected := "a,b\n\"say \"\"hi\"\"\",1\nlast"
	if string(got) != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestParseEscapedQuotes(t *testing.T) {
	raw := "region,data_label,value\n\"north \\\"a\\\"\",endemic,1\n\"south\",endemic,2\n"

	tab, err := ParseTable([]byte(raw), table.ColumnDataLabel)
	if err != nil {
		t.Fatal(err)
	}
	if tab.Rows[0].Cell[0] != `north "a"` {
		t.Errorf("Unexpected coordinate %q", tab.Rows[0].Cell[0])
	}
}
