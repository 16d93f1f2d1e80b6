package timeliness

import (
	"math"
	"testing"

	"github.com/carbocation/epiquark/impute"
	"github.com/carbocation/epiquark/table"
	"github.com/carbocation/epiquark/table/tabletest"
	"github.com/google/go-cmp/cmp"
)

func TestDelay(t *testing.T) {
	for _, v := range []struct {
		cases, signals []float64
		delay          int
	}{
		{[]float64{0, 0, 0}, []float64{0, 0, 1}, 3},
		{[]float64{0, 0, 1}, []float64{0, 0, 0}, 3},
		{[]float64{0, 0, 0}, []float64{0, 0, 0}, 3},
		{[]float64{0, 1, 0}, []float64{1, 0, 0}, 3},
		{[]float64{1, 0, 0}, []float64{0, 0, 1}, 2},
		{[]float64{1, 0, 1}, []float64{0, 0, 1}, 2},
		{[]float64{0, 1, 1}, []float64{0, 0, 1}, 1},
		{[]float64{1, 1, 1}, []float64{0, 1, 1}, 1},
		{[]float64{0, 1, 0}, []float64{0, 1, 1}, 0},
		{[]float64{1, 1, 0}, []float64{1, 1, 1}, 0},
	} {
		if got := Delay(v.cases, v.signals); got != v.delay {
			t.Errorf("cases=%v signals=%v: expected %d, got %d", v.cases, v.signals, v.delay, got)
		}
	}
}

func TestScore(t *testing.T) {
	const d = 4

	if Score(0, d) != 1 {
		t.Errorf("Expected 1 for no delay, got %v", Score(0, d))
	}
	if Score(d+1, d) != 0 {
		t.Errorf("Expected 0 beyond the maximum delay, got %v", Score(d+1, d))
	}
	if Score(2, d) != .5 {
		t.Errorf("Expected .5, got %v", Score(2, d))
	}
	for s := 1; s < 10; s++ {
		if Score(s, d) > Score(s-1, d) {
			t.Errorf("Timeliness increased from delay %d to %d", s-1, s)
		}
	}
	if Score(0, 0) != 1 || Score(1, 0) != 0 {
		t.Error("Unexpected timeliness with a zero maximum delay")
	}
}

func TestSeries(t *testing.T) {
	observed, signals := tabletest.Series([]float64{1, 1, 1}, []float64{0, .5, .75})
	cases := impute.NonCase(observed)

	for _, v := range []struct {
		threshold float64
		delay     int
	}{
		{0, 1},
		{.5, 2},
		{.75, 3},
	} {
		results, err := Groups(observed, cases, signals, Config{TimeAxis: "t", MaxDelay: 2, SignalThreshold: v.threshold})
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 1 || results[0].Delay != v.delay {
			t.Errorf("threshold %v: expected delay %d, got %+v", v.threshold, v.delay, results)
		}
	}
}

func TestComputeFixture(t *testing.T) {
	observed := tabletest.Cases()
	cases := impute.NonCase(observed)
	signals, err := impute.Signals(tabletest.Signals(), cases, impute.PolicyMin)
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range []struct {
		cfg  Config
		want map[string]float64
	}{
		{Config{TimeAxis: "x2", MaxDelay: 2}, map[string]float64{"one": 1, "two": 1}},
		{Config{TimeAxis: "x2", MaxDelay: 2, SignalThreshold: .5}, map[string]float64{"one": 1, "two": 0}},
		{Config{TimeAxis: "x2", MaxDelay: 4, SignalThreshold: .5}, map[string]float64{"one": 1, "two": .25}},
	} {
		got, err := Compute(observed, cases, signals, v.cfg)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(v.want, got); diff != "" {
			t.Errorf("%+v: %s", v.cfg, diff)
		}
	}
}

func TestComputeAveragesGroups(t *testing.T) {
	observed := table.New([]string{"region", "week"}, table.ColumnDataLabel, table.KindInt)
	signals := table.New([]string{"region", "week"}, table.ColumnSignalLabel, table.KindFloat)
	for _, v := range []struct {
		region  string
		cases   []float64
		signals []float64
	}{
		{"a", []float64{1, 0, 0, 0}, []float64{0, 1, 0, 0}},
		{"b", []float64{1, 0, 0, 0}, []float64{0, 0, 0, 0}},
	} {
		for i := range v.cases {
			cell := table.Cell{v.region, string(rune('0' + i))}
			observed.Add(cell, "endemic", 0)
			observed.Add(cell, "flu", v.cases[i])
			signals.Add(cell, "endemic", 0)
			signals.Add(cell, "non-case", 0)
			signals.Add(cell, "flu", v.signals[i])
		}
	}
	cases := impute.NonCase(observed)

	got, err := Compute(observed, cases, signals, Config{TimeAxis: "week", MaxDelay: 4})
	if err != nil {
		t.Fatal(err)
	}

	// a: delay 1 -> .75, b: never detected, delay 4 -> 0
	if math.Abs(got["flu"]-.375) > 1e-12 {
		t.Errorf("Expected .375, got %v", got["flu"])
	}
	if _, ok := got["endemic"]; ok {
		t.Error("Reserved labels must not be scored")
	}
}

func TestConfigErrors(t *testing.T) {
	observed := tabletest.Cases()
	cases := impute.NonCase(observed)

	if _, err := Compute(observed, cases, tabletest.Signals(), Config{TimeAxis: "week", MaxDelay: 1}); err == nil {
		t.Error("Expected an error for an unknown time axis")
	}
	if _, err := Compute(observed, cases, tabletest.Signals(), Config{TimeAxis: "x2", MaxDelay: -1}); err == nil {
		t.Error("Expected an error for a negative maximum delay")
	}
}

func TestGenericSignalDetects(t *testing.T) {
	observed := table.New([]string{"t"}, table.ColumnDataLabel, table.KindInt)
	signals := table.New([]string{"t"}, table.ColumnSignalLabel, table.KindFloat)
	for i, n := range []float64{0, 2, 2} {
		cell := table.Cell{string(rune('0' + i))}
		observed.Add(cell, "endemic", 0)
		observed.Add(cell, "one", n)
		signals.Add(cell, "endemic", .2)
		signals.Add(cell, "non-case", .2)
		signals.Add(cell, "outbreak", .6)
	}
	cases := impute.NonCase(observed)

	got, err := Groups(observed, cases, signals, Config{TimeAxis: "t", MaxDelay: 2})
	if err != nil {
		t.Fatal(err)
	}
	expected := []GroupResult{{Label: "one", Group: table.Cell{}, Delay: 0, Timeliness: 1}}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Error(diff)
	}

	// Below the threshold the generic signal detects nothing.
	got, err = Groups(observed, cases, signals, Config{TimeAxis: "t", MaxDelay: 2, SignalThreshold: .6})
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Delay != 3 || got[0].Timeliness != 0 {
		t.Errorf("Expected no detection, got %+v", got[0])
	}
}
