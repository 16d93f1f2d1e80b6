package scorer

import (
	"errors"
	"math"
	"testing"

	"github.com/carbocation/epiquark/metric"
	"github.com/carbocation/epiquark/table"
	"github.com/carbocation/epiquark/table/tabletest"
	"github.com/carbocation/epiquark/timeliness"
	"github.com/carbocation/epiquark/validate"
	"github.com/carbocation/epiquark/weighting"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/guregu/null.v3"
)

func newFixture(t *testing.T) *Scorer {
	t.Helper()

	s, err := New(tabletest.Cases(), tabletest.Signals(), Options{})
	if err != nil {
		t.Fatal(err)
	}

	return s
}

func TestConfusionMatrix(t *testing.T) {
	s := newFixture(t)

	for _, v := range []struct {
		pHatThresh float64
		weighting  weighting.Config
		want       map[string]metric.ConfusionMatrix
	}{
		{.5, weighting.Config{}, map[string]metric.ConfusionMatrix{
			"endemic":  {{4, 0}, {2, 0}},
			"non-case": {{4, 0}, {0, 2}},
			"one":      {{4, 0}, {0, 2}},
			"two":      {{5, 0}, {1, 0}},
		}},
		{.4, weighting.Config{}, map[string]metric.ConfusionMatrix{
			"endemic":  {{4, 0}, {1, 1}},
			"non-case": {{3, 1}, {0, 2}},
			"one":      {{4, 0}, {0, 2}},
			"two":      {{5, 0}, {0, 1}},
		}},
		{.5, weighting.Config{Mode: weighting.ModeCases}, map[string]metric.ConfusionMatrix{
			"endemic":  {{6, 0}, {5, 0}},
			"non-case": {{9, 0}, {0, 2}},
			"one":      {{6, 0}, {0, 5}},
			"two":      {{8, 0}, {3, 0}},
		}},
	} {
		got, err := s.ConfusionMatrix(0, v.pHatThresh, v.weighting)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(v.want, got); diff != "" {
			t.Errorf("p_hat_thresh %v, weighting %q: %s", v.pHatThresh, v.weighting.Mode, diff)
		}
	}
}

func TestScore(t *testing.T) {
	s := newFixture(t)

	f1, err := s.Score(metric.F1, ScoreParams{PThresh: null.FloatFrom(0), PHatThresh: null.FloatFrom(.5)})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]float64{"endemic": 0, "non-case": 1, "one": 1, "two": 0}, f1); diff != "" {
		t.Error(diff)
	}

	mse, err := s.Score(metric.MSE, ScoreParams{})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(mse["endemic"]-.0625) > 1e-12 {
		t.Errorf("Expected endemic MSE .0625, got %v", mse["endemic"])
	}
}

func TestMeanScore(t *testing.T) {
	s := newFixture(t)

	got, err := s.MeanScore(metric.F1, ScoreParams{PThresh: null.FloatFrom(0), PHatThresh: null.FloatFrom(.5)})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != .5 || math.Abs(got[1]-5./11) > 1e-12 {
		t.Errorf("Expected (.5, 5/11), got %v", got)
	}

	custom, err := New(tabletest.Cases(), tabletest.Signals(), Options{
		Aggregators: [2]metric.Aggregator{metric.VolumeWeightedMean, metric.MacroMean},
	})
	if err != nil {
		t.Fatal(err)
	}
	swapped, err := custom.MeanScore(metric.F1, ScoreParams{PThresh: null.FloatFrom(0), PHatThresh: null.FloatFrom(.5)})
	if err != nil {
		t.Fatal(err)
	}
	if swapped[0] != got[1] || swapped[1] != got[0] {
		t.Errorf("Expected swapped aggregates, got %v and %v", got, swapped)
	}
}

func TestIdempotent(t *testing.T) {
	s := newFixture(t)
	params := ScoreParams{Weighting: weighting.Config{Mode: weighting.ModeTimeSpace, TimeAxis: "x2"}}

	first, err := s.Score(metric.MAE, params)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Score(metric.MAE, params)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second, cmpopts.EquateNaNs()); diff != "" {
		t.Error(diff)
	}

	again := newFixture(t)
	third, err := again.Score(metric.MAE, params)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, third, cmpopts.EquateNaNs()); diff != "" {
		t.Error(diff)
	}
}

func TestInputsUntouched(t *testing.T) {
	cases, signals := tabletest.Cases(), tabletest.Signals()
	if _, err := New(cases, signals, Options{}); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(tabletest.Cases(), cases); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff(tabletest.Signals(), signals); diff != "" {
		t.Error(diff)
	}
}

func TestValidationStopsEverything(t *testing.T) {
	cases := tabletest.Cases()
	cases.Rows[1].Value = null.FloatFrom(-1)

	s, err := New(cases, tabletest.Signals(), Options{})
	if !errors.Is(err, validate.ErrNegativeValue) {
		t.Errorf("Expected ErrNegativeValue, got %v", err)
	}
	if s != nil {
		t.Error("Expected no scorer after a validation failure")
	}
}

func TestEvalTable(t *testing.T) {
	s := newFixture(t)

	eval := s.EvalTable()
	if len(eval.Rows) != 24 {
		t.Fatalf("Expected 24 rows, got %d", len(eval.Rows))
	}

	eval.Rows[0].P = 42
	if s.EvalTable().Rows[0].P == 42 {
		t.Error("EvalTable must return a copy")
	}

	if got := len(s.Signals().Rows); got != 24 {
		t.Errorf("Expected 24 imputed signal rows, got %d", got)
	}
}

func TestTimeliness(t *testing.T) {
	s := newFixture(t)

	got, err := s.Timeliness(timeliness.Config{TimeAxis: "x2", MaxDelay: 2})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]float64{"one": 1, "two": 1}, got); diff != "" {
		t.Error(diff)
	}

	if _, err := s.Timeliness(timeliness.Config{TimeAxis: "x9", MaxDelay: 2}); err == nil {
		t.Error("Expected an error for an unknown time axis")
	}
}

func TestWeightingErrorsSurface(t *testing.T) {
	s := newFixture(t)

	if _, err := s.Score(metric.MSE, ScoreParams{Weighting: weighting.Config{Mode: weighting.ModeRaw, Raw: []float64{1}}}); err == nil {
		t.Error("Expected an error for a short raw weight vector")
	}
}

func TestTimelinessGroups(t *testing.T) {
	s := newFixture(t)

	got, err := s.TimelinessGroups(timeliness.Config{TimeAxis: "x2", MaxDelay: 2})
	if err != nil {
		t.Fatal(err)
	}

	expected := []timeliness.GroupResult{
		{Label: "one", Group: table.Cell{"0"}, Delay: 0, Timeliness: 1},
		{Label: "two", Group: table.Cell{"1"}, Delay: 0, Timeliness: 1},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Error(diff)
	}
}
