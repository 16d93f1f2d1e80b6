// Package scorer is the scoring engine. New validates the case and signal
// tables, imputes what they leave out and builds the evaluation table once;
// the methods then score it without mutating anything, so a Scorer may be
// queried repeatedly, and from several goroutines, with identical results.
package scorer

import (
	"fmt"

	"github.com/carbocation/epiquark/distribution"
	"github.com/carbocation/epiquark/impute"
	"github.com/carbocation/epiquark/metric"
	"github.com/carbocation/epiquark/table"
	"github.com/carbocation/epiquark/timeliness"
	"github.com/carbocation/epiquark/validate"
	"github.com/carbocation/epiquark/weighting"
	"gopkg.in/guregu/null.v3"
)

// Options tunes the policies used while building the evaluation table.
type Options struct {
	// SignalImputation fills absent signals. Defaults to impute.PolicyMin.
	SignalImputation impute.Policy

	// Alignment handles data labels without an equally named signal label.
	// Defaults to distribution.AlignZero.
	Alignment distribution.AlignPolicy

	// Aggregators produce the two numbers returned by MeanScore. Defaults to
	// the macro mean and the case-volume-weighted mean.
	Aggregators [2]metric.Aggregator
}

// ScoreParams configures one scoring call. A threshold that is not Valid
// leaves its side continuous.
type ScoreParams struct {
	PThresh    null.Float
	PHatThresh null.Float
	Weighting  weighting.Config
}

type Scorer struct {
	opts Options

	observed *table.Table
	cases    *table.Table
	signals  *table.Table

	truth     *distribution.Distribution
	predicted *distribution.Distribution
	aligned   *distribution.Distribution
	eval      *distribution.EvalTable

	labels  []string
	volumes map[string]float64
}

// New runs the validation, imputation and distribution stages. The input
// tables are not modified.
func New(cases, signals *table.Table, opts Options) (*Scorer, error) {
	if err := validate.Tables(cases, signals); err != nil {
		return nil, err
	}

	if opts.SignalImputation == "" {
		opts.SignalImputation = impute.PolicyMin
	}
	if opts.Alignment == "" {
		opts.Alignment = distribution.AlignZero
	}
	if opts.Aggregators[0] == nil {
		opts.Aggregators[0] = metric.MacroMean
	}
	if opts.Aggregators[1] == nil {
		opts.Aggregators[1] = metric.VolumeWeightedMean
	}

	s := &Scorer{opts: opts, observed: cases.Clone()}

	aligned, err := signals.Reorder(cases.Coords)
	if err != nil {
		return nil, err
	}

	s.cases = impute.NonCase(s.observed)
	if s.signals, err = impute.Signals(aligned, s.cases, opts.SignalImputation); err != nil {
		return nil, err
	}

	if s.truth, err = distribution.True(s.cases); err != nil {
		return nil, err
	}
	if s.predicted, err = distribution.Predicted(s.signals); err != nil {
		return nil, err
	}
	if s.aligned, err = distribution.Align(s.truth, s.predicted, s.cases, opts.Alignment); err != nil {
		return nil, err
	}
	if s.eval, err = distribution.Join(s.cases.Coords, s.truth, s.aligned); err != nil {
		return nil, err
	}

	s.labels = s.eval.Labels()
	s.volumes = make(map[string]float64, len(s.labels))
	for _, r := range s.cases.Rows {
		s.volumes[r.Label] += r.Value.Float64
	}

	return s, nil
}

// Labels returns the data labels in evaluation order.
func (s *Scorer) Labels() []string {
	return append([]string(nil), s.labels...)
}

// EvalTable returns a copy of the evaluation table.
func (s *Scorer) EvalTable() *distribution.EvalTable {
	out := &distribution.EvalTable{
		Coords: append([]string(nil), s.eval.Coords...),
		Rows:   make([]distribution.EvalRow, len(s.eval.Rows)),
	}
	for i, r := range s.eval.Rows {
		r.Cell = append(table.Cell(nil), r.Cell...)
		out.Rows[i] = r
	}

	return out
}

// Cases returns a copy of the completed case table.
func (s *Scorer) Cases() *table.Table { return s.cases.Clone() }

// Signals returns a copy of the imputed signal table.
func (s *Scorer) Signals() *table.Table { return s.signals.Clone() }

// Weights returns the sample weights of a weighting configuration, aligned
// with EvalTable.
func (s *Scorer) Weights(cfg weighting.Config) ([]float64, error) {
	return cfg.Weights(s.eval, s.cases)
}

// Score evaluates fn once per data label. p and p_hat are binarized at the
// thresholds that are set and passed through unchanged otherwise.
func (s *Scorer) Score(fn metric.ScoreFunction, params ScoreParams) (map[string]float64, error) {
	weights, err := s.Weights(params.Weighting)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(s.labels))
	for _, label := range s.labels {
		truth, pred, w := s.columns(label, params.PThresh, params.PHatThresh, weights)
		out[label] = fn.Score(truth, pred, w)
	}

	return out, nil
}

// MeanScore aggregates the per-label scores of fn with the two configured
// aggregators.
func (s *Scorer) MeanScore(fn metric.ScoreFunction, params ScoreParams) ([2]float64, error) {
	scores, err := s.Score(fn, params)
	if err != nil {
		return [2]float64{}, err
	}

	return [2]float64{
		s.opts.Aggregators[0](s.labels, scores, s.volumes),
		s.opts.Aggregators[1](s.labels, scores, s.volumes),
	}, nil
}

// ConfusionMatrix binarizes p at pThresh and p_hat at pHatThresh and counts
// outcomes per data label, summing weights instead of rows when a weighting
// is configured.
func (s *Scorer) ConfusionMatrix(pThresh, pHatThresh float64, cfg weighting.Config) (map[string]metric.ConfusionMatrix, error) {
	weights, err := s.Weights(cfg)
	if err != nil {
		return nil, err
	}

	out := make(map[string]metric.ConfusionMatrix, len(s.labels))
	for _, label := range s.labels {
		truth, pred, w := s.columns(label, null.FloatFrom(pThresh), null.FloatFrom(pHatThresh), weights)
		out[label] = metric.Confusion(truth, pred, w)
	}

	return out, nil
}

// Timeliness scores detection delay per outbreak label.
func (s *Scorer) Timeliness(cfg timeliness.Config) (map[string]float64, error) {
	if s.observed.CoordIndex(cfg.TimeAxis) < 0 {
		return nil, fmt.Errorf("time axis %q is not a coordinate of %v", cfg.TimeAxis, s.observed.Coords)
	}

	return timeliness.Compute(s.observed, s.cases, s.signals, cfg)
}

// TimelinessGroups reports the delay behind Timeliness for every outbreak
// label and spatial group.
func (s *Scorer) TimelinessGroups(cfg timeliness.Config) ([]timeliness.GroupResult, error) {
	return timeliness.Groups(s.observed, s.cases, s.signals, cfg)
}

func (s *Scorer) columns(label string, pThresh, pHatThresh null.Float, weights []float64) (truth, pred, w []float64) {
	idx := s.eval.Indices(label)
	truth, pred = s.eval.Columns(idx)

	if pThresh.Valid {
		truth = metric.Binarize(truth, pThresh.Float64)
	}
	if pHatThresh.Valid {
		pred = metric.Binarize(pred, pHatThresh.Float64)
	}

	if weights != nil {
		w = make([]float64, len(idx))
		for j, i := range idx {
			w[j] = weights[i]
		}
	}

	return truth, pred, w
}
