// Package epiquark scores outbreak detection algorithms against case data.
//
// Given a table of case counts per disease class and grid cell, and a table
// of signal strengths per class and cell produced by a detection algorithm,
// epiquark derives the true distribution p(d|x) and the predicted
// distribution p_hat(d|x) per cell and compares them with classification
// metrics, confusion matrices and a detection-delay score (timeliness).
//
// The functions in this package select metrics by name and check their
// threshold requirements; package scorer exposes the engine directly.
package epiquark

import (
	"github.com/carbocation/epiquark/metric"
	"github.com/carbocation/epiquark/scorer"
	"github.com/carbocation/epiquark/table"
	"github.com/carbocation/epiquark/timeliness"
	"github.com/carbocation/epiquark/weighting"
	"gopkg.in/guregu/null.v3"
)

// Default thresholds of ConfMatrix.
const (
	DefaultPThresh    = 0
	DefaultPHatThresh = 0.5
)

// Score computes metricName per data label. The thresholds must match the
// metric's requirement; this is checked before any table is processed.
func Score(cases, signals *table.Table, metricName string, params scorer.ScoreParams, opts scorer.Options) (map[string]float64, error) {
	m, err := checkedMetric(metricName, params)
	if err != nil {
		return nil, err
	}

	s, err := scorer.New(cases, signals, opts)
	if err != nil {
		return nil, err
	}

	return s.Score(m.Score, params)
}

// MeanScore aggregates metricName across data labels into the two numbers
// configured in opts.
func MeanScore(cases, signals *table.Table, metricName string, params scorer.ScoreParams, opts scorer.Options) ([2]float64, error) {
	m, err := checkedMetric(metricName, params)
	if err != nil {
		return [2]float64{}, err
	}

	s, err := scorer.New(cases, signals, opts)
	if err != nil {
		return [2]float64{}, err
	}

	return s.MeanScore(m.Score, params)
}

// ConfMatrix computes a confusion matrix per data label. Unset thresholds
// default to DefaultPThresh and DefaultPHatThresh; an explicitly set 0 is
// kept as 0.
func ConfMatrix(cases, signals *table.Table, pThresh, pHatThresh null.Float, w weighting.Config) (map[string]metric.ConfusionMatrix, error) {
	s, err := scorer.New(cases, signals, scorer.Options{})
	if err != nil {
		return nil, err
	}

	return s.ConfusionMatrix(orDefault(pThresh, DefaultPThresh), orDefault(pHatThresh, DefaultPHatThresh), w)
}

// Timeliness computes the mean timeliness per outbreak label along
// timeAxis, giving no credit to delays above d.
func Timeliness(cases, signals *table.Table, timeAxis string, d int, signalThreshold float64) (map[string]float64, error) {
	s, err := scorer.New(cases, signals, scorer.Options{})
	if err != nil {
		return nil, err
	}

	return s.Timeliness(timeliness.Config{TimeAxis: timeAxis, MaxDelay: d, SignalThreshold: signalThreshold})
}

func checkedMetric(name string, params scorer.ScoreParams) (metric.Metric, error) {
	m, err := metric.Lookup(name)
	if err != nil {
		return m, err
	}

	return m, m.Check(params.PThresh, params.PHatThresh)
}

func orDefault(v null.Float, def float64) float64 {
	if v.Valid {
		return v.Float64
	}

	return def
}
