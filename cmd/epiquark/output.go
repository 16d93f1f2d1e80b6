package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/epiquark/distribution"
	"github.com/carbocation/epiquark/metric"
	"github.com/carbocation/epiquark/timeliness"
	"github.com/carbocation/pfx"
	"github.com/carbocation/runningvariance"
	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
)

type ScoreRow struct {
	Label  string  `csv:"data_label"`
	Metric string  `csv:"metric"`
	Score  float64 `csv:"score"`
}

type MeanRow struct {
	Metric       string  `csv:"metric"`
	MacroMean    float64 `csv:"macro_mean"`
	WeightedMean float64 `csv:"weighted_mean"`
}

type ConfusionRow struct {
	Label string  `csv:"data_label"`
	TN    float64 `csv:"tn"`
	FP    float64 `csv:"fp"`
	FN    float64 `csv:"fn"`
	TP    float64 `csv:"tp"`
}

type TimelinessRow struct {
	Label      string  `csv:"data_label"`
	Group      string  `csv:"group"`
	Delay      int     `csv:"delay"`
	Timeliness float64 `csv:"timeliness"`
}

func scoreRows(metricName string, scores map[string]float64) []ScoreRow {
	labels := make([]string, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]ScoreRow, 0, len(scores))
	for _, label := range labels {
		out = append(out, ScoreRow{Label: label, Metric: metricName, Score: scores[label]})
	}

	return out
}

func confusionRows(matrices map[string]metric.ConfusionMatrix) []ConfusionRow {
	labels := make([]string, 0, len(matrices))
	for label := range matrices {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]ConfusionRow, 0, len(matrices))
	for _, label := range labels {
		m := matrices[label]
		out = append(out, ConfusionRow{Label: label, TN: m.TN(), FP: m.FP(), FN: m.FN(), TP: m.TP()})
	}

	return out
}

func timelinessRows(results []timeliness.GroupResult) []TimelinessRow {
	out := make([]TimelinessRow, 0, len(results))
	for _, r := range results {
		out = append(out, TimelinessRow{
			Label:      r.Label,
			Group:      strings.Join(r.Group, ":"),
			Delay:      r.Delay,
			Timeliness: r.Timeliness,
		})
	}

	return out
}

// summarize logs the spread of per-label scores to stderr, skipping the
// undefined ones.
func summarize(metricName string, scores map[string]float64) {
	data := make(stats.Float64Data, 0, len(scores))
	for _, v := range scores {
		if !math.IsNaN(v) {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		log.Printf("%s: no label has a defined score\n", metricName)
		return
	}

	min, _ := data.Min()
	median, _ := data.Median()
	max, _ := data.Max()
	log.Printf("%s over %d of %d labels: min %.4g median %.4g max %.4g\n", metricName, len(data), len(scores), min, median, max)
}

// summarizeDelays logs the mean and spread of the detection delay per label,
// and draws a histogram of all delays to w when it is non-nil.
func summarizeDelays(results []timeliness.GroupResult, w io.Writer) error {
	perLabel := make(map[string]*runningvariance.RunningStat)
	labels := make([]string, 0)
	delays := make([]float64, 0, len(results))
	for _, r := range results {
		rv, ok := perLabel[r.Label]
		if !ok {
			rv = runningvariance.NewRunningStat()
			perLabel[r.Label] = rv
			labels = append(labels, r.Label)
		}
		rv.Push(float64(r.Delay))
		delays = append(delays, float64(r.Delay))
	}

	for _, label := range labels {
		rv := perLabel[label]
		log.Printf("%s: %d groups, delay mean %.4g std %.4g (min %v max %v)\n", label, rv.N, rv.Mean(), rv.StandardDeviation(), rv.Min, rv.Max)
	}

	if w == nil || len(delays) == 0 {
		return nil
	}

	// The number of buckets is arbitrary.
	hist := histogram.Hist(10, delays)
	return histogram.Fprint(w, hist, histogram.Linear(40))
}

func writeRows(w io.Writer, rows interface{}, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim

	return gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(cw))
}

// writeEvalTable writes the evaluation table with one column per coordinate,
// followed by the data label, p, p_hat and, when set, the weight.
func writeEvalTable(w io.Writer, eval *distribution.EvalTable, weights []float64, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim

	header := append(append([]string(nil), eval.Coords...), "data_label", "p", "p_hat")
	if weights != nil {
		header = append(header, "weight")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, r := range eval.Rows {
		rec := append(append([]string(nil), r.Cell...), r.Label, formatFloat(r.P), formatFloat(r.PHat))
		if weights != nil {
			rec = append(rec, formatFloat(weights[i]))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func readWeights(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	out := make([]float64, 0)
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s line %d: %w", path, line, err))
		}
		out = append(out, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return out, nil
}
