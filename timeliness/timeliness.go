// Package timeliness measures how quickly signals follow the onset of cases.
//
// For every outbreak label and spatial group (the cells sharing all
// coordinates but the time axis) the case and signal series are scanned in
// time order. The delay s runs from the first step with cases to the first
// step at or after it whose signal exceeds the threshold. A step counts as
// detected when the signal named after the label exceeds the threshold, or
// when any generic signal that contributes to the label there does; a series that
// never starts or is never detected gets the series length. Timeliness is
// 1 - s/D for s <= D and 0 otherwise.
package timeliness

import (
	"fmt"
	"sort"

	"github.com/carbocation/epiquark/distribution"
	"github.com/carbocation/epiquark/table"
	"github.com/montanaflynn/stats"
)

type Config struct {
	// TimeAxis names the coordinate ordering each series.
	TimeAxis string

	// MaxDelay is D, the largest delay still worth any credit.
	MaxDelay int

	// SignalThreshold binarizes signal strengths: a step is detected when
	// its strength exceeds the threshold.
	SignalThreshold float64
}

// GroupResult is the delay and timeliness of one label in one spatial group.
type GroupResult struct {
	Label      string
	Group      table.Cell
	Delay      int
	Timeliness float64
}

// Delay returns the steps between onset, the first nonzero case, and
// detection, the first nonzero signal at or after onset. When either never
// happens the delay is the series length.
func Delay(cases, detections []float64) int {
	onset := -1
	for i, c := range cases {
		if c != 0 {
			onset = i
			break
		}
	}
	if onset < 0 {
		return len(cases)
	}

	for i := onset; i < len(detections); i++ {
		if detections[i] != 0 {
			return i - onset
		}
	}

	return len(cases)
}

// Score converts a delay into timeliness for maximum delay d.
func Score(delay, d int) float64 {
	if delay > d {
		return 0
	}
	if d == 0 {
		return 1
	}

	return 1 - float64(delay)/float64(d)
}

// Groups computes one GroupResult per outbreak label and spatial group in
// which observed lists that label. cases is the completed case table and
// signals the imputed signal table, both in observed's coordinate order.
// Results are ordered by label, then by group in order of first appearance.
func Groups(observed, cases, signals *table.Table, cfg Config) ([]GroupResult, error) {
	if cfg.MaxDelay < 0 {
		return nil, fmt.Errorf("maximum delay must not be negative, got %d", cfg.MaxDelay)
	}

	ti := observed.CoordIndex(cfg.TimeAxis)
	if ti < 0 {
		return nil, fmt.Errorf("time axis %q is not a coordinate of %v", cfg.TimeAxis, observed.Coords)
	}

	// Time steps of each spatial group, in time order.
	steps := make(map[table.Key][]string)
	groups := make([]table.Cell, 0)
	for _, cell := range cases.Cells() {
		g := cell.Without(ti)
		if _, ok := steps[g.Key()]; !ok {
			groups = append(groups, g)
		}
		steps[g.Key()] = append(steps[g.Key()], cell[ti])
	}
	for k, s := range steps {
		steps[k] = table.SortAxis(s)
	}

	// Spatial groups in which each outbreak label is observed.
	members := make(map[string]table.KeySet)
	for _, r := range observed.Rows {
		if !table.IsOutbreak(r.Label) {
			continue
		}
		if _, ok := members[r.Label]; !ok {
			members[r.Label] = make(table.KeySet)
		}
		members[r.Label].Add(r.Cell.Without(ti).Key())
	}

	labels := make([]string, 0, len(members))
	for l := range members {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	caseValues := cases.Values()
	signalValues := signals.Values()

	// Generic signal labels reaching each (cell, data label).
	generic := make(map[table.LabelKey][]string)
	for _, c := range distribution.Contributions(cases, signals.Labels()) {
		if c.SignalLabel == c.DataLabel || c.P <= 0 {
			continue
		}
		k := table.LabelKey{Cell: c.Cell.Key(), Label: c.DataLabel}
		generic[k] = append(generic[k], c.SignalLabel)
	}

	out := make([]GroupResult, 0)
	for _, label := range labels {
		for _, g := range groups {
			if !members[label].Has(g.Key()) {
				continue
			}

			times := steps[g.Key()]
			c := make([]float64, len(times))
			s := make([]float64, len(times))
			for i, t := range times {
				k := table.LabelKey{Cell: withTime(g, ti, t).Key(), Label: label}
				c[i] = caseValues[k]
				if signalValues[k] > cfg.SignalThreshold {
					s[i] = 1
				}
				for _, sl := range generic[k] {
					if signalValues[table.LabelKey{Cell: k.Cell, Label: sl}] > cfg.SignalThreshold {
						s[i] = 1
					}
				}
			}

			delay := Delay(c, s)
			out = append(out, GroupResult{
				Label:      label,
				Group:      g,
				Delay:      delay,
				Timeliness: Score(delay, cfg.MaxDelay),
			})
		}
	}

	return out, nil
}

// Compute returns the mean timeliness of each outbreak label across its
// spatial groups.
func Compute(observed, cases, signals *table.Table, cfg Config) (map[string]float64, error) {
	results, err := Groups(observed, cases, signals, cfg)
	if err != nil {
		return nil, err
	}

	perLabel := make(map[string]stats.Float64Data)
	for _, r := range results {
		perLabel[r.Label] = append(perLabel[r.Label], r.Timeliness)
	}

	out := make(map[string]float64, len(perLabel))
	for label, data := range perLabel {
		mean, err := data.Mean()
		if err != nil {
			return nil, err
		}
		out[label] = mean
	}

	return out, nil
}

// withTime inserts the time value back into a spatial group's coordinates.
func withTime(group table.Cell, ti int, t string) table.Cell {
	out := make(table.Cell, 0, len(group)+1)
	out = append(out, group[:ti]...)
	out = append(out, t)
	return append(out, group[ti:]...)
}
