package metric

import "gonum.org/v1/gonum/stat"

// Aggregator combines per-label scores into one number. labels fixes the
// iteration order; volumes holds each label's total case count.
type Aggregator func(labels []string, scores, volumes map[string]float64) float64

// MacroMean is the unweighted mean of the per-label scores.
func MacroMean(labels []string, scores, _ map[string]float64) float64 {
	x := make([]float64, len(labels))
	for i, l := range labels {
		x[i] = scores[l]
	}

	return stat.Mean(x, nil)
}

// VolumeWeightedMean weights each label's score by its case volume.
func VolumeWeightedMean(labels []string, scores, volumes map[string]float64) float64 {
	x := make([]float64, len(labels))
	w := make([]float64, len(labels))
	for i, l := range labels {
		x[i] = scores[l]
		w[i] = volumes[l]
	}

	return stat.Mean(x, w)
}
