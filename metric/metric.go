// Package metric holds the classification and regression scores the engine
// evaluates per data label, the 2x2 confusion matrix they are built on and
// the registry that maps metric names to scores and threshold requirements.
package metric

import "math"

// ScoreFunction scores predicted values against true values. weights is
// either nil or holds one non-negative weight per value.
type ScoreFunction interface {
	Score(truth, pred, weights []float64) float64
}

// Func adapts an ordinary function to ScoreFunction.
type Func func(truth, pred, weights []float64) float64

func (f Func) Score(truth, pred, weights []float64) float64 {
	return f(truth, pred, weights)
}

// Binarize maps each value to 1 when it exceeds threshold and 0 otherwise.
func Binarize(values []float64, threshold float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v > threshold {
			out[i] = 1
		}
	}

	return out
}

func weightAt(weights []float64, i int) float64 {
	if weights == nil {
		return 1
	}

	return weights[i]
}

// ratio returns num/denom, NaN when both are zero.
func ratio(num, denom float64) float64 {
	if denom == 0 {
		return math.NaN()
	}

	return num / denom
}
