package metric

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// squaredError and absError are the per-row losses behind MSE, MAE and Brier.
func squaredError(t, p float64) float64 { return (t - p) * (t - p) }
func absError(t, p float64) float64     { return math.Abs(t - p) }

func meanLoss(loss func(t, p float64) float64) Func {
	return func(truth, pred, weights []float64) float64 {
		if len(truth) == 0 {
			return math.NaN()
		}

		losses := make([]float64, len(truth))
		for i := range truth {
			losses[i] = loss(truth[i], pred[i])
		}

		return stat.Mean(losses, weights)
	}
}

var (
	MSE = meanLoss(squaredError)
	MAE = meanLoss(absError)

	// Brier is the mean squared difference between a binary truth and a
	// predicted probability.
	Brier = meanLoss(squaredError)
)

// R2 is the coefficient of determination of pred as an estimate of truth.
// When truth is constant it is 1 for a perfect prediction and 0 otherwise.
var R2 = Func(func(truth, pred, weights []float64) float64 {
	if len(truth) == 0 {
		return math.NaN()
	}

	constant := true
	for _, t := range truth[1:] {
		if t != truth[0] {
			constant = false
			break
		}
	}
	if constant {
		if MSE(truth, pred, weights) == 0 {
			return 1
		}
		return 0
	}

	return stat.RSquaredFrom(pred, truth, weights)
})

// AUC is the area under the ROC curve of the scores pred for the binary
// classes in truth.
var AUC = Func(func(truth, pred, weights []float64) float64 {
	if len(truth) == 0 {
		return math.NaN()
	}

	order := make([]int, len(pred))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pred[order[a]] < pred[order[b]]
	})

	y := make([]float64, len(order))
	classes := make([]bool, len(order))
	var w []float64
	if weights != nil {
		w = make([]float64, len(order))
	}
	for j, i := range order {
		y[j] = pred[i]
		classes[j] = truth[i] > 0
		if w != nil {
			w[j] = weights[i]
		}
	}

	tpr, fpr, _ := stat.ROC(nil, y, classes, w)
	return integrate.Trapezoidal(fpr, tpr)
})
