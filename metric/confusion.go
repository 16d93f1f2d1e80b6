package metric

import "math"

// ConfusionMatrix is laid out as [[TN, FP], [FN, TP]]: rows are the true
// class and columns the predicted class, negative first.
type ConfusionMatrix [2][2]float64

// Confusion counts binary outcomes, adding each row's weight instead of 1
// when weights are given. Values greater than zero are positive.
func Confusion(truth, pred, weights []float64) ConfusionMatrix {
	var out ConfusionMatrix
	for i := range truth {
		t, p := 0, 0
		if truth[i] > 0 {
			t = 1
		}
		if pred[i] > 0 {
			p = 1
		}
		out[t][p] += weightAt(weights, i)
	}

	return out
}

func (c ConfusionMatrix) TN() float64 { return c[0][0] }
func (c ConfusionMatrix) FP() float64 { return c[0][1] }
func (c ConfusionMatrix) FN() float64 { return c[1][0] }
func (c ConfusionMatrix) TP() float64 { return c[1][1] }

func (c ConfusionMatrix) Sensitivity() float64 { return ratio(c.TP(), c.TP()+c.FN()) }
func (c ConfusionMatrix) Specificity() float64 { return ratio(c.TN(), c.TN()+c.FP()) }
func (c ConfusionMatrix) FPR() float64         { return ratio(c.FP(), c.FP()+c.TN()) }
func (c ConfusionMatrix) FNR() float64         { return ratio(c.FN(), c.FN()+c.TP()) }
func (c ConfusionMatrix) Precision() float64   { return ratio(c.TP(), c.TP()+c.FP()) }
func (c ConfusionMatrix) NPV() float64         { return ratio(c.TN(), c.TN()+c.FN()) }

// F1 is 0 when there are no positives at all, true or predicted.
func (c ConfusionMatrix) F1() float64 {
	denom := 2*c.TP() + c.FP() + c.FN()
	if denom == 0 {
		return 0
	}

	return 2 * c.TP() / denom
}

// Matthews is the Matthews correlation coefficient, 0 when any marginal is
// empty.
func (c ConfusionMatrix) Matthews() float64 {
	denom := (c.TP() + c.FP()) * (c.TP() + c.FN()) * (c.TN() + c.FP()) * (c.TN() + c.FN())
	if denom == 0 {
		return 0
	}

	return (c.TP()*c.TN() - c.FP()*c.FN()) / math.Sqrt(denom)
}

// fromConfusion lifts a confusion-matrix statistic to a ScoreFunction.
func fromConfusion(stat func(ConfusionMatrix) float64) Func {
	return func(truth, pred, weights []float64) float64 {
		return stat(Confusion(truth, pred, weights))
	}
}

var (
	F1          = fromConfusion(ConfusionMatrix.F1)
	Sensitivity = fromConfusion(ConfusionMatrix.Sensitivity)
	Specificity = fromConfusion(ConfusionMatrix.Specificity)
	FPR         = fromConfusion(ConfusionMatrix.FPR)
	FNR         = fromConfusion(ConfusionMatrix.FNR)
	Precision   = fromConfusion(ConfusionMatrix.Precision)
	NPV         = fromConfusion(ConfusionMatrix.NPV)
	Matthews    = fromConfusion(ConfusionMatrix.Matthews)
)
