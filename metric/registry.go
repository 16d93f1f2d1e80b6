package metric

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/guregu/null.v3"
)

var (
	ErrUnknownMetric = errors.New("This metric is not recognized.")
	ErrThresholds    = errors.New("threshold mismatch")
)

// Requirement states which thresholds a metric needs: a metric either
// requires a threshold or must not be given one.
type Requirement struct {
	PThresh    bool
	PHatThresh bool
}

// Check compares the supplied thresholds against the requirement.
func (r Requirement) Check(pThresh, pHatThresh null.Float) error {
	if pThresh.Valid == r.PThresh && pHatThresh.Valid == r.PHatThresh {
		return nil
	}

	return fmt.Errorf("%w: This metric %s p_thresh and %s p_hat_thresh.", ErrThresholds, requirementText(r.PThresh), requirementText(r.PHatThresh))
}

func requirementText(required bool) string {
	if required {
		return "requires"
	}

	return "must not contain"
}

// Metric is a named score with its threshold requirement.
type Metric struct {
	Name     string
	Score    ScoreFunction
	Requires Requirement
}

// Check validates the thresholds for this metric, naming it on failure.
func (m Metric) Check(pThresh, pHatThresh null.Float) error {
	if err := m.Requires.Check(pThresh, pHatThresh); err != nil {
		return fmt.Errorf("%s: %w", m.Name, err)
	}

	return nil
}

var (
	binary     = Requirement{PThresh: true, PHatThresh: true}
	scored     = Requirement{PThresh: true, PHatThresh: false}
	continuous = Requirement{PThresh: false, PHatThresh: false}
)

// Registry lists the recognized metrics, in the order names are reported.
var Registry = []Metric{
	{"f1", F1, binary},
	{"brier", Brier, scored},
	{"auc", AUC, scored},
	{"sensitivity", Sensitivity, binary},
	{"recall", Sensitivity, binary},
	{"tpr", Sensitivity, binary},
	{"specificity", Specificity, binary},
	{"tnr", Specificity, binary},
	{"fpr", FPR, binary},
	{"fnr", FNR, binary},
	{"precision", Precision, binary},
	{"ppv", Precision, binary},
	{"npv", NPV, binary},
	{"matthews", Matthews, binary},
	{"r2", R2, continuous},
	{"mse", MSE, continuous},
	{"mae", MAE, continuous},
}

// Names returns the recognized metric names.
func Names() []string {
	out := make([]string, len(Registry))
	for i, m := range Registry {
		out[i] = m.Name
	}

	return out
}

// Lookup finds a metric by name.
func Lookup(name string) (Metric, error) {
	for _, m := range Registry {
		if m.Name == name {
			return m, nil
		}
	}

	return Metric{}, fmt.Errorf("%w Please use one of the following: %s", ErrUnknownMetric, strings.Join(Names(), ", "))
}
