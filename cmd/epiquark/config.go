package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/epiquark"
	"github.com/carbocation/epiquark/distribution"
	"github.com/carbocation/epiquark/impute"
	"github.com/carbocation/epiquark/scorer"
	"github.com/carbocation/epiquark/weighting"
	"github.com/carbocation/pfx"
	"gonum.org/v1/gonum/mat"
)

// JSONConfig holds the settings that are awkward to pass as flags. Every
// field is optional.
type JSONConfig struct {
	ConfigPath string `json:"-"`

	SignalImputation string `json:"signal_imputation"`
	Alignment        string `json:"alignment"`

	Weighting  string      `json:"weighting"`
	GaussDims  []string    `json:"gauss_dims"`
	Covariance [][]float64 `json:"covariance"`
	Variances  []float64   `json:"variances"`
	TimeAxis   string      `json:"time_axis"`

	// RawWeights is a file with one weight per line, in evaluation table
	// order.
	RawWeights string `json:"raw_weights"`
}

func ParseJSONConfigFromPath(path string) (JSONConfig, error) {
	out := JSONConfig{ConfigPath: path}
	if path == "" {
		return out, nil
	}

	f, err := os.Open(epiquark.ExpandHome(path))
	if err != nil {
		return out, pfx.Err(err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}
		return out, pfx.Err(err)
	}

	out.RawWeights = epiquark.ExpandHome(out.RawWeights)

	return out, nil
}

func (c JSONConfig) Options() scorer.Options {
	return scorer.Options{
		SignalImputation: impute.Policy(c.SignalImputation),
		Alignment:        distribution.AlignPolicy(c.Alignment),
	}
}

// WeightingConfig converts the weighting settings. Raw weights are read
// from disk here.
func (c JSONConfig) WeightingConfig() (weighting.Config, error) {
	out := weighting.Config{
		Mode:      weighting.Mode(c.Weighting),
		GaussDims: c.GaussDims,
		TimeAxis:  c.TimeAxis,
	}

	if len(c.Covariance) > 0 && len(c.Variances) > 0 {
		return out, fmt.Errorf("%s: set either covariance or variances, not both", c.ConfigPath)
	}

	if len(c.Variances) > 0 {
		out.Covariance = weighting.DiagCovariance(c.Variances)
	}

	if n := len(c.Covariance); n > 0 {
		for i, row := range c.Covariance {
			if len(row) != n {
				return out, fmt.Errorf("%s: covariance row %d has %d entries, expected %d", c.ConfigPath, i, len(row), n)
			}
		}

		flat := make([]float64, 0, n*n)
		for i, row := range c.Covariance {
			for j, v := range row {
				if c.Covariance[j][i] != v {
					return out, fmt.Errorf("%s: covariance is not symmetric at (%d,%d)", c.ConfigPath, i, j)
				}
			}
			flat = append(flat, row...)
		}
		out.Covariance = mat.NewSymDense(n, flat)
	}

	if c.RawWeights != "" {
		w, err := readWeights(c.RawWeights)
		if err != nil {
			return out, err
		}
		out.Raw = w
	}

	return out, nil
}
