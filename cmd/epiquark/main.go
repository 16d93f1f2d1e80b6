// epiquark scores the output of an outbreak detection algorithm against the
// observed cases. Both inputs are long-format delimited files (optionally
// compressed, locally or on Google Storage) with coordinate columns, a label
// column and a value column.
//
//	epiquark score -cases cases.csv -signals signals.csv -metric f1 -p_thresh 0 -p_hat_thresh 0.5
//	epiquark confmatrix -cases cases.csv -signals signals.csv
//	epiquark timeliness -cases cases.csv -signals signals.csv -time_axis week -max_delay 4
//	epiquark eval -cases cases.csv -signals signals.csv -config weighting.json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/epiquark"
	_ "github.com/carbocation/epiquark/compileinfoprint"
	"github.com/carbocation/epiquark/metric"
	"github.com/carbocation/epiquark/scorer"
	"github.com/carbocation/epiquark/table"
	"github.com/carbocation/epiquark/timeliness"
	"gopkg.in/guregu/null.v3"
)

// Safe for concurrent use by multiple goroutines
var client *storage.Client

type flagSlice []string

func (i *flagSlice) String() string {
	return strings.Join(*i, ",")
}

func (i *flagSlice) Set(value string) error {
	*i = append(*i, value)
	return nil
}

// nullFloat leaves its value invalid unless the flag is passed.
type nullFloat struct{ null.Float }

func (n *nullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return fmt.Sprint(n.Float64)
}

func (n *nullFloat) Set(value string) error {
	return n.UnmarshalText([]byte(value))
}

type common struct {
	cases, signals string
	configPath     string
	output         string
	delim          string
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.cases, "cases", "", "Path to the case counts (columns: coordinates, data_label, value). May be a gs:// path.")
	fs.StringVar(&c.signals, "signals", "", "Path to the signal strengths (columns: coordinates, signal_label, value). May be a gs:// path.")
	fs.StringVar(&c.configPath, "config", "", "Optional JSON file with imputation, alignment and weighting settings.")
	fs.StringVar(&c.output, "output", "", "Output file. If empty, results go to stdout.")
	fs.StringVar(&c.delim, "delim", ",", "Output delimiter. Use \\t for tabs.")
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <score|confmatrix|timeliness|eval> [flags]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Metrics: %s\n", strings.Join(metric.Names(), ", "))
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "score":
		err = runScore(os.Args[2:])
	case "confmatrix":
		err = runConfMatrix(os.Args[2:])
	case "timeliness":
		err = runTimeliness(os.Args[2:])
	case "eval":
		err = runEval(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalln(err)
	}
}

func runScore(args []string) error {
	var c common
	var metrics flagSlice
	var pThresh, pHatThresh nullFloat
	var mean bool

	fs := flag.NewFlagSet("score", flag.ExitOnError)
	c.register(fs)
	fs.Var(&metrics, "metric", "Metric to compute. Pass once per metric (e.g., -metric f1 -metric mse).")
	fs.Var(&pThresh, "p_thresh", "Binarize the true distribution above this value. Required by the binary metrics.")
	fs.Var(&pHatThresh, "p_hat_thresh", "Binarize the predicted distribution above this value. Required by the binary metrics.")
	fs.BoolVar(&mean, "mean", false, "Print the macro mean and the case-weighted mean across labels instead of per-label scores.")
	fs.Parse(args)

	if len(metrics) < 1 {
		fs.Usage()
		usage()
		os.Exit(1)
	}

	pThreshValue, pHatThreshValue := pThresh.Float, pHatThresh.Float

	// Metric names and thresholds are checked before any table is read.
	checked := make([]metric.Metric, 0, len(metrics))
	for _, name := range metrics {
		m, err := metric.Lookup(name)
		if err != nil {
			return err
		}
		if err := m.Check(pThreshValue, pHatThreshValue); err != nil {
			return err
		}
		checked = append(checked, m)
	}

	s, cfg, err := c.load()
	if err != nil {
		return err
	}

	w, err := cfg.WeightingConfig()
	if err != nil {
		return err
	}
	params := scorer.ScoreParams{PThresh: pThreshValue, PHatThresh: pHatThreshValue, Weighting: w}

	scores := make([]ScoreRow, 0)
	means := make([]MeanRow, 0, len(checked))
	for _, m := range checked {
		if mean {
			pair, err := s.MeanScore(m.Score, params)
			if err != nil {
				return err
			}
			means = append(means, MeanRow{Metric: m.Name, MacroMean: pair[0], WeightedMean: pair[1]})
			continue
		}

		perLabel, err := s.Score(m.Score, params)
		if err != nil {
			return err
		}
		summarize(m.Name, perLabel)
		scores = append(scores, scoreRows(m.Name, perLabel)...)
	}

	if mean {
		return c.write(&means)
	}
	return c.write(&scores)
}

func runConfMatrix(args []string) error {
	var c common
	pThresh := nullFloat{null.FloatFrom(epiquark.DefaultPThresh)}
	pHatThresh := nullFloat{null.FloatFrom(epiquark.DefaultPHatThresh)}

	fs := flag.NewFlagSet("confmatrix", flag.ExitOnError)
	c.register(fs)
	fs.Var(&pThresh, "p_thresh", "Binarize the true distribution above this value.")
	fs.Var(&pHatThresh, "p_hat_thresh", "Binarize the predicted distribution above this value.")
	fs.Parse(args)

	s, cfg, err := c.load()
	if err != nil {
		return err
	}

	w, err := cfg.WeightingConfig()
	if err != nil {
		return err
	}

	matrices, err := s.ConfusionMatrix(pThresh.Float64, pHatThresh.Float64, w)
	if err != nil {
		return err
	}

	rows := confusionRows(matrices)
	return c.write(&rows)
}

func runTimeliness(args []string) error {
	var c common
	var timeAxis string
	var maxDelay int
	var signalThreshold float64
	var groups, hist bool

	fs := flag.NewFlagSet("timeliness", flag.ExitOnError)
	c.register(fs)
	fs.StringVar(&timeAxis, "time_axis", "", "Coordinate column holding time.")
	fs.IntVar(&maxDelay, "max_delay", 0, "Largest delay, in time steps, that still earns credit.")
	fs.Float64Var(&signalThreshold, "signal_threshold", 0, "A signal above this strength counts as a detection.")
	fs.BoolVar(&groups, "groups", false, "Print the delay of every spatial group instead of the mean per label.")
	fs.BoolVar(&hist, "hist", false, "With -groups, also draw a histogram of the delays to stderr.")
	fs.Parse(args)

	if timeAxis == "" {
		fs.Usage()
		os.Exit(1)
	}

	s, _, err := c.load()
	if err != nil {
		return err
	}

	tc := timeliness.Config{TimeAxis: timeAxis, MaxDelay: maxDelay, SignalThreshold: signalThreshold}

	if groups {
		results, err := s.TimelinessGroups(tc)
		if err != nil {
			return err
		}
		var histOut io.Writer
		if hist {
			histOut = os.Stderr
		}
		if err := summarizeDelays(results, histOut); err != nil {
			return err
		}
		rows := timelinessRows(results)
		return c.write(&rows)
	}

	perLabel, err := s.Timeliness(tc)
	if err != nil {
		return err
	}
	summarize("timeliness", perLabel)
	rows := scoreRows("timeliness", perLabel)

	return c.write(&rows)
}

func runEval(args []string) error {
	var c common

	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	c.register(fs)
	fs.Parse(args)

	s, cfg, err := c.load()
	if err != nil {
		return err
	}

	w, err := cfg.WeightingConfig()
	if err != nil {
		return err
	}

	weights, err := s.Weights(w)
	if err != nil {
		return err
	}

	return c.emit(func(out io.Writer, delim rune) error {
		return writeEvalTable(out, s.EvalTable(), weights, delim)
	})
}

// load reads the config and both tables and builds the scorer.
func (c common) load() (*scorer.Scorer, JSONConfig, error) {
	if c.cases == "" || c.signals == "" {
		return nil, JSONConfig{}, fmt.Errorf("both -cases and -signals are required")
	}

	cfg, err := ParseJSONConfigFromPath(c.configPath)
	if err != nil {
		return nil, cfg, err
	}

	// Initialize the Google Storage client only if we're pointing to Google
	// Storage paths.
	if strings.HasPrefix(c.cases, "gs://") || strings.HasPrefix(c.signals, "gs://") {
		client, err = storage.NewClient(context.Background())
		if err != nil {
			return nil, cfg, err
		}
	}

	ctx := context.Background()
	cases, err := epiquark.OpenTable(ctx, c.cases, table.ColumnDataLabel, client)
	if err != nil {
		return nil, cfg, err
	}
	signals, err := epiquark.OpenTable(ctx, c.signals, table.ColumnSignalLabel, client)
	if err != nil {
		return nil, cfg, err
	}
	log.Printf("Read %d case rows and %d signal rows over coordinates %v\n", len(cases.Rows), len(signals.Rows), cases.Coords)

	s, err := scorer.New(cases, signals, cfg.Options())
	if err != nil {
		return nil, cfg, err
	}

	return s, cfg, nil
}

func (c common) write(rows interface{}) error {
	return c.emit(func(out io.Writer, delim rune) error {
		return writeRows(out, rows, delim)
	})
}

func (c common) emit(fn func(io.Writer, rune) error) error {
	delim := ','
	switch c.delim {
	case "\\t", "\t", "tab":
		delim = '\t'
	case "":
	default:
		delim = []rune(c.delim)[0]
	}

	if c.output == "" {
		return fn(os.Stdout, delim)
	}

	f, err := os.Create(epiquark.ExpandHome(c.output))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := fn(f, delim); err != nil {
		return err
	}

	return f.Close()
}
