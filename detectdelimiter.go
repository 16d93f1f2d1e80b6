package epiquark

import (
	"bytes"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in sample, assuming a CSV-like table. Only comma, tab, semicolon and
// pipe are considered; the fallback is a comma.
func DetermineDelimiter(sample []byte) rune {
	d := detector.New()
	for _, candidate := range d.DetectDelimiter(bytes.NewReader(sample), '"') {
		switch candidate {
		case ",", "\t", ";", "|":
			return rune(candidate[0])
		}
	}

	return ','
}
