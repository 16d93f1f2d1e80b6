package epiquark

import (
	"bufio"
	"io"
	"strings"
)

// quoteFixReader transparently replaces the backslash-escaped quote \" that
// some exporters write with the "" that encoding/csv expects.
type quoteFixReader struct {
	r        *bufio.Reader
	leftover *strings.Reader
	err      error
}

func newQuoteFixReader(r io.Reader) *quoteFixReader {
	return &quoteFixReader{r: bufio.NewReader(r), leftover: strings.NewReader("")}
}

func (m *quoteFixReader) Read(p []byte) (int, error) {
	for m.leftover.Len() == 0 {
		if m.err != nil {
			return 0, m.err
		}

		var line string
		line, m.err = m.r.ReadString('\n')
		m.leftover = strings.NewReader(strings.ReplaceAll(line, `\"`, `""`))
	}

	return m.leftover.Read(p)
}
