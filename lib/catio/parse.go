package catio

import (
	"bytes"
	"strconv"

	g_error "github.com/athena-regress/athcheck/lib/error"
)

/* parse.go contains the tokenizing and number-parsing routines used by the
table decoder. */

// line is a single line of text along with its 1-indexed line number.
type line struct {
	n int
	tok [][]byte
}

// split splits text into lines, tokenizes each one and drops the lines which
// are blank or whose first token starts with the comment character.
func split(text []byte, config TextConfig) []line {
	raw := bytes.Split(text, []byte{ '\n' })
	lines := make([]line, 0, len(raw))

	for i := range raw {
		tok := fields(bytes.TrimRight(raw[i], "\r"), config.Separator)
		if len(tok) == 0 || (len(tok[0]) > 0 && tok[0][0] == config.Comment) {
			continue
		}
		lines = append(lines, line{ i + 1, tok })
	}

	return lines
}

// fields splits a line on sep. A separator of ' ' splits on runs of any
// whitespace. Other separators are exact and surrounding spaces are trimmed.
func fields(text []byte, sep byte) [][]byte {
	if sep == ' ' { return bytes.Fields(text) }
	if len(bytes.TrimSpace(text)) == 0 { return nil }

	tok := bytes.Split(text, []byte{ sep })
	for i := range tok { tok[i] = bytes.TrimSpace(tok[i]) }
	return tok
}

// parseIndex parses a grid index column.
func parseIndex(l line, col int) (int, error) {
	if col >= len(l.tok) {
		return 0, g_error.LineErrorf(g_error.ErrFormatMismatch, l.n,
			"expected an index in column %d, but the line has %d columns",
			col + 1, len(l.tok))
	}
	i, err := strconv.Atoi(string(l.tok[col]))
	if err != nil {
		return 0, g_error.LineErrorf(g_error.ErrFormatMismatch, l.n,
			"column %d, '%s', is not an integer index", col + 1, l.tok[col])
	}
	return i, nil
}

// parseValues parses every token of l which isn't an index column.
func parseValues(l line, isIndex func(col int) bool, out []float64) ([]float64, error) {
	for col := range l.tok {
		if isIndex(col) { continue }
		x, err := strconv.ParseFloat(string(l.tok[col]), 64)
		if err != nil {
			return nil, g_error.LineErrorf(g_error.ErrFormatMismatch, l.n,
				"column %d, '%s', is not a number", col + 1, l.tok[col])
		}
		out = append(out, x)
	}
	return out, nil
}
