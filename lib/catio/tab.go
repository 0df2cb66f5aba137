package catio

import (
	"github.com/athena-regress/athcheck/lib/field"
	g_error "github.com/athena-regress/athcheck/lib/error"
)

// indexColumns gives the 0-indexed column holding the i, j and k indices.
var indexColumns = [3]int{ 0, 2, 4 }

// Tab is a decoded table.
type Tab struct {
	// Min and Max are the inclusive (i, j, k) index bounds. Unused
	// dimensions have Min = Max = 0.
	Min, Max [3]int
	// Values holds every non-index column and has shape (Nk, Nj, Ni, ncols).
	Values *field.Array
	// Fields splits Values into one (Nk, Nj, Ni) array per heading. It's nil
	// if no headings were given.
	Fields field.Set
}

// Shape returns (Nk, Nj, Ni).
func (t *Tab) Shape() []int {
	return []int{
		t.Max[2] - t.Min[2] + 1, t.Max[1] - t.Min[1] + 1,
		t.Max[0] - t.Min[0] + 1,
	}
}

// Columns returns the number of value columns.
func (t *Tab) Columns() int { return t.Values.Shape[3] }

// Row returns the value columns of the cell with the given file indices.
func (t *Tab) Row(i, j, k int) []float64 {
	shape := t.Shape()
	row := ((k - t.Min[2])*shape[1] + (j - t.Min[1]))*shape[2] + (i - t.Min[0])
	n := t.Columns()
	return t.Values.Data[row*n: (row + 1)*n]
}

func checkDims(dims int) error {
	if dims < 1 || dims > 3 {
		return g_error.InvalidArgument("dimensions must be 1, 2, or 3, " +
			"not %d", dims)
	}
	return nil
}

// DecodeTab decodes a table whose first dims index columns sit at columns 1,
// 3 and 5. If headings are given, the value columns are also split into
// named fields, in order. An optional config may be given, otherwise
// DefaultConfig is used. No Tab is returned if the text is malformed.
func DecodeTab(
	text []byte, dims int, headings []string, config ...TextConfig,
) (*Tab, error) {
	if err := checkDims(dims); err != nil { return nil, err }
	conf := DefaultConfig
	if len(config) > 0 { conf = config[0] }

	lines := split(text, conf)
	if len(lines) == 0 {
		return nil, g_error.LineErrorf(g_error.ErrFormatMismatch, 1,
			"the table contains no data lines")
	}

	isIndex := func(col int) bool {
		for d := 0; d < dims; d++ {
			if col == indexColumns[d] { return true }
		}
		return false
	}

	tab := &Tab{ }
	first, last := lines[0], lines[len(lines) - 1]
	for d := 0; d < dims; d++ {
		var err error
		tab.Min[d], err = parseIndex(first, indexColumns[d])
		if err != nil { return nil, err }
		tab.Max[d], err = parseIndex(last, indexColumns[d])
		if err != nil { return nil, err }
	}

	shape := tab.Shape()
	rows, ok := field.Size(shape...)
	if !ok || shape[0] < 1 || shape[1] < 1 || shape[2] < 1 ||
		rows != len(lines) {
		return nil, g_error.LineErrorf(g_error.ErrFormatMismatch, last.n,
			"the indices %d to %d imply %d rows, but there are %d",
			tab.Min[:dims], tab.Max[:dims], rows, len(lines))
	}

	var data []float64
	ncols := -1
	for _, l := range lines {
		for d := 0; d < dims; d++ {
			if indexColumns[d] >= len(l.tok) {
				_, err := parseIndex(l, indexColumns[d])
				return nil, err
			}
		}

		start := len(data)
		var err error
		data, err = parseValues(l, isIndex, data)
		if err != nil { return nil, err }

		n := len(data) - start
		if ncols == -1 {
			ncols = n
		} else if n != ncols {
			return nil, g_error.LineErrorf(g_error.ErrFormatMismatch, l.n,
				"expected %d value columns, found %d", ncols, n)
		}
	}

	var err error
	tab.Values, err = field.New(data, append(shape, ncols)...)
	if err != nil {
		g_error.Internal("Table could not be reshaped: %s", err.Error())
		return nil, err
	}

	if headings == nil { return tab, nil }
	if len(headings) > ncols {
		return nil, g_error.InvalidArgument("%d headings were given, but " +
			"the table has only %d value columns", len(headings), ncols)
	}

	tab.Fields = field.Set{ }
	for n, name := range headings {
		tab.Fields[name], err = tab.Values.Component(n)
		if err != nil {
			g_error.Internal("Heading %d could not be extracted: %s",
				n, err.Error())
			return nil, err
		}
	}

	return tab, nil
}
