package catio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	g_error "github.com/athena-regress/athcheck/lib/error"
	"github.com/athena-regress/athcheck/lib/eq"
)

const tab1D = `# Athena++ data at time=0.000000e+00  cycle=0  variables=prim
# i       x1v         rho
  0   -3.750e-01   1.000e+00
  1   -1.250e-01   2.000e+00
  2    1.250e-01   3.000e+00
  3    3.750e-01   4.000e+00
`

const tab2D = `# i x1v j x2v rho press
2 0.1 5 1.0 1 10
3 0.2 5 1.0 2 20
4 0.3 5 1.0 3 30
2 0.1 6 2.0 4 40
3 0.2 6 2.0 5 50
4 0.3 6 2.0 6 60
# trailing comment
`

const tab3D = `# i x1v j x2v k x3v rho
0 0.5 0 0.5 1 0.5 1
1 1.5 0 0.5 1 0.5 2
0 0.5 1 1.5 1 0.5 3
1 1.5 1 1.5 1 0.5 4
0 0.5 0 0.5 2 1.5 5
1 1.5 0 0.5 2 1.5 6
0 0.5 1 1.5 2 1.5 7
1 1.5 1 1.5 2 1.5 8
0 0.5 0 0.5 3 2.5 9
1 1.5 0 0.5 3 2.5 10
0 0.5 1 1.5 3 2.5 11
1 1.5 1 1.5 3 2.5 12
`

func TestDecodeTab1D(t *testing.T) {
	tab, err := DecodeTab([]byte(tab1D), 1, []string{"x", "rho"})
	if err != nil { t.Fatalf("Got error '%s'.", err.Error()) }

	if tab.Min != [3]int{0, 0, 0} || tab.Max != [3]int{3, 0, 0} {
		t.Errorf("Expected bounds [0 0 0]-[3 0 0], got %d-%d.",
			tab.Min, tab.Max)
	}
	for _, name := range []string{"x", "rho"} {
		if shape := tab.Fields[name].Shape; !eq.Ints(shape, []int{1, 1, 4}) {
			t.Errorf("Expected %s to have shape [1 1 4], got %d.", name, shape)
		}
	}
	if !eq.Float64s(tab.Fields["rho"].Data, []float64{1, 2, 3, 4}) {
		t.Errorf("Expected rho = [1 2 3 4], got %g.", tab.Fields["rho"].Data)
	}
	if !eq.Float64s(tab.Fields["x"].Data,
		[]float64{-0.375, -0.125, 0.125, 0.375}) {
		t.Errorf("Expected x = [-0.375 -0.125 0.125 0.375], got %g.",
			tab.Fields["x"].Data)
	}
	if shape := tab.Values.Shape; !eq.Ints(shape, []int{1, 1, 4, 2}) {
		t.Errorf("Expected values to have shape [1 1 4 2], got %d.", shape)
	}
}

func TestDecodeTabNoHeadings(t *testing.T) {
	tab, err := DecodeTab([]byte(tab1D), 1, nil)
	if err != nil { t.Fatalf("Got error '%s'.", err.Error()) }
	if tab.Fields != nil {
		t.Errorf("Expected no fields without headings, got %s.",
			tab.Fields.Names())
	}
	if tab.Columns() != 2 {
		t.Errorf("Expected 2 value columns, got %d.", tab.Columns())
	}

	// Fewer headings than columns is fine.
	tab, err = DecodeTab([]byte(tab1D), 1, []string{"x"})
	if err != nil { t.Fatalf("Got error '%s'.", err.Error()) }
	if len(tab.Fields) != 1 {
		t.Errorf("Expected one field, got %s.", tab.Fields.Names())
	}
}

func TestDecodeTab2D(t *testing.T) {
	tab, err := DecodeTab([]byte(tab2D), 2,
		[]string{"x1v", "x2v", "rho", "press"})
	if err != nil { t.Fatalf("Got error '%s'.", err.Error()) }

	if tab.Min != [3]int{2, 5, 0} || tab.Max != [3]int{4, 6, 0} {
		t.Errorf("Expected bounds [2 5 0]-[4 6 0], got %d-%d.",
			tab.Min, tab.Max)
	}
	if shape := tab.Shape(); !eq.Ints(shape, []int{1, 2, 3}) {
		t.Errorf("Expected shape [1 2 3], got %d.", shape)
	}
	if v := tab.Fields["press"].At(0, 1, 2); v != 60 {
		t.Errorf("Expected press[0, 1, 2] = 60, got %g.", v)
	}
	if row := tab.Row(3, 6, 0); !eq.Float64s(row, []float64{0.2, 2, 5, 50}) {
		t.Errorf("Expected row (3, 6) = [0.2 2 5 50], got %g.", row)
	}
}

func TestDecodeTab3D(t *testing.T) {
	tab, err := DecodeTab([]byte(tab3D), 3,
		[]string{"x1v", "x2v", "x3v", "rho"})
	if err != nil { t.Fatalf("Got error '%s'.", err.Error()) }

	if tab.Min != [3]int{0, 0, 1} || tab.Max != [3]int{1, 1, 3} {
		t.Errorf("Expected bounds [0 0 1]-[1 1 3], got %d-%d.",
			tab.Min, tab.Max)
	}
	if shape := tab.Fields["rho"].Shape; !eq.Ints(shape, []int{3, 2, 2}) {
		t.Errorf("Expected rho to have shape [3 2 2], got %d.", shape)
	}
	if v := tab.Fields["rho"].At(2, 0, 1); v != 10 {
		t.Errorf("Expected rho[2, 0, 1] = 10, got %g.", v)
	}
	if v := tab.Fields["x3v"].At(1, 1, 1); v != 1.5 {
		t.Errorf("Expected x3v[1, 1, 1] = 1.5, got %g.", v)
	}
}

func TestDecodeTabLowerDims(t *testing.T) {
	// Reading a 2D file as 1D treats the j columns as values and requires
	// the row count to match the i extent, which it doesn't.
	_, err := DecodeTab([]byte(tab2D), 1, nil)
	if !errors.Is(err, g_error.ErrFormatMismatch) {
		t.Errorf("Expected a format mismatch, got %v.", err)
	}
}

func TestDecodeTabFailure(t *testing.T) {
	tests := []struct {
		text string
		dims int
		headings []string
		kind error
		line int
	} {
		{tab1D, 0, nil, g_error.ErrInvalidArgument, 0},
		{tab1D, 4, nil, g_error.ErrInvalidArgument, 0},
		{"not a table at all", -1, nil, g_error.ErrInvalidArgument, 0},
		{tab1D, 1, []string{"a", "b", "c"}, g_error.ErrInvalidArgument, 0},
		{"", 1, nil, g_error.ErrFormatMismatch, 1},
		{"# only\n# comments\n", 1, nil, g_error.ErrFormatMismatch, 1},
		{"0 1 2\n1 1\n", 1, nil, g_error.ErrFormatMismatch, 2},
		{"0 1\n1 x\n", 1, nil, g_error.ErrFormatMismatch, 2},
		{"a 1\nb 2\n", 1, nil, g_error.ErrFormatMismatch, 1},
		{"0 1\n1 2\n3 3\n", 1, nil, g_error.ErrFormatMismatch, 3},
		{"3 1\n2 2\n", 1, nil, g_error.ErrFormatMismatch, 2},
		{"0 1\n1 2\n", 2, nil, g_error.ErrFormatMismatch, 1},
		{"0 1 0 1\n1 2\n", 2, nil, g_error.ErrFormatMismatch, 2},
		// (2^62 + 1)*2*2 rows wraps around to 4.
		{"0 0 0 0 0 1\n0 0 1 0 0 2\n0 0 0 0 1 3\n" +
			"4611686018427387904 0 1 0 1 4\n", 3, nil,
			g_error.ErrFormatMismatch, 4},
	}

	for i := range tests {
		tab, err := DecodeTab([]byte(tests[i].text), tests[i].dims,
			tests[i].headings)

		var de *g_error.DecodeError
		if err == nil {
			t.Errorf("%d) Expected failure, got a table.", i)
		} else if tab != nil {
			t.Errorf("%d) Got a partial table along with '%s'.", i, err)
		} else if !errors.Is(err, tests[i].kind) {
			t.Errorf("%d) Expected '%s', got '%s'.", i, tests[i].kind, err)
		} else if !errors.As(err, &de) || de.Line != tests[i].line {
			t.Errorf("%d) Expected the error on line %d, got '%s'.",
				i, tests[i].line, err)
		}
	}
}

func TestDecodeTabSeparator(t *testing.T) {
	text := "# i, x, rho\n0, 0.5, 1\n1, 1.5, 2\n"
	conf := TextConfig{ Separator: ',', Comment: '#' }
	tab, err := DecodeTab([]byte(text), 1, []string{"x", "rho"}, conf)
	if err != nil { t.Fatalf("Got error '%s'.", err.Error()) }
	if !eq.Float64s(tab.Fields["rho"].Data, []float64{1, 2}) {
		t.Errorf("Expected rho = [1 2], got %g.", tab.Fields["rho"].Data)
	}
}

func TestReadTabFile(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "a.tab")
	if err := os.WriteFile(raw, []byte(tab1D), 0644); err != nil {
		t.Fatal(err)
	}

	gb := &bytes.Buffer{ }
	wr := gzip.NewWriter(gb)
	wr.Write([]byte(tab1D))
	wr.Close()
	packed := filepath.Join(dir, "a.tab.gz")
	if err := os.WriteFile(packed, gb.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	for i, name := range []string{ raw, packed } {
		tab, err := ReadTabFile(name, 1, []string{"x", "rho"})
		if err != nil {
			t.Errorf("%d) Reading %s gave error '%s'.", i, name, err.Error())
		} else if !eq.Float64s(tab.Fields["rho"].Data, []float64{1, 2, 3, 4}) {
			t.Errorf("%d) Expected rho = [1 2 3 4], got %g.",
				i, tab.Fields["rho"].Data)
		}
	}

	_, err := ReadTabFile(filepath.Join(dir, "missing.tab"), 5, nil)
	var de *g_error.DecodeError
	if !errors.Is(err, g_error.ErrInvalidArgument) || !errors.As(err, &de) ||
		de.File == "" {
		t.Errorf("Expected a dimension error before opening the file, got %v.",
			err)
	}
}
