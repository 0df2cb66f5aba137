/*package catio reads whitespace-delimited text tables, such as the .tab
files written by Athena++:

   # Athena++ data at time=0.000000e+00  cycle=0  variables=prim
   # i       x1v         rho         press
     2   -4.375e-01   1.000e+00   1.000e+00
     3   -3.125e-01   1.000e+00   1.000e+00

Depending on the dimensionality of the problem, columns 1, 3 and 5 hold the
integer i, j and k indices of each cell. The extent of the grid is inferred
from the indices on the first and last data lines, so the rows must be
ordered with i varying fastest and k slowest.
*/
package catio

import (
	"github.com/athena-regress/athcheck/lib/compress"
	g_error "github.com/athena-regress/athcheck/lib/error"
)

// TextConfig contains information neccessary for tokenizing tables.
type TextConfig struct {
	Separator byte // Character used to separate fields. ' ' means any whitespace.
	Comment byte // Character used to start comments.
}

// DefaultConfig is a TextConfig instance which can read Athena++ .tab files.
var DefaultConfig = TextConfig{
	Separator: ' ',
	Comment: '#',
}

// ReadTabFile reads and decodes a table from a file. Files ending in .zst or
// .gz are decompressed first. headings may be nil, and an optional config
// may be given, otherwise DefaultConfig is used.
func ReadTabFile(
	fileName string, dims int, headings []string, config ...TextConfig,
) (*Tab, error) {
	// Argument errors shouldn't wait on disk I/O.
	if err := checkDims(dims); err != nil {
		return nil, g_error.WithFile(err, fileName)
	}

	text, err := compress.ReadFile(fileName)
	if err != nil { return nil, err }

	tab, err := DecodeTab(text, dims, headings, config...)
	if err != nil { return nil, g_error.WithFile(err, fileName) }
	return tab, nil
}
