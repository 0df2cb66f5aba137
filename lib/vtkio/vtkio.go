/*package vtkio reads the legacy VTK files written by Athena++. Only binary
rectilinear grids with cell-centred scalar and vector fields are supported.
A file looks like this, where <...> is raw big-endian float32 data:

   # vtk DataFile Version 2.0
   # Athena++ data at time=...
   BINARY
   DATASET RECTILINEAR_GRID
   DIMENSIONS 5 5 2
   X_COORDINATES 5 float
   <5 floats>
   Y_COORDINATES 5 float
   <5 floats>
   Z_COORDINATES 2 float
   <2 floats>
   CELL_DATA 16
   SCALARS rho float
   LOOKUP_TABLE default
   <16 floats>
   VECTORS vel float
   <48 floats>

Each binary block is followed by a single separator byte.
*/
package vtkio

import (
	"fmt"

	"github.com/athena-regress/athcheck/lib/field"
)

// Axis indices for Grid.Faces, Grid.Cells and CellCenters.
const (
	X = iota
	Y
	Z
)

var axisNames = [3]string{ "X", "Y", "Z" }

// Grid is a decoded rectilinear grid. Scalar fields have shape
// (Cells[Z], Cells[Y], Cells[X]) and vector fields have shape
// (Cells[Z], Cells[Y], Cells[X], 3).
type Grid struct {
	// X, Y, and Z are the cell interface positions along each axis.
	X, Y, Z []float64
	// Faces is the number of interface positions along each axis and Cells
	// is the number of cells, max(Faces - 1, 1).
	Faces, Cells [3]int
	Fields field.Set
}

// NCells returns the total number of cells in the grid.
func (g *Grid) NCells() int { return g.Cells[X]*g.Cells[Y]*g.Cells[Z] }

// Shape returns the shape of a scalar field in g.
func (g *Grid) Shape() []int {
	return []int{ g.Cells[Z], g.Cells[Y], g.Cells[X] }
}

// Coordinates returns the interface positions along the given axis.
func (g *Grid) Coordinates(axis int) []float64 {
	switch axis {
	case X: return g.X
	case Y: return g.Y
	case Z: return g.Z
	}
	panic(fmt.Sprintf("Axis %d does not exist.", axis))
}

// CellCenters returns the midpoints between consecutive interfaces along the
// given axis. A degenerate axis with a single interface has one cell centred
// on that interface.
func (g *Grid) CellCenters(axis int) []float64 {
	x := g.Coordinates(axis)
	if len(x) == 1 { return []float64{ x[0] } }

	out := make([]float64, len(x) - 1)
	for i := range out { out[i] = (x[i] + x[i+1]) / 2 }
	return out
}
