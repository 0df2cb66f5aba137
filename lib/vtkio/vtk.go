package vtkio

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	g_error "github.com/athena-regress/athcheck/lib/error"
	"github.com/athena-regress/athcheck/lib/compress"
	"github.com/athena-regress/athcheck/lib/field"
)

const (
	header = "BINARY\nDATASET RECTILINEAR_GRID\nDIMENSIONS "
	scalarsTag = "SCALARS"
	vectorsTag = "VECTORS"
)

// ReadFile reads and decodes a VTK file. Files ending in .zst or .gz are
// decompressed first. Decode errors are annotated with the file name.
func ReadFile(fileName string) (*Grid, error) {
	b, err := compress.ReadFile(fileName)
	if err != nil { return nil, err }

	g, err := Decode(b)
	if err != nil { return nil, g_error.WithFile(err, fileName) }
	return g, nil
}

// Decode decodes the contents of a legacy binary VTK rectilinear grid file.
// No Grid is returned if any part of the file is malformed.
func Decode(buf []byte) (*Grid, error) {
	c := NewCursor(buf)
	skipComments(c)

	if _, err := c.Expect(header); err != nil { return nil, err }
	faces, err := readDimensions(c)
	if err != nil { return nil, err }

	g := &Grid{ Faces: faces, Fields: field.Set{ } }
	coords := [3]*[]float64{ &g.X, &g.Y, &g.Z }
	for axis := range coords {
		*coords[axis], err = readFaces(c, axisNames[axis], faces[axis])
		if err != nil { return nil, err }
	}

	for axis := range faces {
		g.Cells[axis] = faces[axis] - 1
		if g.Cells[axis] < 1 { g.Cells[axis] = 1 }
	}
	n, ok := field.Size(g.Cells[:]...)
	if !ok { return nil, g_error.Truncated(c.Pos(), math.MaxInt, c.Len()) }

	if _, err := c.Expect(fmt.Sprintf("CELL_DATA %d\n", n)); err != nil {
		return nil, err
	}

	for !c.Done() {
		var name string
		var arr *field.Array
		switch {
		case c.HasPrefix(scalarsTag):
			name, arr, err = readScalars(c, n, g.Shape())
		case c.HasPrefix(vectorsTag):
			name, arr, err = readVectors(c, n, g.Shape())
		default:
			return nil, g_error.Mismatch(
				c.Pos(), scalarsTag + " or " + vectorsTag, c.peek(len(scalarsTag)),
			)
		}
		if err != nil { return nil, err }

		g.Fields[name] = arr
	}

	return g, nil
}

// skipComments moves c past any lines starting with '#'.
func skipComments(c *Cursor) {
	for c.HasPrefix("#") {
		if _, err := c.Line(); err != nil {
			// An unterminated comment is everything that's left. The header
			// check will report it.
			return
		}
	}
}

// readDimensions reads the three face counts that end the header.
func readDimensions(c *Cursor) (faces [3]int, err error) {
	start := c.Pos()
	line, err := c.Line()
	if err != nil { return faces, err }

	tok := strings.Fields(string(line))
	if len(tok) != 3 {
		return faces, g_error.Mismatch(start, "<nx+1> <ny+1> <nz+1>", string(line))
	}
	for i := range tok {
		faces[i], err = strconv.Atoi(tok[i])
		if err != nil || faces[i] < 1 {
			return faces, g_error.Mismatch(
				start, "three positive integers", string(line),
			)
		}
	}
	return faces, nil
}

// readFaces reads the interface positions along a single axis.
func readFaces(c *Cursor, axis string, n int) ([]float64, error) {
	_, err := c.Expect(fmt.Sprintf("%s_COORDINATES %d float\n", axis, n))
	if err != nil { return nil, err }

	x, err := c.Float32s(n)
	if err != nil { return nil, err }
	c.Skip(1)

	return x, nil
}

// blockName reads the name following a SCALARS or VECTORS tag without moving
// c.
func blockName(c *Cursor, tag string) (string, error) {
	start := c.Pos() + len(tag) + 1
	if start > len(c.buf) {
		return "", g_error.Mismatch(c.Pos(), tag + " <name>", c.peek(len(tag)))
	}
	name, _, err := c.WordAt(start, ' ')
	if err != nil { return "", err }
	return string(name), nil
}

func readScalars(c *Cursor, n int, shape []int) (string, *field.Array, error) {
	name, err := blockName(c, scalarsTag)
	if err != nil { return "", nil, err }

	_, err = c.Expect(fmt.Sprintf(
		"%s %s float\nLOOKUP_TABLE default\n", scalarsTag, name,
	))
	if err != nil { return "", nil, err }

	data, err := c.Float32s(n)
	if err != nil { return "", nil, err }
	c.Skip(1)

	arr, err := field.New(data, shape...)
	if err != nil {
		g_error.Internal("Scalar block '%s' could not be reshaped: %s",
			name, err.Error())
		return "", nil, err
	}
	return name, arr, nil
}

func readVectors(c *Cursor, n int, shape []int) (string, *field.Array, error) {
	name, err := blockName(c, vectorsTag)
	if err != nil { return "", nil, err }

	_, err = c.Expect(fmt.Sprintf("%s %s float\n", vectorsTag, name))
	if err != nil { return "", nil, err }

	m, ok := field.Size(n, 3)
	if !ok { return "", nil, g_error.Truncated(c.Pos(), math.MaxInt, c.Len()) }
	data, err := c.Float32s(m)
	if err != nil { return "", nil, err }
	c.Skip(1)

	arr, err := field.New(data, append(shape, 3)...)
	if err != nil {
		g_error.Internal("Vector block '%s' could not be reshaped: %s",
			name, err.Error())
		return "", nil, err
	}
	return name, arr, nil
}
