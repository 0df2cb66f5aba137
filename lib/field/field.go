/*package field contains the dense, row-major arrays that athcheck's decoders
produce and its comparator consumes.*/
package field

import (
	"fmt"
	"math"
	"sort"
)

// Set maps the name of each field in an output file (e.g. 'rho', 'vel',
// 'press') to its Array.
type Set map[string]*Array

// Names returns the names of all the fields in s in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s { names = append(names, name) }
	sort.Strings(names)
	return names
}

// Array is an n-dimensional array of float64 values stored in row-major
// order: the last index varies fastest.
type Array struct {
	Shape []int
	Data []float64
}

// New creates an Array with the given shape around data. It returns an error
// if the shape doesn't describe len(data) elements.
func New(data []float64, shape ...int) (*Array, error) {
	n, ok := Size(shape...)
	if !ok {
		return nil, fmt.Errorf("The shape %v does not describe a valid " +
			"number of elements.", shape)
	} else if n != len(data) {
		return nil, fmt.Errorf("The shape %v describes %d elements, but " +
			"the array has %d.", shape, n, len(data))
	}
	return &Array{ Shape: append([]int{ }, shape...), Data: data }, nil
}

// Zeros creates a zero-valued Array with the given shape.
func Zeros(shape ...int) *Array {
	n, ok := Size(shape...)
	if !ok { panic(fmt.Sprintf("Invalid shape %v.", shape)) }
	return &Array{
		Shape: append([]int{ }, shape...), Data: make([]float64, n),
	}
}

// Size returns the number of elements described by shape. ok is false if an
// axis is negative or the product doesn't fit in an int.
func Size(shape ...int) (n int, ok bool) {
	n = 1
	for _, s := range shape {
		if s < 0 || (s > 0 && n > math.MaxInt/s) { return 0, false }
		n *= s
	}
	return n, true
}

// SameShape returns true if a and b have identical shapes.
func (a *Array) SameShape(b *Array) bool {
	if len(a.Shape) != len(b.Shape) { return false }
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] { return false }
	}
	return true
}

// Index converts a multi-dimensional index into an index into Data. It panics
// if the index is out of range, like any other slice access.
func (a *Array) Index(idx ...int) int {
	if len(idx) != len(a.Shape) {
		panic(fmt.Sprintf("%d indices given for a %d-dimensional array.",
			len(idx), len(a.Shape)))
	}
	flat := 0
	for dim, i := range idx {
		if i < 0 || i >= a.Shape[dim] {
			panic(fmt.Sprintf("Index %d is out of range for axis %d with " +
				"length %d.", i, dim, a.Shape[dim]))
		}
		flat = flat*a.Shape[dim] + i
	}
	return flat
}

// At returns the element at the given multi-dimensional index.
func (a *Array) At(idx ...int) float64 { return a.Data[a.Index(idx...)] }

// Component copies element n of the trailing axis into a new array with one
// fewer dimension. For a vector field with shape (Nz, Ny, Nx, 3), Component(0)
// is the x-component.
func (a *Array) Component(n int) (*Array, error) {
	if len(a.Shape) == 0 {
		return nil, fmt.Errorf("Cannot take a component of a 0-dimensional " +
			"array.")
	}
	width := a.Shape[len(a.Shape) - 1]
	if n < 0 || n >= width {
		return nil, fmt.Errorf("Component %d requested, but the trailing " +
			"axis has length %d.", n, width)
	}

	out := Zeros(a.Shape[:len(a.Shape) - 1]...)
	for i := range out.Data {
		out.Data[i] = a.Data[i*width + n]
	}
	return out, nil
}

// Scale returns a copy of a with every element multiplied by c.
func (a *Array) Scale(c float64) *Array {
	out := Zeros(a.Shape...)
	for i := range a.Data { out.Data[i] = a.Data[i] * c }
	return out
}
