/*package eq is a simple package for telling whether two arrays are equal to
one another. It's mostly used by tests.*/
package eq

import (
	"math"
)

// Strings returns true if two []string arrays are the same and false otherwise.
func Strings(x, y []string) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Ints returns true if two []int arrays are the same and false otherwise.
func Ints(x, y []int) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Float64s returns true if two []float64 arrays are the same and false
// otherwise.
func Float64s(x, y []float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if x[i] != y[i] { return false }
	}
	return true
}

// Float64Bits returns true if two []float64 arrays have bitwise-identical
// elements. Unlike Float64s, NaNs with the same payload are equal and 0 and
// -0 are not.
func Float64Bits(x, y []float64) bool {
	if len(x) != len(y) { return false }
	for i := range x {
		if math.Float64bits(x[i]) != math.Float64bits(y[i]) { return false }
	}
	return true
}
