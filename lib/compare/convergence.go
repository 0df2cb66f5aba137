package compare

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// L1Error returns the mean absolute difference between two equal-length
// arrays, sum(|a - b|) / len(a).
func L1Error(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("Arrays have lengths %d and %d.", len(a), len(b))
	} else if len(a) == 0 {
		return 0, fmt.Errorf("Arrays are empty.")
	}
	return floats.Distance(a, b, 1) / float64(len(a)), nil
}

// RMS returns the root-mean-square of x.
func RMS(x []float64) float64 {
	if len(x) == 0 { return 0 }
	return floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
}

// Converged returns true if the error drops at least as fast as
// resolution^-cutoff when going from resLow to resHigh cells. errLow and
// errHigh are the errors at the two resolutions.
func Converged(errLow, errHigh float64, resLow, resHigh int, cutoff float64) bool {
	if errLow == 0 { return errHigh == 0 }
	bound := math.Pow(float64(resLow) / float64(resHigh), cutoff)
	return errHigh / errLow <= bound
}

// Convergence holds the initial and final states of a run at a given
// resolution. Each field named in the comparison must be present in both.
type Convergence struct {
	Res int
	Initial, Final map[string][]float64
}

// Epsilon is the RMS over names of the L1 error between the initial and final
// states, divided by amp. This is the usual measure of how much a linear wave
// has been distorted after one period.
func (c *Convergence) Epsilon(names []string, amp float64) (float64, error) {
	eps := make([]float64, len(names))
	for i, name := range names {
		qi, ok1 := c.Initial[name]
		qf, ok2 := c.Final[name]
		if !ok1 || !ok2 {
			return 0, fmt.Errorf("The field '%s' is missing from the %d-cell " +
				"run.", name, c.Res)
		}
		var err error
		eps[i], err = L1Error(qf, qi)
		if err != nil {
			return 0, fmt.Errorf("The field '%s' of the %d-cell run can't " +
				"be compared: %s", name, c.Res, err.Error())
		}
	}
	return RMS(eps) / amp, nil
}
