/*package compare reduces a reference dataset and a freshly produced
candidate dataset to a single pass/fail verdict.

The error metric for each pair of fields is the elementwise relative error,
|ref - cand| / |ref|. Elements where the reference is exactly zero fall back
to the absolute error |cand| and are counted in FieldResult.ZeroRefs, so a
field that is identically zero in both datasets compares as exact.
*/
package compare

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/athena-regress/athcheck/lib/field"
)

// Pair names a field in the reference dataset and the field in the candidate
// dataset it should be compared against.
type Pair struct {
	Ref, Cand string
	// Scale multiplies the candidate field before comparison. It lets derived
	// quantities like E = press/(gamma - 1) be compared directly. Zero means
	// 1.
	Scale float64
}

func (p Pair) String() string {
	if p.Scale == 0 || p.Scale == 1 {
		return fmt.Sprintf("%s:%s", p.Ref, p.Cand)
	}
	return fmt.Sprintf("%s:%s*%g", p.Ref, p.Cand, p.Scale)
}

// NameMap converts a reference field name to the name the same quantity has
// in the candidate dataset.
type NameMap func(ref string) string

// Identity is a NameMap for datasets which share naming conventions.
func Identity(ref string) string { return ref }

// Prefix returns a NameMap which prepends p to every name, e.g. Prefix("r")
// maps the species "CO" to the passive scalar output "rCO".
func Prefix(p string) NameMap {
	return func(ref string) string { return p + ref }
}

// Rename returns a NameMap which looks names up in m and leaves names that
// aren't in m alone.
func Rename(m map[string]string) NameMap {
	return func(ref string) string {
		if cand, ok := m[ref]; ok { return cand }
		return ref
	}
}

// Pairs creates a Pair for each reference name using the given NameMap.
func Pairs(names []string, m NameMap) []Pair {
	out := make([]Pair, len(names))
	for i := range names { out[i] = Pair{ Ref: names[i], Cand: m(names[i]) } }
	return out
}

// FieldResult holds the error statistics of a single Pair.
type FieldResult struct {
	Pair
	MaxError, MeanError float64
	// ZeroRefs is the number of elements where the reference was zero and the
	// absolute error was used instead.
	ZeroRefs int
}

// Result is the outcome of a comparison.
type Result struct {
	// MaxError is the largest relative error over every compared element. It's
	// +Inf if any pair couldn't be compared.
	MaxError float64
	// Pass is true if MaxError < Tolerance.
	Pass bool
	Tolerance float64
	// Worst is the index into Fields of the pair responsible for MaxError, or
	// -1 if there is no such pair.
	Worst int
	Fields []FieldResult
	// Problems describes pairs which couldn't be compared at all.
	Problems []string
}

func (r *Result) String() string {
	verdict := "pass"
	if !r.Pass { verdict = "fail" }
	if r.Worst < 0 {
		return fmt.Sprintf("%s: max error %g (tolerance %g)",
			verdict, r.MaxError, r.Tolerance)
	}
	return fmt.Sprintf("%s: max error %g in %s (tolerance %g)",
		verdict, r.MaxError, r.Fields[r.Worst].Pair, r.Tolerance)
}

// Compare computes the relative error between each pair of fields in ref and
// cand, and passes if the largest error is strictly less than tol. It never
// fails: missing fields and shape mismatches are reported in
// Result.Problems and make the comparison fail.
func Compare(ref, cand field.Set, pairs []Pair, tol float64) *Result {
	res := &Result{ Tolerance: tol, Worst: -1 }
	if len(pairs) == 0 {
		res.Problems = append(res.Problems, "no fields were given to compare")
	}

	for _, p := range pairs {
		r, ok := ref[p.Ref]
		if !ok {
			res.Problems = append(res.Problems, fmt.Sprintf(
				"the reference has no field '%s'; it has %v",
				p.Ref, ref.Names()))
			continue
		}
		c, ok := cand[p.Cand]
		if !ok {
			res.Problems = append(res.Problems, fmt.Sprintf(
				"the candidate has no field '%s'; it has %v",
				p.Cand, cand.Names()))
			continue
		}
		if !r.SameShape(c) {
			res.Problems = append(res.Problems, fmt.Sprintf(
				"'%s' has shape %v, but '%s' has shape %v",
				p.Ref, r.Shape, p.Cand, c.Shape))
			continue
		}

		if p.Scale != 0 && p.Scale != 1 { c = c.Scale(p.Scale) }
		fr := compareField(p, r.Data, c.Data)
		res.Fields = append(res.Fields, fr)
		if res.Worst == -1 || fr.MaxError > res.MaxError ||
			math.IsNaN(fr.MaxError) {
			res.MaxError = fr.MaxError
			res.Worst = len(res.Fields) - 1
		}
	}

	if len(res.Problems) > 0 {
		res.MaxError = math.Inf(1)
		res.Worst = -1
	}
	// NaN < tol is false, so a NaN anywhere fails.
	res.Pass = res.MaxError < tol

	return res
}

func compareField(p Pair, ref, cand []float64) FieldResult {
	fr := FieldResult{ Pair: p }
	if len(ref) == 0 { return fr }

	rel := make([]float64, len(ref))
	for i := range ref {
		diff := math.Abs(ref[i] - cand[i])
		if ref[i] == 0 {
			rel[i] = diff
			fr.ZeroRefs++
		} else {
			rel[i] = diff / math.Abs(ref[i])
		}
	}

	fr.MaxError = maxNaN(rel)
	fr.MeanError = stat.Mean(rel, nil)
	return fr
}

// maxNaN is floats.Max, except that it returns NaN if x contains a NaN.
func maxNaN(x []float64) float64 {
	if floats.HasNaN(x) { return math.NaN() }
	return floats.Max(x)
}

// Failing returns the field results whose maximum error is not below the
// tolerance, worst first.
func (r *Result) Failing() []FieldResult {
	out := []FieldResult{ }
	for _, fr := range r.Fields {
		if !(fr.MaxError < r.Tolerance) { out = append(out, fr) }
	}
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := math.IsNaN(out[i].MaxError), math.IsNaN(out[j].MaxError)
		if ni || nj { return ni && !nj }
		return out[i].MaxError > out[j].MaxError
	})
	return out
}
