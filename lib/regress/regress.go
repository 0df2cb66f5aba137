/*package regress runs regression cases: it loads a reference dataset and the
candidate datasets a simulation produced and reduces them to a verdict.

There are two kinds of cases. Comparison cases decode a reference file and
one or more candidate files of the same format and compare named fields with
compare.Compare. Convergence cases decode the initial and final states of a
low and a high resolution run and check that the error drops fast enough
with resolution.
*/
package regress

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/athena-regress/athcheck/lib/catio"
	"github.com/athena-regress/athcheck/lib/compare"
	"github.com/athena-regress/athcheck/lib/compress"
	"github.com/athena-regress/athcheck/lib/field"
	"github.com/athena-regress/athcheck/lib/vtkio"
)

// Format is the file format of a dataset.
type Format int
const (
	VTK Format = iota
	Tab
)

func (f Format) String() string {
	switch f {
	case VTK: return "vtk"
	case Tab: return "tab"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat converts the name of a format to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "vtk": return VTK, nil
	case "tab": return Tab, nil
	}
	return VTK, fmt.Errorf("'%s' is not a file format. The supported " +
		"formats are 'vtk' and 'tab'.", name)
}

// FormatFor guesses the format of a file from its extension, ignoring
// compression extensions.
func FormatFor(fileName string) (Format, error) {
	ext := filepath.Ext(compress.Trim(fileName))
	if ext == "" {
		return VTK, fmt.Errorf("The file '%s' has no extension, so its " +
			"format can't be guessed.", fileName)
	}
	return ParseFormat(ext[1:])
}

// Kind is the type of check a Case performs.
type Kind int
const (
	CompareKind Kind = iota
	ConvergenceKind
)

func (k Kind) String() string {
	switch k {
	case CompareKind: return "compare"
	case ConvergenceKind: return "convergence"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Case is a single regression test.
type Case struct {
	Name string
	Kind Kind
	Format Format

	// Dims and Headings are only used by Tab datasets.
	Dims int
	Headings []string

	// Reference is compared against each file in Candidates.
	Reference string
	Candidates []string
	Pairs []compare.Pair
	// Comparison cases pass if the largest relative error is below
	// Tolerance. Convergence cases pass if they converge and, if Tolerance
	// is positive, the high resolution error is below it.
	Tolerance float64

	Convergence *ConvergenceCase
}

// ConvergenceCase describes the two runs of a convergence test.
type ConvergenceCase struct {
	// Low and High are the initial and final files of each run.
	Low, High [2]string
	// Res is the number of cells in the low and high resolution runs.
	Res [2]int
	Fields []string
	Amplitude float64
	// Cutoff is the minimum convergence order.
	Cutoff float64
}

// Files returns every file the case reads.
func (c *Case) Files() []string {
	if c.Kind == ConvergenceKind {
		cc := c.Convergence
		if cc == nil { return nil }
		return []string{ cc.Low[0], cc.Low[1], cc.High[0], cc.High[1] }
	}
	return append([]string{ c.Reference }, c.Candidates...)
}

// Load decodes the fields of a dataset.
func Load(format Format, fileName string, dims int, headings []string) (field.Set, error) {
	switch format {
	case VTK:
		g, err := vtkio.ReadFile(fileName)
		if err != nil { return nil, err }
		return g.Fields, nil
	case Tab:
		tab, err := catio.ReadTabFile(fileName, dims, headings)
		if err != nil { return nil, err }
		if tab.Fields == nil { return field.Set{ }, nil }
		return tab.Fields, nil
	}
	panic(fmt.Sprintf("Internal error: unknown format %d.", int(format)))
}

func (c *Case) load(logger log.Logger, fileName string) (field.Set, error) {
	level.Debug(logger).Log("msg", "loading", "file", fileName,
		"format", c.Format)
	return Load(c.Format, fileName, c.Dims, c.Headings)
}

// Comparison is the result of comparing one candidate file against the
// reference.
type Comparison struct {
	File string
	*compare.Result
}

// ConvergenceResult is the result of a convergence case.
type ConvergenceResult struct {
	// Epsilon is the amplitude-normalized error at each resolution.
	Epsilon [2]float64
	Converged bool
}

// Result is the outcome of a Case.
type Result struct {
	Case string
	Pass bool
	// Err is set if a file couldn't be read. The case fails.
	Err error
	Comparisons []Comparison
	Convergence *ConvergenceResult
}

func (r *Result) String() string {
	verdict := "pass"
	if !r.Pass { verdict = "fail" }
	if r.Err != nil {
		return fmt.Sprintf("%s: %s (%s)", r.Case, verdict, r.Err.Error())
	}
	if r.Convergence != nil {
		return fmt.Sprintf("%s: %s (epsilon %g -> %g, converged = %v)",
			r.Case, verdict, r.Convergence.Epsilon[0], r.Convergence.Epsilon[1],
			r.Convergence.Converged)
	}

	worst := ""
	for _, cmp := range r.Comparisons {
		if !cmp.Pass || worst == "" {
			worst = fmt.Sprintf("%s: %s", cmp.File, cmp.Result)
			if !cmp.Pass { break }
		}
	}
	return fmt.Sprintf("%s: %s (%s)", r.Case, verdict, worst)
}

// Run runs a single case. It never returns nil.
func Run(c *Case, logger log.Logger) *Result {
	logger = log.With(logger, "case", c.Name)

	var res *Result
	switch c.Kind {
	case CompareKind: res = runComparison(c, logger)
	case ConvergenceKind: res = runConvergence(c, logger)
	default:
		panic(fmt.Sprintf("Internal error: unknown case kind %d.", int(c.Kind)))
	}

	if res.Err != nil {
		level.Error(logger).Log("msg", "case could not be run",
			"err", res.Err)
	} else if res.Pass {
		level.Info(logger).Log("msg", "passed")
	} else {
		level.Warn(logger).Log("msg", "failed", "result", res)
	}
	return res
}

func runComparison(c *Case, logger log.Logger) *Result {
	res := &Result{ Case: c.Name }
	if len(c.Candidates) == 0 {
		res.Err = fmt.Errorf("The case '%s' has no candidate files.", c.Name)
		return res
	}

	ref, err := c.load(logger, c.Reference)
	if err != nil { res.Err = err; return res }

	res.Pass = true
	for _, file := range c.Candidates {
		cand, err := c.load(logger, file)
		if err != nil { res.Err, res.Pass = err, false; return res }

		cmp := compare.Compare(ref, cand, c.Pairs, c.Tolerance)
		for _, p := range cmp.Problems {
			level.Warn(logger).Log("file", file, "problem", p)
		}
		level.Debug(logger).Log("file", file, "max_error", cmp.MaxError,
			"pass", cmp.Pass)

		res.Comparisons = append(res.Comparisons, Comparison{ file, cmp })
		res.Pass = res.Pass && cmp.Pass
	}

	return res
}

func runConvergence(c *Case, logger log.Logger) *Result {
	res := &Result{ Case: c.Name }
	cc := c.Convergence
	if cc == nil {
		res.Err = fmt.Errorf("The convergence case '%s' has no runs.", c.Name)
		return res
	}

	runs := [2][2]string{ cc.Low, cc.High }
	conv := &ConvergenceResult{ }
	for i := range runs {
		run := &compare.Convergence{ Res: cc.Res[i] }
		var err error
		run.Initial, err = c.loadFlat(logger, runs[i][0])
		if err != nil { res.Err = err; return res }
		run.Final, err = c.loadFlat(logger, runs[i][1])
		if err != nil { res.Err = err; return res }

		conv.Epsilon[i], err = run.Epsilon(cc.Fields, cc.Amplitude)
		if err != nil { res.Err = err; return res }
		level.Debug(logger).Log("res", cc.Res[i], "epsilon", conv.Epsilon[i])
	}

	conv.Converged = compare.Converged(conv.Epsilon[0], conv.Epsilon[1],
		cc.Res[0], cc.Res[1], cc.Cutoff)
	res.Convergence = conv
	res.Pass = conv.Converged &&
		(c.Tolerance <= 0 || conv.Epsilon[1] < c.Tolerance)
	return res
}

// loadFlat loads a dataset as flat arrays.
func (c *Case) loadFlat(logger log.Logger, fileName string) (map[string][]float64, error) {
	set, err := c.load(logger, fileName)
	if err != nil { return nil, err }
	out := map[string][]float64{ }
	for name, arr := range set { out[name] = arr.Data }
	return out, nil
}
