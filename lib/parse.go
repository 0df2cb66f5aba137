package lib

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/athena-regress/athcheck/lib/compare"
	"github.com/athena-regress/athcheck/lib/format"
	"github.com/athena-regress/athcheck/lib/regress"
)

// DefaultCutoff is the convergence order used if a convergence case doesn't
// set Cutoff.
const DefaultCutoff = 1.8

// RawCase stores the unprocessed values of a [case "name"] section.
type RawCase struct {
	Kind string
	Format string

	Reference string
	Candidate string
	Outputs string
	Fields string
	CandidatePrefix string
	Derived []string
	Tolerance string

	Dimensions int
	Headings string

	Low, High string
	Resolution string
	Amplitude string
	Cutoff string
}

// RawArgs stores the unprocessed values which the user assigned to each config
// variable.
type RawArgs struct {
	Athcheck struct {
		Threads int
		Strictness string
		Verbose bool
		// Cases restricts a run to a whitespace-separated list of cases.
		Cases string
		// Protect is a whitespace-separated list of files which are restored
		// after a run.
		Protect string
		// MetricsFile is written in the Prometheus text format after a run.
		MetricsFile string
	}
	Case map[string]*RawCase

	// set holds the lower-case names of the [athcheck] variables given on the
	// command line.
	set map[string]bool
}

// Args stores configuration information. It is a post-processed version of
// RawArgs.
type Args struct {
	Threads int
	Strictness CheckStrictness
	Verbose bool
	Protect []string
	MetricsFile string

	Cases []*regress.Case
}

// commandLineVars are the [athcheck] variables which can be set with
// --<Name> <Value>.
var commandLineVars = []string{ "threads", "strictness", "verbose", "cases",
	"protect", "metricsfile" }

// ParseCommandLine parses the command line arguments and returns the mode
// athcheck is being run in, the name of the config file, and any arguments
// which were set. Expects that the arguments (without the program name) are
// presented in the order:
// $ athcheck <mode> [<config file>] [--<Arg1> <Value1>] [--<Arg2> <Value2>]
func ParseCommandLine(argv []string) (
	mode, configFile string, args *RawArgs, err error,
) {
	args = &RawArgs{ set: map[string]bool{ } }
	if len(argv) == 0 {
		return "", "", nil, fmt.Errorf("No mode was given. Run " +
			"'athcheck help' for a list of modes.")
	}
	mode, argv = argv[0], argv[1:]

	if len(argv) > 0 && !strings.HasPrefix(argv[0], "--") {
		configFile, argv = argv[0], argv[1:]
	}

	for i := 0; i < len(argv); i += 2 {
		if !strings.HasPrefix(argv[i], "--") {
			return "", "", nil, fmt.Errorf("Expected a command line " +
				"argument of the form --<Name>, but got '%s'.", argv[i])
		} else if i + 1 >= len(argv) {
			return "", "", nil, fmt.Errorf("The command line argument " +
				"'%s' has no value.", argv[i])
		}

		name, val := strings.ToLower(argv[i][2:]), argv[i+1]
		if err := args.setVar(name, val); err != nil {
			return "", "", nil, err
		}
	}

	return mode, configFile, args, nil
}

func (args *RawArgs) setVar(name, val string) error {
	a := &args.Athcheck
	switch name {
	case "threads":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("--Threads was set to '%s', which isn't an " +
				"integer.", val)
		}
		a.Threads = n
	case "strictness":
		a.Strictness = val
	case "verbose":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("--Verbose was set to '%s', which isn't " +
				"'true' or 'false'.", val)
		}
		a.Verbose = b
	case "cases":
		a.Cases = val
	case "protect":
		a.Protect = val
	case "metricsfile":
		a.MetricsFile = val
	default:
		return fmt.Errorf("'--%s' isn't a command line argument. The valid " +
			"arguments are %s.", name, commandLineVars)
	}
	args.set[name] = true
	return nil
}

// ParseConfigFile parses arguments from a config file.
func ParseConfigFile(fileName string) (*RawArgs, error) {
	args := &RawArgs{ }
	if err := gcfg.ReadFileInto(args, fileName); err != nil {
		return nil, fmt.Errorf("Could not parse the config file '%s': %s",
			fileName, err.Error())
	}
	return args, nil
}

// ParseConfigString parses arguments from the text of a config file.
func ParseConfigString(text string) (*RawArgs, error) {
	args := &RawArgs{ }
	if err := gcfg.ReadStringInto(args, text); err != nil {
		return nil, fmt.Errorf("Could not parse config: %s", err.Error())
	}
	return args, nil
}

// Overwrite arguments in arg1 which have been set in arg2 on the command
// line.
func (arg1 *RawArgs) Overwrite(arg2 *RawArgs) {
	a1, a2 := &arg1.Athcheck, &arg2.Athcheck
	for name := range arg2.set {
		switch name {
		case "threads": a1.Threads = a2.Threads
		case "strictness": a1.Strictness = a2.Strictness
		case "verbose": a1.Verbose = a2.Verbose
		case "cases": a1.Cases = a2.Cases
		case "protect": a1.Protect = a2.Protect
		case "metricsfile": a1.MetricsFile = a2.MetricsFile
		}
	}
}

// Process converts the raw user input to a format which is more useful for
// internal functions. Very simple validation will be done here, but nothing
// which requires interacting with external files.
func (args *RawArgs) Process() (*Args, error) {
	a := &args.Athcheck
	out := &Args{
		Threads: a.Threads, Verbose: a.Verbose,
		Protect: strings.Fields(a.Protect), MetricsFile: a.MetricsFile,
	}
	if out.Threads == 0 { out.Threads = -1 }

	var err error
	out.Strictness, err = ParseStrictness(a.Strictness)
	if err != nil { return nil, err }

	names := []string{ }
	for name := range args.Case { names = append(names, name) }
	sort.Strings(names)

	if only := strings.Fields(a.Cases); len(only) > 0 {
		for _, name := range only {
			if _, ok := args.Case[name]; !ok {
				return nil, fmt.Errorf("Cases includes '%s', but there is " +
					"no case with that name. The cases are %s.", name, names)
			}
		}
		names = only
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("No [case \"<name>\"] sections were given.")
	}

	for _, name := range names {
		c, err := args.Case[name].process(name)
		if err != nil {
			return nil, fmt.Errorf("Error in case '%s': %s", name, err.Error())
		}
		out.Cases = append(out.Cases, c)
	}

	return out, nil
}

func (rc *RawCase) process(name string) (*regress.Case, error) {
	c := &regress.Case{ Name: name }

	switch strings.ToLower(rc.Kind) {
	case "", "compare": c.Kind = regress.CompareKind
	case "convergence": c.Kind = regress.ConvergenceKind
	default:
		return nil, fmt.Errorf("Kind is set to '%s', but the only valid " +
			"kinds are 'compare' and 'convergence'.", rc.Kind)
	}

	var outputs []int
	if strings.TrimSpace(rc.Outputs) != "" {
		var err error
		outputs, err = format.ExpandSequenceFormat(rc.Outputs)
		if err != nil {
			return nil, fmt.Errorf("Outputs is set to '%s', which can't be " +
				"parsed: %s", rc.Outputs, err.Error())
		}
	}

	if err := rc.processFormat(c); err != nil { return nil, err }

	if c.Kind == regress.CompareKind {
		if err := rc.processComparison(c, outputs); err != nil {
			return nil, err
		}
	} else {
		if err := rc.processConvergence(c, outputs); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (rc *RawCase) processFormat(c *regress.Case) error {
	var err error
	if rc.Format != "" {
		c.Format, err = regress.ParseFormat(rc.Format)
	} else if c.Kind == regress.CompareKind {
		c.Format, err = regress.FormatFor(rc.Reference)
	} else {
		c.Format, err = regress.FormatFor(rc.Low)
	}
	if err != nil {
		return fmt.Errorf("%s Set Format to 'vtk' or 'tab'.", err.Error())
	}

	if c.Format != regress.Tab { return nil }

	if rc.Dimensions < 1 || rc.Dimensions > 3 {
		return fmt.Errorf("Dimensions is set to %d, but tab files must " +
			"have 1, 2, or 3 dimensions.", rc.Dimensions)
	}
	c.Dims = rc.Dimensions
	c.Headings = strings.Fields(rc.Headings)
	if len(c.Headings) == 0 {
		return fmt.Errorf("Tab files need Headings to name their columns.")
	}
	return nil
}

func (rc *RawCase) processComparison(c *regress.Case, outputs []int) error {
	if rc.Reference == "" {
		return fmt.Errorf("Reference isn't set.")
	} else if rc.Candidate == "" {
		return fmt.Errorf("Candidate isn't set.")
	}
	c.Reference = rc.Reference

	var err error
	c.Candidates, err = format.ExpandFileFormat(rc.Candidate, outputs)
	if err != nil { return err }

	c.Tolerance, err = parsePositive("Tolerance", rc.Tolerance)
	if err != nil { return err }

	var nameMap compare.NameMap = compare.Identity
	if rc.CandidatePrefix != "" { nameMap = compare.Prefix(rc.CandidatePrefix) }
	c.Pairs = compare.Pairs(strings.Fields(rc.Fields), nameMap)

	for _, entry := range rc.Derived {
		for _, tok := range strings.Fields(entry) {
			p, err := parseDerived(tok)
			if err != nil { return err }
			c.Pairs = append(c.Pairs, p)
		}
	}

	if len(c.Pairs) == 0 {
		return fmt.Errorf("Neither Fields nor Derived is set, so there's " +
			"nothing to compare.")
	}
	return nil
}

// parseDerived parses a ref:cand or ref:cand:scale Derived entry.
func parseDerived(tok string) (compare.Pair, error) {
	parts := strings.Split(tok, ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return compare.Pair{ }, fmt.Errorf("The Derived entry '%s' should " +
			"have the form <reference field>:<candidate field>[:<scale>].", tok)
	}

	p := compare.Pair{ Ref: parts[0], Cand: parts[1] }
	if len(parts) == 3 {
		scale, err := strconv.ParseFloat(parts[2], 64)
		if err != nil || scale == 0 {
			return compare.Pair{ }, fmt.Errorf("The Derived entry '%s' has " +
				"the scale '%s', which isn't a non-zero number.", tok, parts[2])
		}
		p.Scale = scale
	}
	return p, nil
}

func (rc *RawCase) processConvergence(c *regress.Case, outputs []int) error {
	cc := &regress.ConvergenceCase{ Cutoff: DefaultCutoff }
	c.Convergence = cc

	runs := []struct{ name, file string } {
		{ "Low", rc.Low }, { "High", rc.High },
	}
	for _, run := range runs {
		if run.file == "" { return fmt.Errorf("%s isn't set.", run.name) }
	}

	for i, run := range runs {
		files, err := format.ExpandFileFormat(run.file, outputs)
		if err != nil { return err }
		if len(files) != 2 {
			return fmt.Errorf("%s expands to %d files, but it needs to give " +
				"exactly two: the initial and final states.",
				run.name, len(files))
		}
		if i == 0 {
			cc.Low = [2]string{ files[0], files[1] }
		} else {
			cc.High = [2]string{ files[0], files[1] }
		}
	}

	res := strings.Fields(rc.Resolution)
	if len(res) != 2 {
		return fmt.Errorf("Resolution is set to '%s', but it should be the " +
			"number of cells in the low and high resolution runs.",
			rc.Resolution)
	}
	for i := range res {
		n, err := strconv.Atoi(res[i])
		if err != nil || n <= 0 {
			return fmt.Errorf("Resolution contains '%s', which isn't a " +
				"positive integer.", res[i])
		}
		cc.Res[i] = n
	}
	if cc.Res[0] >= cc.Res[1] {
		return fmt.Errorf("The low resolution run has %d cells, which isn't " +
			"less than the %d cells of the high resolution run.",
			cc.Res[0], cc.Res[1])
	}

	cc.Fields = strings.Fields(rc.Fields)
	if len(cc.Fields) == 0 { return fmt.Errorf("Fields isn't set.") }

	var err error
	cc.Amplitude, err = parsePositive("Amplitude", rc.Amplitude)
	if err != nil { return err }

	if rc.Cutoff != "" {
		cc.Cutoff, err = parsePositive("Cutoff", rc.Cutoff)
		if err != nil { return err }
	}
	if rc.Tolerance != "" {
		c.Tolerance, err = parsePositive("Tolerance", rc.Tolerance)
		if err != nil { return err }
	}

	return nil
}

func parsePositive(name, val string) (float64, error) {
	if val == "" { return 0, fmt.Errorf("%s isn't set.", name) }
	x, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil || !(x > 0) {
		return 0, fmt.Errorf("%s is set to '%s', which isn't a positive " +
			"number.", name, val)
	}
	return x, nil
}
