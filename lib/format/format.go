/*package format handles athcheck's miniature formatting languages for output
file names, e.g:

   Candidate = "bin/linear_wave.block{%d,0..3}.out1.{%05d,output}.vtk"
   Outputs = 0..10 - 5

The exact rules are as follows:
File format strings are a combination of fixed text and variables. Fixed text is
always the same, and variables can change from file to file. Variables are
written as {verb,rule}. "verb" is a printf() verb (e.g. %05d) that specifies
how the variable should be printed. "rule" is text that specifies what values
the variable should take on. There are currently two rules:

  "output" - The variable is equal to the output step being compared.
  sequence format - The variable ranges over a user-specified range.

Sequence formats are a generic way to specify non-contiguous sequences of
natural numbers. They consist of a series of n tokens separated by "+" or "-".
Each token can be either a number or two numbers separted by "..". E.g.:

  100
  0..100
  0..10 + 100
  0..100 - 63 - 10..20

These strings build up sequences of numbers by adding/removing individual
numbers and contiguous sequences. For example, 0 through 10 would be 0..10,
1, 2, 3, 15, 16, 17 could be written as  1..17 - 4..13. This is useful for
skipping corrupted snapshots or specifying a subset of snapshots/files.

All spaces around "-", "+", and "," symbols are ignored.
*/
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Any expanded formats which would have more than BigNumber elements are
	// assumed to be bugs.
	BigNumber = 1<<20
)

// ExpandSequenceFormat expands a sequence format string into a sorted sequence
// of integers.
func ExpandSequenceFormat(format string) ([]int, error) {
	// Parse and error-check the format string.
	tok, err := tokeniseSequenceFormat(format)
	if err != nil { return nil, err }
	adds, subs, err := addsSubsSequenceFormat(tok)
	if err != nil { return nil, err }

	// Add numbers to the sequence.
	m := map[int]int{ }
	for i := range adds {
		ns := parseSequenceFormatToken(adds[i])
		for _, n := range ns {
			if _, ok := m[n]; ok {
				return nil, fmt.Errorf("The number %d is added more than once.", n)
			}
			m[n] = n
		}
	}

	// Remove numbers from the sequence.
	for i := range subs {
		ns := parseSequenceFormatToken(subs[i])
		for _, n := range ns {
			if _, ok := m[n]; !ok {
				return nil, fmt.Errorf("The number %d is removed more times than it was inserted.", n)
			}
			delete(m, n)
		}
	}
	
	if len(m) > BigNumber {
		return nil, fmt.Errorf("This sequence would have %d elements, which is almost certianly a bug.", len(m))
	}

	// Convert to a sorted array of integers.
	out := []int{ }
	for n := range m { out = append(out, n) }
	sort.Ints(out)
	
	return out, nil
}

// tokeniseSequenceFormat splits a sequence format string into numbers,
// ranges, and operators.
func tokeniseSequenceFormat(format string) ([]string, error) {
	// Make sure all operators are separated by spaces.
	formatClean := strings.ReplaceAll(format, "+", " + ")
	formatClean = strings.ReplaceAll(formatClean, "-", " - ")

	// Tokenize and remove empty tokens.
	tokRaw := strings.Split(formatClean, " ")
	tok := []string{ }
	for i := range tokRaw {
		tokRaw[i] = strings.Trim(tokRaw[i], " ")
		if len(tokRaw[i]) > 0 {
			tok = append(tok, tokRaw[i])
		}
	}
	
	if len(tok) == 0 {
		return nil, fmt.Errorf("The format string is empty.")
	}
	return tok, nil
}

func addsSubsSequenceFormat(tok []string) (adds, subs []string, err error) {
	if len(tok) == 0 {
		return nil, nil, fmt.Errorf("Format string is empty")
	}

	
	// Handle the case where the starting "+" is dropped.
	adds, subs = []string{}, []string{}
	var start int
	if tok[0] == "+" || tok[0] == "-" {
		start = 0
	} else {
		if err := isSequenceFormatToken(tok[0]); err != nil {
			return nil, nil, fmt.Errorf(
				"Element number %d, '%s', cannot be parsed because %s",
				1, tok[0], err.Error(),
			)
		}
		
		adds = append(adds, tok[0])
		start = 1
	}

	for i := start; i < len(tok); i += 2 {
		if tok[i] != "-" && tok[i] != "+" {
			return nil, nil, fmt.Errorf(
				"Element number %d, '%s', should be a '-' or '+', but isn't.",
				i+1, tok[i])
		}

		if i + 1 >= len(tok) {
			return nil, nil, fmt.Errorf(
				"The format string ends in a trailing '%s'", tok[i],
			)
		}

		if err := isSequenceFormatToken(tok[i+1]); err != nil {
			return nil, nil, fmt.Errorf(
				"Element number %d, '%s', cannot be parsed because %s",
				i+2, tok[i+1], err.Error(),
			)
		}
		
		if tok[i] == "+" {
			adds = append(adds, tok[i+1])
		} else {
			subs = append(subs, tok[i+1])
		}
	}

	return adds, subs, nil
}

// isSequenceFormatToken returns a nil error is tok is a valid token for
// a sequence format and an error describing the problem otherwise. The error
// message assumes it is printed after a trailing "beacause"
func isSequenceFormatToken(tok string) error {
	if len(tok) == 0 {
		return fmt.Errorf("the format string is empty.")
	}
	
	bounds := strings.Split(tok, "..")

	switch len(bounds) {
	case 1:
		_, err := strconv.Atoi(bounds[0])
		if err != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		return nil
	case 2:
		start, err1 := strconv.Atoi(bounds[0])
		if err1 != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[0])
		}
		end, err2 := strconv.Atoi(bounds[1])
		if err2 != nil {
			return fmt.Errorf("'%s' is not an integer.", bounds[1])
		}
		if end < start {
			return fmt.Errorf("lower bound %d is larger than upper bound %d.",
				start, end)
		}
		
		return nil
	}
	return fmt.Errorf("it has more than one '..'.")
}

// parseSequenceFormatToken parses a single token in a sequence format string
// and returns the corresponding array of numbers. This function assumes that
// the tests in isSequenceFormatToken have already been run and thus does no
// error checking. This makes sense to do because the calling funciton has
// already removed location information from these tokens, so the error
// message would be less informative.
func parseSequenceFormatToken(tok string) []int {
	bounds := strings.Split(tok, "..")

	switch len(bounds) {
	case 1:
		n, _ := strconv.Atoi(tok)
		return []int{ n }
	case 2:
		start, _ := strconv.Atoi(bounds[0])
		end, _ := strconv.Atoi(bounds[1])
		out := []int{ }
		for n := start; n <= end; n++ {
			out = append(out, n)
		}

		return out
	}

	panic(fmt.Sprintf("Internal error: invalid sequence format token, " +
		"'%s', passed isSequenceFormatToken().", tok))
}


// ExpandFileFormat expands a file format string into every file name it
// describes. Variables with the "output" rule take each value in outputs in
// turn, and variables with sequence rules range over their sequence. Names
// are ordered by output first, then by each sequence variable from left to
// right. If the format has no output variable, outputs is ignored.
func ExpandFileFormat(format string, outputs []int) ([]string, error) {
	seps, vars, err := parseFileFormat(format)
	if err != nil { return nil, err }

	hasOutput := false
	for _, v := range vars {
		if v.output { hasOutput = true }
	}
	if !hasOutput {
		outputs = []int{ 0 }
	} else if len(outputs) == 0 {
		return nil, fmt.Errorf("The file format '%s' has an 'output' " +
			"variable, but no outputs were given.", format)
	}

	names := []string{ }
	for _, out := range outputs {
		vals := make([]int, len(vars))
		names = appendNames(names, seps, vars, vals, 0, out)
		if len(names) > BigNumber {
			return nil, fmt.Errorf("The file format '%s' expands to more " +
				"than %d files, which is almost certainly a bug.",
				format, BigNumber)
		}
	}
	return names, nil
}

// appendNames recursively fills in vals[i:] and appends the resulting names.
func appendNames(
	names, seps []string, vars []variable, vals []int, i, output int,
) []string {
	if i == len(vars) {
		sb := &strings.Builder{ }
		for j := range vars {
			sb.WriteString(seps[j])
			fmt.Fprintf(sb, vars[j].verb, vals[j])
		}
		sb.WriteString(seps[len(vars)])
		return append(names, sb.String())
	}

	if vars[i].output {
		vals[i] = output
		return appendNames(names, seps, vars, vals, i + 1, output)
	}
	for _, n := range vars[i].seq {
		vals[i] = n
		names = appendNames(names, seps, vars, vals, i + 1, output)
	}
	return names
}

// variable is a single {verb,rule} variable in a file format string.
type variable struct {
	verb string
	output bool
	seq []int
}

// parseFileFormat splits a file format into the fixed text around each
// variable and the variables themselves. len(seps) = len(vars) + 1.
func parseFileFormat(format string) (seps []string, vars []variable, err error) {
	starts, ends, err := startsEndsFormatString(format)
	if err != nil { return nil, nil, err }

	prev := 0
	for i := range starts {
		seps = append(seps, format[prev: starts[i]])
		prev = ends[i]

		text := format[starts[i]+1: ends[i]-1]
		v, err := parseVariable(text)
		if err != nil {
			return nil, nil, fmt.Errorf("The file format '%s' has an " +
				"invalid variable, '{%s}': %s Variables should contain a " +
				"formatting verb (e.g. '%%d', '%%05d'), a comma, and the " +
				"values the variable takes on (e.g. '0..3', 'output').",
				format, text, err.Error())
		}
		vars = append(vars, v)
	}
	seps = append(seps, format[prev:])

	return seps, vars, nil
}

func parseVariable(text string) (variable, error) {
	tok := strings.Split(text, ",")
	if len(tok) != 2 {
		return variable{ }, fmt.Errorf("it has %d comma-separated parts " +
			"instead of 2.", len(tok))
	}
	verb, rule := strings.TrimSpace(tok[0]), strings.TrimSpace(tok[1])

	if !strings.HasPrefix(verb, "%") || strings.Count(verb, "%") != 1 ||
		strings.Contains(fmt.Sprintf(verb, 0), "%!") {
		return variable{ }, fmt.Errorf("'%s' is not an integer verb.", verb)
	}

	if rule == "output" { return variable{ verb: verb, output: true }, nil }
	seq, err := ExpandSequenceFormat(rule)
	if err != nil { return variable{ }, err }
	return variable{ verb: verb, seq: seq }, nil
}

// startsEndsFormatString returns the indices of the opening brace of each
// variable and the indices just past each closing brace.
func startsEndsFormatString(format string) (starts, ends []int, err error) {
	starts, ends = []int{ }, []int{ }
	nestedLevel := 0

	ending := "Make sure variables in file formats are enclosed in " +
		"matching { ... } pairs."

	for i := range format {
		if format[i] == '{' {
			nestedLevel++
			starts = append(starts, i)
		} else if format[i] == '}' {
			nestedLevel--
			ends = append(ends, i+1)
		}

		if nestedLevel > 1 {
			end := len(starts) - 1
			return nil, nil, fmt.Errorf("The file format '%s' has nested " +
				"'{' characters at indices %d and %d. " + ending,
				format, starts[end - 1], starts[end])
		} else if nestedLevel < 0 {
			end := len(ends) - 1
			return nil, nil, fmt.Errorf("The file format '%s' has a '}' " +
				"that doesn't come after a '{' at index %d. " + ending,
				format, ends[end] - 1)
		}
	}

	if len(ends) != len(starts) {
		end := len(starts) - 1
		return nil, nil, fmt.Errorf("The file format '%s' has a '{' " +
			"without a matching '}' at index %d. " + ending,
			format, starts[end])
	}

	return starts, ends, nil
}
