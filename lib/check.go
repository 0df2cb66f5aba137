package lib

/* check.go contains the core functions of athcheck's "check" mode. */

import (
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	g_error "github.com/athena-regress/athcheck/lib/error"
	"github.com/athena-regress/athcheck/lib/regress"
)

// Check validates the cases in args against the file system: every file a
// case reads must exist, and reference files must look like the format the
// case expects. This function will either crash upon encountering errors or
// will log warnings, depending on args.Strictness. If Check completes, it
// returns true if all checks passed and false otherwise.
func Check(args *Args, logger log.Logger) bool {
	ok := true
	for _, c := range args.Cases {
		for _, err := range CheckCase(c) {
			ok = false
			if args.Strictness == CrashOnError {
				g_error.External("%s", err.Error())
				return false
			}
			level.Warn(logger).Log("case", c.Name, "err", err)
		}
	}

	for _, name := range args.Protect {
		info, err := os.Stat(name)
		if err == nil && info.IsDir() {
			ok = false
			err = fmt.Errorf("The protected file '%s' is a directory.", name)
			if args.Strictness == CrashOnError {
				g_error.External("%s", err.Error())
				return false
			}
			level.Warn(logger).Log("file", name, "err", err)
		}
	}

	return ok
}

// CheckCase returns every problem with the files read by a single case.
func CheckCase(c *regress.Case) []error {
	errs := []error{ }
	for _, file := range c.Files() {
		if _, err := os.Stat(file); err != nil {
			errs = append(errs, fmt.Errorf("The case '%s' reads the file " +
				"'%s', which can't be accessed: %s", c.Name, file, err.Error()))
		}
	}
	if len(errs) > 0 { return errs }

	var sniffed []string
	if c.Kind == regress.CompareKind {
		sniffed = []string{ c.Reference }
	} else if c.Convergence != nil {
		sniffed = []string{ c.Convergence.Low[0], c.Convergence.High[0] }
	}

	for _, file := range sniffed {
		format, err := regress.Sniff(file)
		if err != nil {
			errs = append(errs, err)
		} else if format != c.Format {
			errs = append(errs, fmt.Errorf("The case '%s' expects %s " +
				"files, but '%s' looks like a %s file.",
				c.Name, c.Format, file, format))
		}
	}

	return errs
}
