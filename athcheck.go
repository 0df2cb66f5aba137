package main

import (
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/athena-regress/athcheck/lib"
	g_error "github.com/athena-regress/athcheck/lib/error"
	"github.com/athena-regress/athcheck/lib/regress"
)

func main() {
	// Parse arguments.
	mode, configFile, cmdArgs, err := lib.ParseCommandLine(os.Args[1:])
	if err != nil { g_error.External("%s", err.Error()) }

	// These modes don't need a config file.
	switch mode {
	case "help":
		lib.PrintHelp(os.Stdout)
		return
	case "example_config":
		fmt.Printf("%s", lib.ExampleConfig)
		return
	case "check", "compare":
	default:
		g_error.External("You attempted to run athcheck in the mode '%s', " +
			"but the only valid modes are 'help', 'example_config', " +
			"'check', and 'compare'.", mode)
	}

	if configFile == "" {
		g_error.External("The '%s' mode needs a config file.", mode)
	}
	rawArgs, err := lib.ParseConfigFile(configFile)
	if err != nil { g_error.External("%s", err.Error()) }
	rawArgs.Overwrite(cmdArgs)

	// Do processing that doesn't need external validation.
	args, err := rawArgs.Process()
	if err != nil { g_error.External("%s", err.Error()) }

	logger := lib.NewLogger(os.Stderr, args.Verbose)
	logger = log.With(logger, "run", uuid.NewString())
	g_error.Logger = logger

	switch mode {
	case "check":
		if !Check(args, logger) { os.Exit(1) }
	case "compare":
		if !Compare(args, logger) { os.Exit(1) }
	}
}

// Check runs athcheck's "check" mode which tests for errors in the
// configuration arguments and the files they name.
func Check(args *lib.Args, logger log.Logger) bool {
	ok := lib.Check(args, logger)
	if ok { fmt.Println("No errors detected.") }
	return ok
}

// Compare runs athcheck's "compare" mode, which runs every case and prints
// its verdict. It returns true if every case passed.
func Compare(args *lib.Args, logger log.Logger) bool {
	threads, err := lib.SetThreads(args.Threads)
	if err != nil { g_error.External("%s", err.Error()) }

	saved, err := regress.SaveFiles(args.Protect...)
	if err != nil { g_error.External("%s", err.Error()) }
	defer func() {
		if err := saved.Restore(); err != nil {
			level.Error(logger).Log("msg", "could not restore files",
				"err", err)
		}
	}()

	level.Debug(logger).Log("msg", "running cases", "cases",
		len(args.Cases), "threads", threads)
	results := regress.RunAll(args.Cases, threads, logger)

	for _, r := range results { fmt.Println(r) }
	if args.MetricsFile != "" { writeMetrics(args.MetricsFile, results, logger) }
	passed := regress.Passed(results)
	if passed {
		fmt.Printf("All %d cases passed.\n", len(results))
	}
	return passed
}

// writeMetrics writes the results of a run to a Prometheus text file.
func writeMetrics(fileName string, results []*regress.Result, logger log.Logger) {
	reg := prometheus.NewRegistry()
	metrics := regress.NewMetrics(reg)
	for _, r := range results { metrics.Observe(r) }

	if err := prometheus.WriteToTextfile(fileName, reg); err != nil {
		level.Error(logger).Log("msg", "could not write metrics",
			"file", fileName, "err", err)
	}
}
