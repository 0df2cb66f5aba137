/*package lib contains the configuration and command line handling of
athcheck and the functions behind its modes. Almost all of the heavy lifting
is done by lib/'s subpackages.
*/
package lib

import (
	"fmt"
	"io"
)

// Version is the version of athcheck.
const Version = "0.1.0"

// Modes lists athcheck's modes and what they do.
var Modes = []struct{ Name, Description string } {
	{ "help", "prints this message" },
	{ "example_config", "prints an example config file" },
	{ "check", "validates a config file and the files its cases read" },
	{ "compare", "runs every case in a config file and prints the verdicts" },
}

// PrintHelp writes athcheck's usage to w.
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "athcheck %s\n\n", Version)
	fmt.Fprintf(w, "Usage:\n  athcheck <mode> [<config file>] " +
		"[--<Name> <Value> ...]\n\nModes:\n")
	for _, m := range Modes {
		fmt.Fprintf(w, "  %-16s %s\n", m.Name, m.Description)
	}
	fmt.Fprintf(w, "\nThe [athcheck] variables %s can be overwritten on " +
		"the command line.\n", commandLineVars)
}

// ExampleConfig is a config file showing every variable athcheck reads.
const ExampleConfig = `[athcheck]
# Number of cases run at once. -1 uses every core.
Threads = -1
# What "check" does when it finds a problem: crash or warn.
Strictness = crash
Verbose = false
# Only run these cases. Every case is run if this isn't set.
# Cases = shock_tube sr_linwave
# Files restored after the run.
Protect = Makefile src/defs.hpp
# Verdicts and errors are written here for a node_exporter textfile collector.
# MetricsFile = athcheck.prom

[case "chem_uniform"]
# vtk or tab. Guessed from the extension of Reference if not set.
Format = vtk
Reference = data/chem_uniform_G1e-6.vtk.zst
# {verb,rule} variables expand into one file per output.
Candidate = bin/uniform_chem.block0.out1.{%05d,output}.vtk
Outputs = 10
Fields = He+ OHx CO C+ H2
# Species are written as passive scalars r<name>.
CandidatePrefix = r
# <reference>:<candidate>[:<scale>]
Derived = E:press:1.5
Tolerance = 1e-6

[case "shock_tube"]
Reference = data/sod.tab.gz
Candidate = bin/Sod.block0.out2.{%05d,output}.tab
Outputs = 25
Dimensions = 1
Headings = x1v rho press vel1
Fields = rho press vel1
Tolerance = 1e-3

[case "sr_linwave"]
Kind = convergence
Format = tab
Low = bin/lw_64.block0.out2.{%05d,output}.tab
High = bin/lw_512.block0.out2.{%05d,output}.tab
Outputs = 0 + 1
Resolution = 64 512
Dimensions = 1
Headings = x1v rho pgas vel1 vel2 vel3
Fields = rho pgas vel1 vel2 vel3
Amplitude = 1e-6
Cutoff = 1.8
`
