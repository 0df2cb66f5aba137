package lib

/* thread.go contains functions useful for multi-threading. */

import (
	"fmt"
	"runtime"
)

// SetThreads sets the number of threads athcheck runs on and returns it.
// n = -1 uses every core.
func SetThreads(n int) (int, error) {
	if n == -1 {
		n = runtime.NumCPU()
	} else if n < 1 {
		return 0, fmt.Errorf("%d threads requested. Threads must be " +
			"positive or -1.", n)
	} else if n > runtime.NumCPU() {
		return 0, fmt.Errorf("%d threads requested, but your system only " +
			"has %d cores. If you want athcheck to use every core, set " +
			"Threads=-1.", n, runtime.NumCPU())
	}

	runtime.GOMAXPROCS(n)
	return n, nil
}
