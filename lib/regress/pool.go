package regress

import (
	"sync"

	"github.com/go-kit/log"
)

// RunAll runs every case on at most workers goroutines and returns the
// results in the same order as cases. workers < 1 is treated as 1.
func RunAll(cases []*Case, workers int, logger log.Logger) []*Result {
	if workers < 1 { workers = 1 }
	if workers > len(cases) { workers = len(cases) }

	results := make([]*Result, len(cases))
	jobs := make(chan int)

	wg := &sync.WaitGroup{ }
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = Run(cases[i], logger)
			}
		}()
	}

	for i := range cases { jobs <- i }
	close(jobs)
	wg.Wait()

	return results
}

// Passed returns true if every result passed.
func Passed(results []*Result) bool {
	for _, r := range results {
		if !r.Pass { return false }
	}
	return true
}
