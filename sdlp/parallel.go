package sdlp

import (
	"runtime"
	"sync"
)

// runJobs runs job(w, i) for every i in [0, n) on min(runtime.NumCPU(), n) workers,
// where w is the index of the worker.
// It returns the first error encountered by any worker.
func runJobs(n int, job func(w, i int) error) error {
	if n == 0 {
		return nil
	}

	jobChan := make(chan int)
	go func() {
		defer close(jobChan)
		for i := 0; i < n; i++ {
			jobChan <- i
		}
	}()

	workSize := min(runtime.NumCPU(), n)
	errs := make([]error, workSize)

	var wg sync.WaitGroup
	wg.Add(workSize)
	for w := 0; w < workSize; w++ {
		go func(w int) {
			defer wg.Done()
			for i := range jobChan {
				if errs[w] != nil {
					continue
				}
				errs[w] = job(w, i)
			}
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// numWorkers returns the number of workers runJobs uses for n jobs.
func numWorkers(n int) int {
	return max(min(runtime.NumCPU(), n), 1)
}
