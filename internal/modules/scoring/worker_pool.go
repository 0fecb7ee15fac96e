package scoring

import (
	"sync"
)

// workerPool evaluates records in parallel, writing each result to the slot of its input
type workerPool struct {
	numWorkers int
}

func newWorkerPool(numWorkers int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &workerPool{numWorkers: numWorkers}
}

// run calls fn for every index in [0, n) and returns once all calls finished
func (wp *workerPool) run(n int, fn func(i int)) {
	if n == 0 {
		return
	}

	workers := wp.numWorkers
	if n < workers {
		workers = n // Don't spawn more workers than records
	}

	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	jobs := make(chan int, n)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
}
