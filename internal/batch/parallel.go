package batch

import (
	"runtime"
	"sync"

	"github.com/bactwatch/amrpipe/internal/classify"
)

// WorkItem is one protein file queued for processing.
type WorkItem struct {
	Seq  int
	Path string
}

// WorkResult holds the classified mutations for a single protein file.
type WorkResult struct {
	Seq     int
	Path    string
	Results []classify.Result
	Err     error
}

// parallelProcess runs work items through a pool of workers. Results
// arrive on the returned channel in completion order; use
// OrderedCollect to consume them in sequence order. If workers is 0,
// runtime.NumCPU() is used.
func (r *Runner) parallelProcess(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				rows, err := r.processFile(item.Path)
				results <- WorkResult{
					Seq:     item.Seq,
					Path:    item.Path,
					Results: rows,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order,
// buffering out-of-order results until the next expected sequence
// number arrives. Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
