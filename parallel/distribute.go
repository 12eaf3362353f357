// Package parallel splits index ranges into contiguous batches and runs them concurrently.
package parallel

import "sync"

// Step processes one index and reports whether its batch should continue.
type Step func(i int) bool

// Batch is a half-open index range [Start, End).
type Batch struct {
	Start, End int
}

// Batches splits [0, loadSize) into contiguous batches of ceil(loadSize/preferredThreads)
// indices. The last batch may be shorter. Returns nil if loadSize <= 0.
func Batches(loadSize, preferredThreads int) []Batch {
	if preferredThreads <= 0 {
		panic("parallel: preferredThreads must be positive")
	}
	if loadSize <= 0 {
		return nil
	}

	length := (loadSize + preferredThreads - 1) / preferredThreads

	batches := make([]Batch, 0, preferredThreads)
	for start := 0; start < loadSize; start += length {
		end := start + length
		if end > loadSize {
			end = loadSize
		}
		batches = append(batches, Batch{Start: start, End: end})
	}
	return batches
}

// run calls step on each index of the batch until step returns false.
func (b Batch) run(step Step) {
	for i := b.Start; i < b.End; i++ {
		if !step(i) {
			return
		}
	}
}

// Distribute runs step over [0, loadSize) with one goroutine per batch and
// blocks until every batch has finished or stopped early.
// A batch stopping early does not affect the other batches.
// Returns the number of batches used.
func Distribute(loadSize, preferredThreads int, step Step) int {
	batches := Batches(loadSize, preferredThreads)
	if len(batches) == 0 {
		return 0
	}

	var wg sync.WaitGroup
	wg.Add(len(batches))
	for _, b := range batches {
		go func(b Batch) {
			defer wg.Done()
			b.run(step)
		}(b)
	}
	wg.Wait()

	return len(batches)
}
