package parallel

import (
	"runtime"
	"sync"
)

// job is one batch dispatched to a pool worker.
type job struct {
	batch Batch
	step  Step
	done  *sync.WaitGroup
}

// Pool keeps a fixed set of worker goroutines alive between calls to Distribute,
// so a tick does not pay goroutine start-up per batch.
type Pool struct {
	numWorkers int

	workChan chan job       // sends batches to workers
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers

	mu      sync.Mutex
	running bool
}

// NewPool creates a pool with the given number of workers.
// numWorkers <= 0 uses runtime.GOMAXPROCS(0).
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &Pool{numWorkers: numWorkers}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// start launches the worker goroutines if they are not running yet.
func (p *Pool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan job, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker processes batches until the pool is closed.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case j := <-p.workChan:
			j.batch.run(j.step)
			j.done.Done()
		}
	}
}

// Distribute has the same contract as the package-level Distribute but runs the
// batches on the pool's workers. Workers are started lazily and may be reused
// after Close.
func (p *Pool) Distribute(loadSize, preferredThreads int, step Step) int {
	batches := Batches(loadSize, preferredThreads)
	if len(batches) == 0 {
		return 0
	}

	p.mu.Lock()
	p.start()
	workChan := p.workChan
	p.mu.Unlock()

	var done sync.WaitGroup
	done.Add(len(batches))
	for _, b := range batches {
		workChan <- job{batch: b, step: step, done: &done}
	}
	done.Wait()

	return len(batches)
}

// Close signals all workers to exit and waits for them.
// Must not be called while a Distribute call is in flight.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	p.running = false
}
