package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestBatchesCoverRange(t *testing.T) {
	tests := []struct {
		name      string
		load      int
		threads   int
		wantCount int
	}{
		{"17 over 5", 17, 5, 5},
		{"exact split", 12, 4, 4},
		{"more threads than load", 3, 8, 3},
		{"single thread", 10, 1, 1},
		{"single index", 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := Batches(tt.load, tt.threads)
			if len(batches) != tt.wantCount {
				t.Errorf("Batches(%d, %d) gave %d batches, want %d", tt.load, tt.threads, len(batches), tt.wantCount)
			}
			if len(batches) > tt.threads {
				t.Errorf("batch count %d exceeds preferred threads %d", len(batches), tt.threads)
			}

			next := 0
			for _, b := range batches {
				if b.Start != next {
					t.Fatalf("gap or overlap: batch starts at %d, expected %d", b.Start, next)
				}
				if b.End <= b.Start {
					t.Fatalf("empty batch %+v", b)
				}
				next = b.End
			}
			if next != tt.load {
				t.Errorf("batches end at %d, want %d", next, tt.load)
			}
		})
	}
}

func TestBatchesEmptyLoad(t *testing.T) {
	if b := Batches(0, 4); b != nil {
		t.Errorf("Batches(0, 4) = %v, want nil", b)
	}
	if b := Batches(-3, 4); b != nil {
		t.Errorf("Batches(-3, 4) = %v, want nil", b)
	}
}

func TestBatchesPanicsOnNonPositiveThreads(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for preferredThreads = 0")
		}
	}()
	Batches(10, 0)
}

// distributor abstracts over the package function and the pool.
type distributor func(loadSize, preferredThreads int, step Step) int

func distributors(t *testing.T) map[string]distributor {
	pool := NewPool(3)
	t.Cleanup(pool.Close)
	return map[string]distributor{
		"goroutines": Distribute,
		"pool":       pool.Distribute,
	}
}

func TestDistributeVisitsEveryIndexOnce(t *testing.T) {
	for name, distribute := range distributors(t) {
		t.Run(name, func(t *testing.T) {
			const load = 17
			var counts [load]atomic.Int32

			n := distribute(load, 5, func(i int) bool {
				counts[i].Add(1)
				return true
			})
			if n > 5 {
				t.Errorf("used %d batches, want at most 5", n)
			}
			for i := range counts {
				if c := counts[i].Load(); c != 1 {
					t.Errorf("index %d visited %d times, want 1", i, c)
				}
			}
		})
	}
}

func TestDistributeNoopOnEmptyLoad(t *testing.T) {
	for name, distribute := range distributors(t) {
		t.Run(name, func(t *testing.T) {
			called := false
			if n := distribute(0, 4, func(int) bool { called = true; return true }); n != 0 {
				t.Errorf("got %d batches, want 0", n)
			}
			if called {
				t.Error("step called for empty load")
			}
		})
	}
}

func TestDistributeEarlyStopIsPerBatch(t *testing.T) {
	for name, distribute := range distributors(t) {
		t.Run(name, func(t *testing.T) {
			// Batches of 5: [0,5) [5,10) [10,15) [15,20).
			// Returning false at index 6 stops only the second batch.
			var mu sync.Mutex
			visited := make(map[int]bool)

			distribute(20, 4, func(i int) bool {
				mu.Lock()
				visited[i] = true
				mu.Unlock()
				return i != 6
			})

			for i := 0; i < 20; i++ {
				want := i < 7 || i >= 10
				if visited[i] != want {
					t.Errorf("index %d visited = %v, want %v", i, visited[i], want)
				}
			}
		})
	}
}

func TestPoolReuseAfterClose(t *testing.T) {
	pool := NewPool(2)

	var sum atomic.Int64
	pool.Distribute(10, 2, func(i int) bool { sum.Add(int64(i)); return true })
	pool.Close()
	pool.Distribute(10, 2, func(i int) bool { sum.Add(int64(i)); return true })
	pool.Close()

	if got := sum.Load(); got != 90 {
		t.Errorf("sum = %d, want 90", got)
	}
}
