package compute

import (
	"runtime"
	"sync"
)

// MinParallel is the smallest input a Pool splits across goroutines.
const MinParallel = 2048

type Pool struct {
	workers int
}

// NewPool creates a pool of n workers. n <= 0 uses one worker per CPU.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Pool{workers: n}
}

func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// Chunks calls fn once per worker with a contiguous range covering [0, n).
// Ranges never overlap. A nil pool, a single worker, or n below MinParallel
// runs fn(0, 0, n) on the calling goroutine.
func (p *Pool) Chunks(n int, fn func(worker, start, end int)) {
	if n <= 0 {
		return
	}
	if p.Workers() == 1 || n < MinParallel {
		fn(0, 0, n)
		return
	}

	chunkSize := (n + p.workers - 1) / p.workers

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(worker, start, end int) {
			defer wg.Done()
			fn(worker, start, end)
		}(w, start, end)
	}
	wg.Wait()
}
