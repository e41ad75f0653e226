// Package compute splits per-particle work across goroutines.
//
// A [Pool] hands out contiguous index ranges, one per worker, and waits for
// all of them. Small inputs run inline on the caller's goroutine:
//
//	pool := compute.NewPool(0) // one worker per CPU
//	pool.Chunks(len(ps), func(worker, start, end int) {
//		for i := start; i < end; i++ {
//			...
//		}
//	})
package compute
