// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package workerspool implements a soft-bounded pool of goroutines used to split the element
// range of large strided kernels.
package workerspool

import (
	"runtime"
	"sync"
)

// Pool limits the number of goroutines running chunks of work.
type Pool struct {
	// maxParallelism is a soft target on the limit of parallel work to do.
	maxParallelism int

	mu         sync.Mutex
	numRunning int
}

// New returns a new Pool of workers with the default parallelism (runtime.NumCPU()).
func New() *Pool {
	return NewWithParallelism(runtime.NumCPU())
}

// NewWithParallelism returns a new Pool with the given maxParallelism.
// If set to 0 parallelism is disabled, and if negative it is unlimited.
func NewWithParallelism(maxParallelism int) *Pool {
	return &Pool{maxParallelism: maxParallelism}
}

// IsEnabled returns whether parallelism is enabled (maxParallelism is != 0)
func (w *Pool) IsEnabled() bool {
	return w.maxParallelism != 0
}

// IsUnlimited returns whether parallelism is unlimited (maxParallelism < 0)
func (w *Pool) IsUnlimited() bool {
	return w.maxParallelism < 0
}

// MaxParallelism is a soft-target for parallelism.
// If set to 0 parallelism is disabled.
// If set to -1 parallelism is unlimited.
func (w *Pool) MaxParallelism() int {
	return w.maxParallelism
}

// NumRunning returns the number of tasks currently running in the pool's goroutines.
func (w *Pool) NumRunning() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.numRunning
}

// StartIfAvailable runs the task in a separate goroutine, if there are enough workers left.
// It returns true if it found workers to run the function, false otherwise.
//
// It's up to the client to synchronize the end of the function execution.
func (w *Pool) StartIfAvailable(task func()) bool {
	if w.maxParallelism == 0 {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.IsUnlimited() && w.numRunning >= w.maxParallelism {
		return false
	}
	w.numRunning++
	go func() {
		defer func() {
			w.mu.Lock()
			w.numRunning--
			w.mu.Unlock()
		}()
		task()
	}()
	return true
}

// Split divides the range [0, n) into chunks of at least grain elements and calls fn once
// per chunk, returning when all chunks are done.
//
// Chunks are started on a free worker if there is one, otherwise they run inline in the
// calling goroutine, so Split never blocks waiting for workers (and can be called from within a task).
// With n <= grain or parallelism disabled, fn(0, n) is called inline.
//
// If fn panics in any chunk, Split waits for all the other chunks to finish and then panics
// in the calling goroutine with the value of the first panic recovered.
func (w *Pool) Split(n, grain int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	grain = max(grain, 1)
	if !w.IsEnabled() || n <= grain {
		fn(0, n)
		return
	}
	numChunks := (n + grain - 1) / grain
	if !w.IsUnlimited() {
		// One chunk for the caller, plus one per worker.
		numChunks = min(numChunks, w.maxParallelism+1)
	}
	chunkSize := (n + numChunks - 1) / numChunks

	var (
		wg         sync.WaitGroup
		panicOnce  sync.Once
		panicked   bool
		panicValue any
	)
	runChunk := func(start, end int) {
		defer func() {
			if r := recover(); r != nil {
				panicOnce.Do(func() {
					panicked = true
					panicValue = r
				})
			}
		}()
		fn(start, end)
	}
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		if end == n {
			// Last chunk runs in the current goroutine.
			runChunk(start, end)
			break
		}
		wg.Add(1)
		if !w.StartIfAvailable(func() {
			defer wg.Done()
			runChunk(start, end)
		}) {
			runChunk(start, end)
			wg.Done()
		}
	}
	wg.Wait()
	if panicked {
		panic(panicValue)
	}
}
