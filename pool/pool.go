// ABOUTME: Simple worker pool for parallelizing batch tasks
// ABOUTME: Provides the submit-and-wait pattern used when reading tags for playlist entries

// Package pool runs batches of independent tasks on a fixed set of goroutines.
package pool

import (
	"runtime"
	"sync"
)

// WorkerPool manages a pool of worker goroutines for parallel task execution
type WorkerPool struct {
	workers  int
	taskChan chan func()
	workerWg sync.WaitGroup // tracks worker goroutines lifetime
	taskWg   sync.WaitGroup // tracks submitted tasks completion
	closed   sync.Once
}

// NewWorkerPool creates a worker pool with the given number of workers
// A non-positive worker count sizes the pool to available CPUs.
// The bufferSize determines the task channel capacity
func NewWorkerPool(workers, bufferSize int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if bufferSize < 0 {
		bufferSize = 0
	}

	p := &WorkerPool{
		workers:  workers,
		taskChan: make(chan func(), bufferSize),
	}

	for range workers {
		p.workerWg.Add(1)

		go func() {
			defer p.workerWg.Done()

			for task := range p.taskChan {
				p.run(task)
			}
		}()
	}

	return p
}

// run executes one task and marks it done
func (p *WorkerPool) run(task func()) {
	defer p.taskWg.Done()

	task()
}

// Workers returns the number of worker goroutines
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Submit adds a task to the pool
// Blocks if the task channel is full
func (p *WorkerPool) Submit(task func()) {
	p.taskWg.Add(1)
	p.taskChan <- task
}

// Wait blocks until all submitted tasks have completed
func (p *WorkerPool) Wait() {
	p.taskWg.Wait()
}

// Close shuts down the worker pool and waits for all workers to exit
// Safe to call more than once
func (p *WorkerPool) Close() {
	p.closed.Do(func() {
		close(p.taskChan)
	})
	p.workerWg.Wait()
}
