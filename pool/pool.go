// ABOUTME: Small worker pool for running fallible tasks in parallel
// ABOUTME: Submit-and-wait pattern; Wait joins the errors returned by tasks

package pool

import (
	"errors"
	"runtime"
	"sync"
)

// WorkerPool manages a fixed set of worker goroutines
type WorkerPool struct {
	workers  int
	taskChan chan func() error
	workerWg sync.WaitGroup // tracks worker goroutines lifetime
	taskWg   sync.WaitGroup // tracks submitted tasks completion

	mu   sync.Mutex
	errs []error
}

// NewWorkerPool starts a pool with the given number of workers.
// workers <= 0 sizes the pool to the available CPUs.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		workers:  workers,
		taskChan: make(chan func() error, workers*2),
	}

	for range workers {
		pool.workerWg.Add(1)

		go func() {
			defer pool.workerWg.Done()

			for task := range pool.taskChan {
				if err := task(); err != nil {
					pool.mu.Lock()
					pool.errs = append(pool.errs, err)
					pool.mu.Unlock()
				}

				pool.taskWg.Done()
			}
		}()
	}

	return pool
}

// Workers returns the number of worker goroutines
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Submit queues a task. Blocks if the queue is full.
func (p *WorkerPool) Submit(task func() error) {
	p.taskWg.Add(1)
	p.taskChan <- task
}

// Wait blocks until every submitted task has finished and returns their
// errors joined, or nil. The collected errors are reset.
func (p *WorkerPool) Wait() error {
	p.taskWg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()

	err := errors.Join(p.errs...)
	p.errs = nil

	return err
}

// Close shuts down the worker pool and waits for all workers to exit
func (p *WorkerPool) Close() {
	close(p.taskChan)
	p.workerWg.Wait()
}
