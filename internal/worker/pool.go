// Package worker runs batch scoring: a fixed pool of goroutines scores
// companies concurrently, and per-record failures are collected next to
// successful results instead of aborting the batch.
package worker

import (
	"context"
	"sync"
)

// Job is one unit of scoring work.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job, successful or not.
type Result interface {
	GetError() error
}

// Pool fans jobs out over a fixed number of workers. Results arrive in
// completion order; batch semantics must not depend on it.
type Pool struct {
	workers int
	jobs    chan Job

	mu      sync.Mutex
	results []Result

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a pool with the given number of workers, at least one.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			p.mu.Lock()
			p.results = append(p.results, result)
			p.mu.Unlock()
		}
	}
}

// Submit queues a job. Submissions after shutdown are dropped.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for the workers to drain it, and returns
// every collected result.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}

// Shutdown cancels in-flight work and waits for the workers to exit.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
