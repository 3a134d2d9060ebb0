package worker

import (
	"log/slog"
	"sync"

	"github.com/baharkarakas/recipe-api/internal/metrics"
)

type task func()

// Pool runs background tasks on a fixed number of goroutines.
type Pool struct {
	wg     sync.WaitGroup
	jobs   chan task
	log    *slog.Logger
	mu     sync.RWMutex
	closed bool
}

func NewPool(n, queue int, log *slog.Logger) *Pool {
	p := &Pool{jobs: make(chan task, queue), log: log}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
				p.run(job)
			}
		}()
	}
	return p
}

func (p *Pool) run(job task) {
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Error("worker task panic", "err", rec)
		}
	}()
	job()
}

// Submit queues f without blocking. It reports false when the queue is full
// or the pool is stopped, in which case f is dropped.
func (p *Pool) Submit(f func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobs <- f:
		metrics.WorkerQueueDepth.Set(float64(len(p.jobs)))
		return true
	default:
		p.log.Warn("worker queue full, dropping task")
		return false
	}
}

// Stop drains the queue and waits for running tasks.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
