package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/clmmsim/pipeline/pkg/cachekv"
	"github.com/clmmsim/pipeline/pkg/model"
)

// WorkerPool manages a fixed set of Workers reading from a single bounded
// job channel (spec.md §4.5 "Worker pool"). Grounded on the teacher's
// pkg/queue/pool.go (stopCh/sync.Once/sync.WaitGroup shutdown shape over a
// fixed worker count).
type WorkerPool struct {
	workers []*Worker
	jobs    chan Job

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
}

// NewWorkerPool builds a WorkerPool of workerCount workers sharing a job
// channel of the given capacity, one circuit breaker and rate limiter per
// cost class. metrics may be nil, in which case no instrumentation is
// recorded.
func NewWorkerPool(workerCount, queueCapacity int, store *cachekv.Store, caller AnalyticsCaller, jobTimeout time.Duration, backendRatePerSecond float64, backendRateBurst int, metrics *Metrics) *WorkerPool {
	jobs := make(chan Job, queueCapacity)

	breakers := map[model.CostClass]*gobreaker.CircuitBreaker{}
	limiters := map[model.CostClass]*rate.Limiter{}
	for _, cc := range []model.CostClass{model.CostCheap, model.CostMedium, model.CostExpensive} {
		breakers[cc] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    fmt.Sprintf("analytics-%s", cc),
			Timeout: 30 * time.Second,
		})
		limiters[cc] = rate.NewLimiter(rate.Limit(backendRatePerSecond), backendRateBurst)
	}

	p := &WorkerPool{jobs: jobs, stopCh: make(chan struct{})}
	for i := 0; i < workerCount; i++ {
		w := NewWorker(fmt.Sprintf("scheduler-worker-%d", i), jobs, store, caller, jobTimeout, breakers, limiters, metrics)
		p.workers = append(p.workers, w)
	}
	return p
}

// Start launches every worker's dequeue loop. Safe to call once.
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	for _, w := range p.workers {
		w.Start(ctx)
	}
}

// Dispatch enqueues jobs onto the bounded channel in order. Surplus beyond
// the channel's capacity is dropped rather than queued unboundedly (spec.md
// §4.5 "surplus items are dropped and recomputed next tick"); the dropped
// count is returned for metrics/logging.
func (p *WorkerPool) Dispatch(jobs []Job) (dropped int) {
	for _, j := range jobs {
		select {
		case p.jobs <- j:
		default:
			dropped++
		}
	}
	return dropped
}

// Stop signals every worker to stop after its in-flight job and waits, up
// to grace, for all of them to finish (spec.md §4.5 "Run-forever" /
// bounded drain).
func (p *WorkerPool) Stop(grace time.Duration) {
	p.stopOnce.Do(func() {
		done := make(chan struct{})
		go func() {
			for _, w := range p.workers {
				w.Stop()
			}
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(grace):
		}
	})
}
