package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/clmmsim/pipeline/pkg/cachekv"
	"github.com/clmmsim/pipeline/pkg/model"
)

// Worker dequeues jobs from a shared channel, invokes the analytics caller
// under a per-cost-class circuit breaker and rate limiter, and publishes
// the result to QualityKV. Grounded on the teacher's pkg/queue/worker.go
// stopCh/sync.WaitGroup shutdown shape, generalized from "poll an ent-backed
// session queue" to "drain a job channel".
type Worker struct {
	id         string
	jobs       <-chan Job
	store      *cachekv.Store
	caller     AnalyticsCaller
	jobTimeout time.Duration
	breakers   map[model.CostClass]*gobreaker.CircuitBreaker
	limiters   map[model.CostClass]*rate.Limiter
	metrics    *Metrics

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWorker builds a Worker reading from jobs, publishing into store via
// caller, sharing breakers/limiters keyed by cost class with its siblings
// in the same WorkerPool. metrics may be nil.
func NewWorker(id string, jobs <-chan Job, store *cachekv.Store, caller AnalyticsCaller, jobTimeout time.Duration, breakers map[model.CostClass]*gobreaker.CircuitBreaker, limiters map[model.CostClass]*rate.Limiter, metrics *Metrics) *Worker {
	return &Worker{
		id:         id,
		jobs:       jobs,
		store:      store,
		caller:     caller,
		jobTimeout: jobTimeout,
		breakers:   breakers,
		limiters:   limiters,
		metrics:    metrics,
		stopCh:     make(chan struct{}),
	}
}

// Start runs the worker's dequeue loop in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop signals the worker to stop after its current job and waits.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()
	log := slog.With("worker_id", w.id)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case job, ok := <-w.jobs:
			if !ok {
				return
			}
			w.process(ctx, job, log)
		}
	}
}

func (w *Worker) process(ctx context.Context, job Job, log *slog.Logger) {
	if lim, ok := w.limiters[job.Descriptor.CostClass]; ok {
		if err := lim.Wait(ctx); err != nil {
			return // shutting down
		}
	}

	if w.metrics != nil {
		w.metrics.WorkerBusy.Inc()
		defer w.metrics.WorkerBusy.Dec()
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	breaker := w.breakers[job.Descriptor.CostClass]
	fetchedAt := time.Now()

	var data any
	var callErr error
	if breaker != nil {
		result, err := breaker.Execute(func() (any, error) {
			return w.caller.Query(jobCtx, job.Descriptor.Method, job.Params)
		})
		data, callErr = result, err
	} else {
		data, callErr = w.caller.Query(jobCtx, job.Descriptor.Method, job.Params)
	}

	env := model.Envelope{
		FetchedAt:     fetchedAt,
		TTLSeconds:    int64(job.Descriptor.TTL.Seconds()),
		MaxAgeSeconds: int64(job.Descriptor.MaxAge.Seconds()),
		Source:        "scheduler",
	}
	if callErr != nil {
		env.OK = false
		env.Error = callErr.Error()
		log.Warn("analytics query failed", "job_id", job.ID, "method", job.Descriptor.Method, "error", callErr)
		// Stale-while-revalidate: a failed refresh must not clobber a good
		// envelope. Only publish the failure if nothing usable exists yet.
		if existing, ok := w.store.Get(job.Key); ok && existing.OK {
			return
		}
	} else {
		env.OK = true
		env.Data = data
	}

	if err := w.store.Set(job.Key, env); err != nil {
		log.Error("failed to publish envelope", "job_id", job.ID, "key", job.Key, "error", err)
	}
}
