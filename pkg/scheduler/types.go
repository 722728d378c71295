// Package scheduler implements the background refresh loop (spec.md §4.5):
// a control loop that ticks at a configurable interval, computes the needed
// query plan against the active pool set and the Registry, and dispatches
// work to a bounded worker pool, filling QualityKV stale-while-revalidate.
//
// Grounded on the teacher's pkg/queue worker-pool shape (stopCh/sync.Once/
// sync.WaitGroup, a fixed worker count polling a shared source of work) —
// generalized from "poll an ent-backed session queue" to "tick, plan,
// enqueue, dispatch".
package scheduler

import (
	"context"
	"time"

	"github.com/clmmsim/pipeline/pkg/model"
	"github.com/clmmsim/pipeline/pkg/registry"
)

// AnalyticsCaller is the external analytics backend contract (spec.md §6):
// opaque, queried only by the Scheduler.
type AnalyticsCaller interface {
	Query(ctx context.Context, method string, params map[string]string) (any, error)
}

// Job is one dispatchable unit of work: refresh the envelope for one
// canonical query key.
type Job struct {
	ID         string // correlation id (uuid), distinct from Key
	Descriptor registry.Descriptor
	Key        string
	Params     map[string]string
	Reason     model.Quality // the key's quality at plan time: missing/stale/too_old, or fresh for a trigger-forced key
}
