package scheduler

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes the Scheduler's Prometheus instruments (spec.md §4.8),
// grounded on 99souls-ariadne/engine/telemetry's counter/gauge registration
// style.
type Metrics struct {
	TickDuration   prometheus.Histogram
	JobsDispatched *prometheus.CounterVec // by reason (missing/stale/too_old, fresh when trigger-forced)
	JobsDropped    prometheus.Counter
	WorkerBusy     prometheus.Gauge
	TriggerDepth   prometheus.Gauge
}

// NewMetrics registers the Scheduler's instruments against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "clmm_scheduler_tick_duration_seconds",
			Help: "Duration of one scheduler tick.",
		}),
		JobsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clmm_scheduler_jobs_dispatched_total",
			Help: "Jobs dispatched to the worker pool, by reason.",
		}, []string{"reason"}),
		JobsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clmm_scheduler_jobs_dropped_total",
			Help: "Jobs dropped due to a full queue.",
		}),
		WorkerBusy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clmm_scheduler_worker_busy",
			Help: "Workers currently processing a job.",
		}),
		TriggerDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clmm_scheduler_trigger_queue_depth",
			Help: "Triggers drained in the most recent tick.",
		}),
	}
	reg.MustRegister(m.TickDuration, m.JobsDispatched, m.JobsDropped, m.WorkerBusy, m.TriggerDepth)
	return m
}
