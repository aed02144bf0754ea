package scheduler

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	reasonDeadlineExceeded = "deadline_exceeded"
	reasonCanceled         = "canceled"
	reasonLocked           = "locked"
	reasonError            = "error"
)

type jobMetrics struct {
	runs     *prometheus.CounterVec
	errors   *prometheus.CounterVec
	timeouts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	indexed  prometheus.Counter
}

func newJobMetrics(reg prometheus.Registerer) (*jobMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &jobMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopcore_scheduler_job_runs_total",
			Help: "Scheduler job runs.",
		}, []string{"job"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopcore_scheduler_job_errors_total",
			Help: "Scheduler job failures by reason.",
		}, []string{"job", "reason"}),
		timeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopcore_scheduler_job_timeouts_total",
			Help: "Scheduler jobs that hit their deadline.",
		}, []string{"job"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopcore_scheduler_job_duration_seconds",
			Help:    "Scheduler job duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
		indexed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shopcore_scheduler_parts_backfilled_total",
			Help: "Parts whose search terms were written by the backfill job.",
		}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.errors, m.timeouts, m.duration, m.indexed} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				return nil, err
			}
			switch existing := already.ExistingCollector.(type) {
			case *prometheus.HistogramVec:
				m.duration = existing
			case prometheus.Counter:
				m.indexed = existing
			case *prometheus.CounterVec:
				switch c {
				case m.runs:
					m.runs = existing
				case m.errors:
					m.errors = existing
				case m.timeouts:
					m.timeouts = existing
				}
			}
		}
	}
	return m, nil
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return reasonDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return reasonCanceled
	default:
		return reasonError
	}
}
