package engine

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/seantiz/draftbridge/internal/model"
)

// outcomeSuccess labels invocations that returned decoded stdout.
const outcomeSuccess = "success"

var (
	invocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draftbridge_engine_invocations_total",
			Help: "Total number of engine invocations by outcome.",
		},
		[]string{"outcome"},
	)

	invocationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "draftbridge_engine_invocation_seconds",
			Help:    "Engine invocation duration from resolve to exit, in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(invocationsTotal)
	prometheus.MustRegister(invocationDuration)

	// Pre-initialize outcome labels so they appear in /metrics with value 0
	// from startup, rather than only after first observation.
	for _, outcome := range []string{
		outcomeSuccess,
		model.KindDirectoryNotFound,
		model.KindLaunchFailure,
		model.KindExecutionFailure,
		model.KindDecodeFailure,
	} {
		invocationsTotal.WithLabelValues(outcome)
	}
}
