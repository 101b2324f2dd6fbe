package v1

import (
	"github.com/prometheus/client_golang/prometheus"
)

var transitionCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "approval_transitions_total",
		Help: "How many approval transitions were applied, partitioned by resource, stage and outcome.",
	},
	[]string{"resource", "stage", "outcome"},
)

// Metrics returns the Prometheus collectors of this package so that the
// router can register and unregister them.
func Metrics() []prometheus.Collector {
	return []prometheus.Collector{transitionCount}
}

func countTransition(resource, stage string, approved bool) {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}

	transitionCount.WithLabelValues(resource, stage, outcome).Inc()
}
