package allocation

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics lists the collectors of the allocation engine. They are
// registered by the router.
var Metrics = []prometheus.Collector{
	decisionCount,
	retryCount,
}

var decisionCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "allocation_decisions_total",
		Help: "How many contribution writes were decided, partitioned by category and outcome.",
	},
	[]string{"category", "outcome"},
)

var retryCount = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "allocation_commit_retries_total",
		Help: "How many ledger commits were retried after a concurrent change.",
	},
)

func observe(category string, err error) {
	outcome := "accepted"
	if err != nil {
		outcome = Kind(err)
	}

	decisionCount.WithLabelValues(category, outcome).Inc()
}
