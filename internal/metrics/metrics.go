package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Donations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "becs_donations_total",
		Help: "Accepted blood donations.",
	})

	Distributions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "becs_distributions_total",
		Help: "Distribution requests by kind and outcome.",
	}, []string{"kind", "outcome"})

	ArchiveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "becs_archive_failures_total",
		Help: "Transactions that could not be written to the durable archive.",
	})
)
