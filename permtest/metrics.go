package permtest

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts replicate work. Register it once per process.
type Metrics struct {
	Runs              prometheus.Counter
	Replicates        prometheus.Counter
	ReplicateFailures prometheus.Counter
	ReplicateSeconds  prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "popgen",
			Subsystem: "permtest",
			Name:      "runs_total",
			Help:      "Permutation tests started.",
		}),
		Replicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "popgen",
			Subsystem: "permtest",
			Name:      "replicates_total",
			Help:      "Permuted replicates whose statistic was computed.",
		}),
		ReplicateFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "popgen",
			Subsystem: "permtest",
			Name:      "replicate_failures_total",
			Help:      "Replicates whose statistic returned an error.",
		}),
		ReplicateSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "popgen",
			Subsystem: "permtest",
			Name:      "replicate_seconds",
			Help:      "Time to permute one replicate and compute its statistic.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}

	for _, c := range []prometheus.Collector{m.Runs, m.Replicates, m.ReplicateFailures, m.ReplicateSeconds} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}
