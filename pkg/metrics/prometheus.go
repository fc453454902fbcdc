package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the search pipeline
type Metrics struct {
	RunsStarted       prometheus.Counter
	OffersCollected   prometheus.Counter
	NotificationsSent prometheus.Counter
	RunDuration       prometheus.Histogram
	Errors            *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics under the given namespace,
// registered on the default registerer.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer, namespace)
}

// NewMetricsWith registers the metrics on an explicit registerer.
func NewMetricsWith(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_started_total",
			Help:      "The total number of search runs started",
		}),
		OffersCollected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_collected_total",
			Help:      "The total number of flight offers collected",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "The total number of result notifications delivered",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time taken by a full search run",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors by pipeline operation",
		}, []string{"operation"}),
	}
}
