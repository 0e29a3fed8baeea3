package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus metrics exposed by the development backend.
// All collectors are registered on the supplied registry at construction.
type Metrics struct {
	// RequestsTotal counts HTTP requests by method, route pattern, and status code.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes request handling duration in seconds by route pattern.
	RequestDuration *prometheus.HistogramVec

	// SearchesTotal counts search requests.
	SearchesTotal prometheus.Counter

	// PapersSaved counts successful paper save mutations.
	PapersSaved prometheus.Counter

	// PapersDeleted counts successful paper delete mutations.
	PapersDeleted prometheus.Counter

	// ListsCreated counts reading lists created.
	ListsCreated prometheus.Counter

	// ListsDeleted counts reading lists deleted.
	ListsDeleted prometheus.Counter
}

// NewMetrics creates and registers metrics under the given namespace using
// the default registry.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates and registers metrics on a specific registry.
// Tests pass a fresh registry to avoid duplicate-registration panics.
func NewMetricsWithRegistry(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests handled, by method, route, and status.",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request handling duration in seconds, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		SearchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total paper searches executed.",
		}),

		PapersSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_saved_total",
			Help:      "Total papers saved to the collection.",
		}),

		PapersDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_deleted_total",
			Help:      "Total papers deleted from the collection.",
		}),

		ListsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reading_lists_created_total",
			Help:      "Total reading lists created.",
		}),

		ListsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reading_lists_deleted_total",
			Help:      "Total reading lists deleted.",
		}),
	}
}
