// Package metrics collects and exposes Prometheus metrics for the GraphQL
// server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is the metrics interface used by the resolver and transport
// layers.
type Collector interface {
	RecordOperation(kind string)
	RecordAuthFailure()
	RecordBookAdded()
	RecordEventPublished()
	SetSubscribers(n int)
}

// PrometheusCollector registers and updates Prometheus metrics.
type PrometheusCollector struct {
	operations      *prometheus.CounterVec
	authFailures    prometheus.Counter
	booksAdded      prometheus.Counter
	eventsPublished prometheus.Counter
	subscribers     prometheus.Gauge
}

// NewPrometheusCollector creates a collector and registers its metrics with
// the given registry.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "librarium_graphql_operations_total",
			Help: "GraphQL operations executed, by kind (query/mutation/subscription).",
		}, []string{"kind"}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "librarium_auth_failures_total",
			Help: "Requests rejected for missing or invalid credentials.",
		}),
		booksAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "librarium_books_added_total",
			Help: "Books created through the addBook mutation.",
		}),
		eventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "librarium_events_published_total",
			Help: "Events published to the notification channel.",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "librarium_subscribers",
			Help: "Currently connected bookAdded subscribers.",
		}),
	}

	reg.MustRegister(
		c.operations,
		c.authFailures,
		c.booksAdded,
		c.eventsPublished,
		c.subscribers,
	)

	return c
}

func (c *PrometheusCollector) RecordOperation(kind string) {
	c.operations.WithLabelValues(kind).Inc()
}

func (c *PrometheusCollector) RecordAuthFailure() {
	c.authFailures.Inc()
}

func (c *PrometheusCollector) RecordBookAdded() {
	c.booksAdded.Inc()
}

func (c *PrometheusCollector) RecordEventPublished() {
	c.eventsPublished.Inc()
}

func (c *PrometheusCollector) SetSubscribers(n int) {
	c.subscribers.Set(float64(n))
}

// Handler returns the HTTP handler serving the registry in the Prometheus
// exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Nop is a Collector that discards everything. Useful in tests.
type Nop struct{}

func (Nop) RecordOperation(string) {}
func (Nop) RecordAuthFailure()     {}
func (Nop) RecordBookAdded()       {}
func (Nop) RecordEventPublished()  {}
func (Nop) SetSubscribers(int)     {}
