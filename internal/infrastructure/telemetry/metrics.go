package telemetry

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/itemtrack/backend/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "itemtrack"

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics owns the Prometheus registry and the service-level collectors.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Metrics struct {
	namespace string
	registry  *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	bulkOperations *prometheus.CounterVec
	itemsTouched   *prometheus.CounterVec
	claimsLost     *prometheus.CounterVec

	events      *prometheus.CounterVec
	transitions *prometheus.CounterVec

	itemsByStatus *prometheus.GaugeVec
	gaugeRefresh  *prometheus.GaugeVec
}

// NewMetrics creates a registry with Go runtime, process and service collectors
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		namespace: namespace,
		registry:  prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bulkOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "operations_total",
			Help:      "Item operations by outcome. Failed operations are labelled with their error code.",
		}, []string{"operation", "outcome"}),
		itemsTouched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "items_affected_total",
			Help:      "Items created, transitioned or deleted by successful operations.",
		}, []string{"operation"}),
		claimsLost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "claims_lost_total",
			Help:      "Bulk requests that lost selected items to a concurrent request.",
		}, []string{"operation"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Domain events delivered to the metrics subscriber.",
		}, []string{"event_type"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "transitions_total",
			Help:      "Item status transitions by source and target status.",
		}, []string{"from", "to"}),
		itemsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "items",
			Help:      "Current number of items per tenant, item type and status.",
		}, []string{"tenant_id", "item_type_id", "status"}),
		gaugeRefresh: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "gauge_refresh_timestamp_seconds",
			Help:      "Unix time of the last item gauge refresh by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.bulkOperations,
		m.itemsTouched,
		m.claimsLost,
		m.events,
		m.transitions,
		m.itemsByStatus,
		m.gaugeRefresh,
	)
	return m
}

// Registry returns the underlying registry so other collectors can join it
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTPRequest records one served request. route is the matched route
// pattern, never the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordOperation records the outcome of an item operation
func (m *Metrics) RecordOperation(op string, err error, items int) {
	outcome := OutcomeOf(err)
	m.bulkOperations.WithLabelValues(op, outcome).Inc()
	if err == nil && items > 0 {
		m.itemsTouched.WithLabelValues(op).Add(float64(items))
	}
}

// RecordClaimLost records a bulk request that lost a race for its items
func (m *Metrics) RecordClaimLost(op string) {
	m.claimsLost.WithLabelValues(op).Inc()
}

// OutcomeOf maps an error to a bounded label value
func OutcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return OutcomeError
}
