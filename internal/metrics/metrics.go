package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private prometheus registry so tests can build as many as
// they like without clashing on the default registerer.
type Collector struct {
	registry          *prometheus.Registry
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	leaveTransitions  *prometheus.CounterVec
	outboxPublished   *prometheus.CounterVec
	reportCacheShared prometheus.Counter
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		leaveTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leave_status_transitions_total",
			Help: "Leave request status transitions by target status.",
		}, []string{"status"}),
		outboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_events_published_total",
			Help: "Outbox events handed to kafka by result.",
		}, []string{"result"}),
		reportCacheShared: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "report_requests_coalesced_total",
			Help: "Monthly report requests served by an in-flight identical query.",
		}),
	}

	registry.MustRegister(
		c.requests,
		c.requestDuration,
		c.leaveTransitions,
		c.outboxPublished,
		c.reportCacheShared,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveRequest(method, route, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(method, route, status).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) LeaveTransition(status string) {
	if c == nil {
		return
	}
	c.leaveTransitions.WithLabelValues(status).Inc()
}

func (c *Collector) OutboxPublished(ok bool) {
	if c == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	c.outboxPublished.WithLabelValues(result).Inc()
}

func (c *Collector) ReportCoalesced() {
	if c == nil {
		return
	}
	c.reportCacheShared.Inc()
}
