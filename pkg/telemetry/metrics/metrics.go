// Package metrics exposes Prometheus metrics for the service: HTTP
// request accounting, completion token usage, and configuration
// lifecycle events.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "metaweb"

// Collector holds the service's Prometheus metrics and their registry.
//
// Metrics:
//   - metaweb_requests_total: HTTP request count by method, path, status
//   - metaweb_request_duration_seconds: HTTP request duration histogram
//   - metaweb_completion_tokens_total: Upstream token usage by model, type
//   - metaweb_config_publishes_total: Configuration publish count
//   - metaweb_active_config_version: Version number of the active config
//   - metaweb_config_consistency_anomalies_total: Multiple-active detections
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	completionTokens *prometheus.CounterVec

	configPublishes      prometheus.Counter
	activeConfigVersion  prometheus.Gauge
	consistencyAnomalies prometheus.Counter
}

// NewCollector creates and registers the service metrics. A nil registry
// gets a fresh one, which keeps tests isolated from each other.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		completionTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "completion_tokens_total",
				Help:      "Total upstream tokens by model and type",
			},
			[]string{"model", "type"},
		),

		configPublishes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_publishes_total",
				Help:      "Total number of configuration publishes",
			},
		),

		activeConfigVersion: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_config_version",
				Help:      "Version number of the active configuration (0 when defaults apply)",
			},
		),

		consistencyAnomalies: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_consistency_anomalies_total",
				Help:      "Times more than one configuration row was found active",
			},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.completionTokens,
		c.configPublishes,
		c.activeConfigVersion,
		c.consistencyAnomalies,
	)

	return c
}

// RecordRequest records one completed HTTP request.
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	c.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTokens records upstream token usage for one completion.
func (c *Collector) RecordTokens(model string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		c.completionTokens.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		c.completionTokens.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
}

// RecordPublish records a successful configuration publish.
func (c *Collector) RecordPublish(activeVersion int) {
	c.configPublishes.Inc()
	c.activeConfigVersion.Set(float64(activeVersion))
}

// RecordConsistencyAnomaly records a multiple-active detection.
func (c *Collector) RecordConsistencyAnomaly() {
	c.consistencyAnomalies.Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
