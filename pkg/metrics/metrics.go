// Package metrics collects Prometheus metrics for analyses, trend verdicts
// and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unowned-ai/skinlog/pkg/skincare"
)

// Recorder is what the MCP and HTTP layers report to.
type Recorder interface {
	RecordAnalysis(a skincare.Analysis)
	RecordTrend(t skincare.Trend)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(d time.Duration)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	analyses       *prometheus.CounterVec
	recognized     prometheus.Counter
	unrecognized   prometheus.Counter
	trends         *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skinlog_analyses_total",
			Help: "Ingredient analyses by resulting assessment.",
		}, []string{"assessment"}),
		recognized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skinlog_recognized_ingredients_total",
			Help: "Ingredients matched against the dictionary.",
		}),
		unrecognized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skinlog_unrecognized_tokens_total",
			Help: "Parsed tokens that matched no dictionary ingredient.",
		}),
		trends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skinlog_trend_verdicts_total",
			Help: "Trend comparisons by verdict.",
		}, []string{"trend"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skinlog_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skinlog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.analyses,
		c.recognized,
		c.unrecognized,
		c.trends,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

func (c *Collector) RecordAnalysis(a skincare.Analysis) {
	c.analyses.WithLabelValues(string(a.Verdict.Assessment)).Inc()
	c.recognized.Add(float64(len(a.Recognized)))
	c.unrecognized.Add(float64(len(a.Unrecognized)))
}

func (c *Collector) RecordTrend(t skincare.Trend) {
	c.trends.WithLabelValues(string(t)).Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordRequestLatency(d time.Duration) {
	c.requestLatency.Observe(d.Seconds())
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordAnalysis(skincare.Analysis)   {}
func (Nop) RecordTrend(skincare.Trend)         {}
func (Nop) RecordHTTPStatus(int)               {}
func (Nop) RecordRequestLatency(time.Duration) {}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
