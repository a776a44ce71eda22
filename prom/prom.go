// Package prom exports ballmap metrics to Prometheus.
//
//	collector := prom.NewCollector(prometheus.DefaultRegisterer)
//	mapper := ballmap.New(ballmap.WithMetricsCollector(collector))
package prom

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/ballmap"
)

// Namespace prefixes every metric name.
const Namespace = "ballmap"

// Collector implements ballmap.MetricsCollector with Prometheus counters and
// histograms. It additionally records HTTP request metrics for the server.
type Collector struct {
	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	buildPoints   prometheus.Histogram
	buildNodes    prometheus.Histogram

	nearest         *prometheus.CounterVec
	nearestDuration prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var _ ballmap.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg leaves the metrics unregistered.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "builds_total",
			Help:      "Total number of graph builds by outcome.",
		}, []string{"status"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "build_duration_seconds",
			Help:      "Graph build duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		buildPoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "build_points",
			Help:      "Number of points per successful graph build.",
			Buckets:   prometheus.ExponentialBuckets(8, 4, 8),
		}),
		buildNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "build_nodes",
			Help:      "Number of nodes per simplified graph.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		nearest: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "nearest_total",
			Help:      "Total number of nearest-feature lookups by outcome.",
		}, []string{"status"}),
		nearestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "nearest_duration_seconds",
			Help:      "Nearest-feature lookup duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	if reg != nil {
		reg.MustRegister(
			c.builds, c.buildDuration, c.buildPoints, c.buildNodes,
			c.nearest, c.nearestDuration,
			c.httpRequests, c.httpDuration,
		)
	}
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordBuild implements ballmap.MetricsCollector.
func (c *Collector) RecordBuild(points, nodes int, d time.Duration, err error) {
	c.builds.WithLabelValues(status(err)).Inc()
	c.buildDuration.Observe(d.Seconds())
	if err == nil {
		c.buildPoints.Observe(float64(points))
		c.buildNodes.Observe(float64(nodes))
	}
}

// RecordNearest implements ballmap.MetricsCollector.
func (c *Collector) RecordNearest(_ int, d time.Duration, err error) {
	c.nearest.WithLabelValues(status(err)).Inc()
	c.nearestDuration.Observe(d.Seconds())
}

// RecordHTTP records one served request. route is the route pattern, not the raw path.
func (c *Collector) RecordHTTP(method, route string, code int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
