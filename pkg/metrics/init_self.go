package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (s *SelfMetrics) initScrapeMetrics() {
	s.ScrapesTotal = promauto.With(s.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "slony_exporter_scrapes_total",
			Help: "Total number of scrapes by result",
		},
		[]string{"result"}, // success, error, skipped, shared
	)

	s.ScrapeErrorsTotal = promauto.With(s.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "slony_exporter_scrape_errors_total",
			Help: "Total number of failed fetches by error kind",
		},
		[]string{"kind"},
	)

	s.ScrapeDuration = promauto.With(s.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "slony_exporter_scrape_duration_seconds",
			Help:    "Time spent fetching the replication status",
			Buckets: prometheus.DefBuckets,
		},
	)

	s.OriginSets = promauto.With(s.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slony_exporter_origin_sets",
			Help: "Number of replication sets the node is origin of",
		},
		[]string{LabelNode},
	)
}

func (s *SelfMetrics) initHTTPMetrics() {
	s.HTTPRequestsTotal = promauto.With(s.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "slony_exporter_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	s.HTTPRequestDuration = promauto.With(s.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slony_exporter_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	s.HTTPRequestsInFlight = promauto.With(s.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "slony_exporter_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

func (s *SelfMetrics) initSystemMetrics(start time.Time) {
	s.UptimeSeconds = promauto.With(s.registry).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "slony_exporter_uptime_seconds",
			Help: "Time since the exporter started in seconds",
		},
		func() float64 { return time.Since(start).Seconds() },
	)

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}
