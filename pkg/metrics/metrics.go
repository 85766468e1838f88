package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NewRegistry creates the replication metric surface on a private
// Prometheus registry
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initSlonyMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// NewSelfMetrics creates the exporter's own metrics. start is the process
// start time used for the uptime gauge.
func NewSelfMetrics(start time.Time) *SelfMetrics {
	s := &SelfMetrics{
		registry: prometheus.NewRegistry(),
	}
	s.initScrapeMetrics()
	s.initHTTPMetrics()
	s.initSystemMetrics(start)
	return s
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (s *SelfMetrics) GetPrometheusRegistry() *prometheus.Registry {
	return s.registry
}

// Gatherers returns what a scrape renders: the surface, followed by the self
// metrics when they are enabled (self may be nil)
func Gatherers(r *Registry, self *SelfMetrics) prometheus.Gatherers {
	g := prometheus.Gatherers{r.registry}
	if self != nil {
		g = append(g, self.registry)
	}
	return g
}

// The recording helpers below are no-ops on a nil *SelfMetrics, so callers
// do not need to check whether self metrics are enabled.

// RecordScrape records the outcome and duration of one scrape
func (s *SelfMetrics) RecordScrape(result string, duration time.Duration) {
	if s == nil {
		return
	}
	s.ScrapesTotal.WithLabelValues(result).Inc()
	if result == ScrapeSuccess || result == ScrapeError {
		s.ScrapeDuration.Observe(duration.Seconds())
	}
}

// RecordScrapeError counts a failed fetch by error kind
func (s *SelfMetrics) RecordScrapeError(kind string) {
	if s == nil {
		return
	}
	s.ScrapeErrorsTotal.WithLabelValues(kind).Inc()
}

// SetOriginSets records how many sets node originates
func (s *SelfMetrics) SetOriginSets(node int32, count int) {
	if s == nil {
		return
	}
	s.OriginSets.WithLabelValues(nodeLabel(node)).Set(float64(count))
}

// RecordHTTPRequest records an HTTP request with its duration
func (s *SelfMetrics) RecordHTTPRequest(method, status string, duration time.Duration) {
	if s == nil {
		return
	}
	s.HTTPRequestsTotal.WithLabelValues(method, status).Inc()
	s.HTTPRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns its decrement
func (s *SelfMetrics) TrackInFlight() func() {
	if s == nil {
		return func() {}
	}
	s.HTTPRequestsInFlight.Inc()
	return s.HTTPRequestsInFlight.Dec
}

func nodeLabel(id int32) string {
	return strconv.FormatInt(int64(id), 10)
}
