package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/slony-exporter/pkg/logging"
	"github.com/dd0wney/slony-exporter/pkg/metrics"
)

// NewServer creates the request handler. registry is the process-wide metric
// surface; self may be nil.
func NewServer(fetcher StatusFetcher, registry *metrics.Registry, self *metrics.SelfMetrics, logger logging.Logger, opts Options) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Server{
		fetcher:  fetcher,
		registry: registry,
		self:     self,
		logger:   logger.With(logging.Component("api")),
		opts:     opts,
		render: promhttp.HandlerFor(metrics.Gatherers(registry, self), promhttp.HandlerOpts{
			ErrorHandling: promhttp.HTTPErrorOnError,
		}),
		now: time.Now,
	}
}

// Handler returns the HTTP handler. Every path and method reaches the scrape
// handler; there is one logical route.
func (s *Server) Handler() http.Handler {
	var h http.Handler = http.HandlerFunc(s.handleScrape)

	// Apply middleware (order matters: last applied = first executed)
	h = s.metricsMiddleware(h)
	h = s.loggingMiddleware(h)
	h = s.requestIDMiddleware(h)
	h = s.panicRecoveryMiddleware(h)
	return h
}
