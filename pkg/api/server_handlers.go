package api

import (
	"net/http"

	"github.com/dd0wney/slony-exporter/pkg/logging"
	"github.com/dd0wney/slony-exporter/pkg/slony"
)

// handleScrape runs one fetch-map-render cycle. A failed fetch answers 500
// with the error message as the body and leaves the gauges as they were.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if err := s.scrape(r.Context()); err != nil {
		loggerFrom(r.Context(), s.logger).Warn("scrape failed",
			logging.Kind(slony.KindOf(err).String()),
			logging.Error(err),
		)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.render.ServeHTTP(w, r)
}
