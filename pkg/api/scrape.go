package api

import (
	"context"
	"time"

	"github.com/dd0wney/slony-exporter/pkg/logging"
	"github.com/dd0wney/slony-exporter/pkg/metrics"
	"github.com/dd0wney/slony-exporter/pkg/slony"
)

const fetchKey = "fetch"

// scrape brings the surface up to date for one request. A client that goes
// away does not cancel the fetch it started.
func (s *Server) scrape(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	if s.recentlyFetched() {
		s.self.RecordScrape(metrics.ScrapeSkipped, 0)
		loggerFrom(ctx, s.logger).Debug("fetch skipped, inside minimum scrape interval")
		return nil
	}

	if !s.opts.Coalesce {
		return s.fetchAndApply(ctx)
	}

	// singleflight reports shared to the caller that ran the fetch too
	led := false
	_, err, shared := s.group.Do(fetchKey, func() (any, error) {
		led = true
		return nil, s.fetchAndApply(ctx)
	})
	if shared && !led {
		s.self.RecordScrape(metrics.ScrapeShared, 0)
	}
	return err
}

// fetchAndApply fetches a snapshot and writes it onto the surface. Nothing
// is written when the fetch fails.
func (s *Server) fetchAndApply(ctx context.Context) error {
	log := loggerFrom(ctx, s.logger)
	start := s.now()

	snap, err := s.fetcher.Fetch(ctx)
	elapsed := s.now().Sub(start)
	if err != nil {
		s.self.RecordScrape(metrics.ScrapeError, elapsed)
		s.self.RecordScrapeError(slony.KindOf(err).String())
		return err
	}

	metrics.Apply(snap, s.registry)
	s.self.SetOriginSets(snap.NodeID(), len(snap.OriginSets()))
	s.self.RecordScrape(metrics.ScrapeSuccess, elapsed)
	s.lastSuccess.Store(s.now().UnixNano())

	log.Debug("snapshot applied",
		logging.Node(snap.NodeID()),
		logging.Int64("last_event", snap.LastEventID()),
		logging.Latency(elapsed),
	)
	return nil
}

func (s *Server) recentlyFetched() bool {
	if s.opts.MinInterval <= 0 {
		return false
	}
	last := s.lastSuccess.Load()
	if last == 0 {
		return false
	}
	return s.now().Sub(time.Unix(0, last)) < s.opts.MinInterval
}
