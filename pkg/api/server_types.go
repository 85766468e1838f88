package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dd0wney/slony-exporter/pkg/logging"
	"github.com/dd0wney/slony-exporter/pkg/metrics"
	"github.com/dd0wney/slony-exporter/pkg/slony"
)

// StatusFetcher produces a fresh replication snapshot. *slony.Fetcher
// implements it.
type StatusFetcher interface {
	Fetch(ctx context.Context) (*slony.Snapshot, error)
}

// Options tune how scrapes share work. The zero value fetches on every
// request.
type Options struct {
	// Coalesce lets concurrent scrapes wait for one in-flight fetch
	Coalesce bool
	// MinInterval skips the fetch for scrapes arriving sooner than this
	// after the last successful fetch
	MinInterval time.Duration
}

// Server handles the exporter's single route
type Server struct {
	fetcher  StatusFetcher
	registry *metrics.Registry
	self     *metrics.SelfMetrics // nil when self metrics are disabled
	logger   logging.Logger
	opts     Options

	render http.Handler
	group  singleflight.Group

	lastSuccess atomic.Int64 // unix nanos of the last successful fetch
	now         func() time.Time
}
