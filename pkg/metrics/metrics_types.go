package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Label names of the replication gauges
const (
	LabelNode     = "slony_node"
	LabelReceiver = "slony_receiver"
	LabelOrigin   = "slony_origin"
)

// Registry is the metric surface of the exporter: six gauges describing how
// far a node's events have been generated, confirmed and received. It is
// created once at startup and shared by every scrape.
type Registry struct {
	// Events generated by the node
	LastEvent          *prometheus.GaugeVec
	LastEventTimestamp *prometheus.GaugeVec

	// Confirmations from each receiver of the node's events
	ConfirmedEvent          *prometheus.GaugeVec
	ConfirmedEventTimestamp *prometheus.GaugeVec

	// Events the node received from each remote origin
	ReceivedEvent          *prometheus.GaugeVec
	ReceivedEventTimestamp *prometheus.GaugeVec

	registry *prometheus.Registry
}

// SelfMetrics instruments the exporter itself. It lives on its own registry
// so the replication surface stays exactly six metric families.
type SelfMetrics struct {
	// Scrape Metrics
	ScrapesTotal      *prometheus.CounterVec
	ScrapeErrorsTotal *prometheus.CounterVec
	ScrapeDuration    prometheus.Histogram
	OriginSets        *prometheus.GaugeVec

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// System Metrics
	UptimeSeconds prometheus.GaugeFunc

	registry *prometheus.Registry
}

// Scrape results recorded in slony_exporter_scrapes_total
const (
	ScrapeSuccess = "success"
	ScrapeError   = "error"
	ScrapeSkipped = "skipped" // inside the minimum scrape interval
	ScrapeShared  = "shared"  // joined a concurrent fetch
)
