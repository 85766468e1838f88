package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSlonyMetrics() {
	r.LastEvent = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slony_last_event",
			Help: "The last event generated",
		},
		[]string{LabelNode},
	)

	r.LastEventTimestamp = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slony_last_event_timestamp",
			Help: "The timestamp of the last generated event",
		},
		[]string{LabelNode},
	)

	r.ConfirmedEvent = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slony_confirmed_event",
			Help: "The last event of the node confirmed by a receiver",
		},
		[]string{LabelNode, LabelReceiver},
	)

	r.ConfirmedEventTimestamp = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slony_confirmed_event_timestamp",
			Help: "The timestamp of the last event replicated and confirmed",
		},
		[]string{LabelNode, LabelReceiver},
	)

	r.ReceivedEvent = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slony_received_event",
			Help: "The last event received from a remote node",
		},
		[]string{LabelNode, LabelOrigin},
	)

	r.ReceivedEventTimestamp = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slony_received_event_timestamp",
			Help: "The timestamp of the last event replicated to this node from a remote node",
		},
		[]string{LabelNode, LabelOrigin},
	)
}
