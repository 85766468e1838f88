package metrics

import (
	"github.com/dd0wney/slony-exporter/pkg/slony"
)

// Apply writes snap onto the surface. Every write is a Set, so applying the
// same snapshot again leaves the gauges unchanged. Confirmation values that
// are missing leave their series untouched rather than zeroing them.
//
// Values are stored as float64; sequence numbers above 2^53 lose precision.
func Apply(snap *slony.Snapshot, r *Registry) {
	if snap == nil || r == nil {
		return
	}

	node := nodeLabel(snap.NodeID())

	r.LastEvent.WithLabelValues(node).Set(float64(snap.LastEventID()))
	r.LastEventTimestamp.WithLabelValues(node).Set(float64(snap.LastEventTimestamp()))

	for _, c := range snap.Confirms() {
		receiver := nodeLabel(c.Receiver)
		if c.LastConfirmedEvent != nil {
			r.ConfirmedEvent.WithLabelValues(node, receiver).Set(float64(*c.LastConfirmedEvent))
		}
		if c.LastConfirmedTimestamp != nil {
			r.ConfirmedEventTimestamp.WithLabelValues(node, receiver).Set(float64(*c.LastConfirmedTimestamp))
		}
	}

	for _, in := range snap.Incoming() {
		origin := nodeLabel(in.Origin)
		r.ReceivedEvent.WithLabelValues(node, origin).Set(float64(in.LastEventID))
		r.ReceivedEventTimestamp.WithLabelValues(node, origin).Set(float64(in.LastEventTimestamp))
	}
}
