// Package slony reads the replication status of one Slony-I node.
//
// A Fetcher opens a single connection to the node's database, runs four
// read-only queries against the cluster schema and assembles a Snapshot.
// Snapshots are built once per fetch and are not shared or cached.
package slony

// Snapshot is one node's replication status at scrape time
type Snapshot struct {
	nodeID             int32
	lastEventID        int64
	lastEventTimestamp int64
	confirms           []Confirm
	incoming           []Incoming
	originSets         []int32
}

// Confirm is the latest acknowledgment a receiver recorded for this node's
// events. Sequence number and timestamp are independently nullable.
type Confirm struct {
	Receiver               int32
	LastConfirmedEvent     *int64
	LastConfirmedTimestamp *int64
}

// Incoming is the latest event this node holds from a remote origin
type Incoming struct {
	Origin             int32
	LastEventID        int64
	LastEventTimestamp int64
}

// NewSnapshot creates a snapshot. The collections are copied, so callers may
// reuse their slices afterwards.
func NewSnapshot(nodeID int32, lastEventID, lastEventTimestamp int64, confirms []Confirm, incoming []Incoming, originSets []int32) *Snapshot {
	return &Snapshot{
		nodeID:             nodeID,
		lastEventID:        lastEventID,
		lastEventTimestamp: lastEventTimestamp,
		confirms:           cloneConfirms(confirms),
		incoming:           append([]Incoming(nil), incoming...),
		originSets:         append([]int32(nil), originSets...),
	}
}

// NodeID returns the id of the monitored node
func (s *Snapshot) NodeID() int32 { return s.nodeID }

// LastEventID returns the sequence number of the node's newest event
func (s *Snapshot) LastEventID() int64 { return s.lastEventID }

// LastEventTimestamp returns the unix time of the node's newest event
func (s *Snapshot) LastEventTimestamp() int64 { return s.lastEventTimestamp }

// Confirms returns a copy of the per-receiver confirmations
func (s *Snapshot) Confirms() []Confirm { return cloneConfirms(s.confirms) }

// Incoming returns a copy of the per-origin received events
func (s *Snapshot) Incoming() []Incoming { return append([]Incoming(nil), s.incoming...) }

// OriginSets returns a copy of the ids of sets this node originates
func (s *Snapshot) OriginSets() []int32 { return append([]int32(nil), s.originSets...) }

func cloneConfirms(in []Confirm) []Confirm {
	if in == nil {
		return nil
	}
	out := make([]Confirm, len(in))
	for i, c := range in {
		out[i] = Confirm{
			Receiver:               c.Receiver,
			LastConfirmedEvent:     cloneInt64(c.LastConfirmedEvent),
			LastConfirmedTimestamp: cloneInt64(c.LastConfirmedTimestamp),
		}
	}
	return out
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
