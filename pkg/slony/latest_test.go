package slony

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestLatestPerKey(t *testing.T) {
	rows := []Incoming{
		{Origin: 3, LastEventID: 40, LastEventTimestamp: 400},
		{Origin: 2, LastEventID: 10, LastEventTimestamp: 100},
		{Origin: 3, LastEventID: 50, LastEventTimestamp: 500},
		{Origin: 3, LastEventID: 45, LastEventTimestamp: 450},
	}

	got := latestPerKey(rows, incomingOrigin, incomingSeqno)
	assert.Equal(t, []Incoming{
		{Origin: 3, LastEventID: 50, LastEventTimestamp: 500},
		{Origin: 2, LastEventID: 10, LastEventTimestamp: 100},
	}, got)
}

func TestLatestPerKeyTies(t *testing.T) {
	rows := []Incoming{
		{Origin: 3, LastEventID: 50, LastEventTimestamp: 500},
		{Origin: 3, LastEventID: 50, LastEventTimestamp: 999},
	}
	got := latestPerKey(rows, incomingOrigin, incomingSeqno)
	assert.Equal(t, []Incoming{{Origin: 3, LastEventID: 50, LastEventTimestamp: 500}}, got)
}

func TestLatestPerKeyNullSeqno(t *testing.T) {
	rows := []Confirm{
		{Receiver: 2, LastConfirmedEvent: nil, LastConfirmedTimestamp: ptr(1)},
		{Receiver: 2, LastConfirmedEvent: ptr(-5), LastConfirmedTimestamp: ptr(2)},
		{Receiver: 4, LastConfirmedEvent: nil, LastConfirmedTimestamp: ptr(3)},
	}
	got := latestPerKey(rows, confirmReceiver, confirmSeqno)
	assert.Equal(t, []Confirm{
		{Receiver: 2, LastConfirmedEvent: ptr(-5), LastConfirmedTimestamp: ptr(2)},
		{Receiver: 4, LastConfirmedEvent: nil, LastConfirmedTimestamp: ptr(3)},
	}, got)
}

func TestLatestPerKeyEmpty(t *testing.T) {
	assert.Nil(t, latestPerKey(nil, incomingOrigin, incomingSeqno))
}

func TestUniqueSets(t *testing.T) {
	assert.Equal(t, []int32{3, 1, 2}, uniqueSets([]int32{3, 1, 3, 2, 1}))
	assert.Nil(t, uniqueSets(nil))
}

func genIncoming() gopter.Gen {
	return gopter.CombineGens(
		gen.Int32Range(1, 5),
		gen.Int64Range(0, 1000),
		gen.Int64Range(0, 1<<40),
	).Map(func(v []any) Incoming {
		return Incoming{Origin: v[0].(int32), LastEventID: v[1].(int64), LastEventTimestamp: v[2].(int64)}
	})
}

func TestLatestPerKeyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("one row per key holding the key's maximum", prop.ForAll(
		func(rows []Incoming) bool {
			best := map[int32]int64{}
			for _, r := range rows {
				if cur, ok := best[r.Origin]; !ok || r.LastEventID > cur {
					best[r.Origin] = r.LastEventID
				}
			}

			got := latestPerKey(rows, incomingOrigin, incomingSeqno)
			if len(got) != len(best) {
				return false
			}
			seen := map[int32]bool{}
			for _, r := range got {
				if seen[r.Origin] || r.LastEventID != best[r.Origin] {
					return false
				}
				seen[r.Origin] = true
			}
			return true
		},
		gen.SliceOf(genIncoming()),
	))

	properties.Property("every kept row came from the input", prop.ForAll(
		func(rows []Incoming) bool {
			in := map[Incoming]bool{}
			for _, r := range rows {
				in[r] = true
			}
			for _, r := range latestPerKey(rows, incomingOrigin, incomingSeqno) {
				if !in[r] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genIncoming()),
	))

	properties.Property("reducing twice changes nothing", prop.ForAll(
		func(rows []Incoming) bool {
			once := latestPerKey(rows, incomingOrigin, incomingSeqno)
			twice := latestPerKey(once, incomingOrigin, incomingSeqno)
			return assert.ObjectsAreEqual(once, twice)
		},
		gen.SliceOf(genIncoming()),
	))

	properties.TestingRun(t)
}
