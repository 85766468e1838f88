package slony

import "math"

// noSeqno ranks a row without a sequence number below every real one,
// matching "order by ... desc nulls last". Plain "desc" would sort NULLs
// first and report a receiver with any NULL row as having no confirmed
// event; the highest confirmed sequence number is kept instead.
const noSeqno = math.MinInt64

// latestPerKey keeps, for every partition key, the row with the highest
// sequence number. Keys keep the order in which they first appear in rows.
//
// When several rows share a key's maximum sequence number the first of them
// wins. None of the status queries order tied rows, so which row the database
// delivers first is not defined.
func latestPerKey[K comparable, R any](rows []R, key func(R) K, seqno func(R) int64) []R {
	if len(rows) == 0 {
		return nil
	}

	index := make(map[K]int, len(rows))
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		i, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, row)
			continue
		}
		if seqno(row) > seqno(out[i]) {
			out[i] = row
		}
	}
	return out
}

func confirmSeqno(c Confirm) int64 {
	if c.LastConfirmedEvent == nil {
		return noSeqno
	}
	return *c.LastConfirmedEvent
}

func confirmReceiver(c Confirm) int32 { return c.Receiver }

func incomingSeqno(in Incoming) int64 { return in.LastEventID }

func incomingOrigin(in Incoming) int32 { return in.Origin }

// uniqueSets drops repeated set ids, keeping first occurrence order
func uniqueSets(ids []int32) []int32 {
	return latestPerKey(ids, func(id int32) int32 { return id }, func(int32) int64 { return 0 })
}
