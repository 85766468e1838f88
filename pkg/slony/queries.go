package slony

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Steps of a fetch, used as Error.Op and in logs
const (
	opIdentity   = "identity"
	opConfirms   = "confirms"
	opIncoming   = "incoming"
	opOriginSets = "origin_sets"
)

// queries holds the status statements for one cluster schema
type queries struct {
	schema     string // slony schema name, "_" + cluster
	identity   string
	confirms   string
	incoming   string
	originSets string
}

// SchemaName returns the schema Slony-I creates for a cluster
func SchemaName(cluster string) string {
	return "_" + cluster
}

func newQueries(cluster string) queries {
	schema := SchemaName(cluster)
	s := pgx.Identifier{schema}.Sanitize()

	return queries{
		schema: schema,
		identity: fmt.Sprintf(`
			select ev_origin,
			       ev_seqno,
			       extract(epoch from ev_timestamp)::int8
			from %[1]s.sl_event
			where ev_origin = %[1]s.getLocalNodeId($1)
			order by ev_seqno desc
			limit 1`, s),

		confirms: fmt.Sprintf(`
			select con_received,
			       con_seqno,
			       extract(epoch from con_timestamp)::int8
			from (
			    select con_received,
			           con_seqno,
			           con_timestamp,
			           rank() over (partition by con_origin, con_received
			                        order by con_seqno desc nulls last) as rank
			    from %[1]s.sl_confirm
			    where con_origin = $1
			) as x
			where x.rank = 1`, s),

		incoming: fmt.Sprintf(`
			select ev_origin,
			       ev_seqno,
			       extract(epoch from ev_timestamp)::int8
			from (
			    select ev_origin,
			           ev_seqno,
			           ev_timestamp,
			           rank() over (partition by ev_origin
			                        order by ev_seqno desc) as rank
			    from %[1]s.sl_event
			    where ev_origin <> $1
			) as x
			where x.rank = 1`, s),

		originSets: fmt.Sprintf(`
			select set_id
			from %[1]s.sl_set
			where set_origin = $1
			order by set_id`, s),
	}
}
