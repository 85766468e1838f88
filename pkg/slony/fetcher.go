package slony

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/dd0wney/slony-exporter/pkg/config"
	"github.com/dd0wney/slony-exporter/pkg/logging"
)

// Fetcher builds a Snapshot of the local node on every call to Fetch
type Fetcher struct {
	connector    Connector
	getenv       func(string) string
	logger       logging.Logger
	queryTimeout time.Duration
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithConnector replaces the pgx connector
func WithConnector(c Connector) Option {
	return func(f *Fetcher) { f.connector = c }
}

// WithEnv replaces os.Getenv as the source of the database settings
func WithEnv(getenv func(string) string) Option {
	return func(f *Fetcher) { f.getenv = getenv }
}

// WithLogger sets the logger used for fetch diagnostics
func WithLogger(l logging.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithQueryTimeout bounds a whole fetch. Zero, the default, means no limit.
func WithQueryTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.queryTimeout = d }
}

// NewFetcher creates a fetcher that reads its settings from the environment
// and connects with PGConnector unless told otherwise.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		connector: PGConnector{},
		getenv:    os.Getenv,
		logger:    logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type identityRow struct {
	origin    int32
	seqno     int64
	timestamp int64
}

// Fetch reads the database settings, opens one connection and runs the
// identity, confirmation, incoming and origin set queries in that order.
// Any failure aborts the fetch and no partial snapshot is returned. The
// connection is closed on every path. Errors are always *Error.
func (f *Fetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	db, err := config.LoadDatabase(f.getenv)
	if err != nil {
		return nil, configurationError(err)
	}

	if f.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.queryTimeout)
		defer cancel()
	}

	log := f.logger.With(logging.Cluster(db.Cluster))

	conn, err := f.connector.Connect(ctx, db)
	if err != nil {
		var fetchErr *Error
		if errors.As(err, &fetchErr) {
			return nil, fetchErr
		}
		return nil, connectionError(err)
	}
	defer func() {
		if cerr := conn.Close(context.WithoutCancel(ctx)); cerr != nil {
			log.Warn("closing database connection failed", logging.Error(cerr))
		}
	}()

	q := newQueries(db.Cluster)

	ident, err := fetchIdentity(ctx, conn, q)
	if err != nil {
		return nil, err
	}
	log = log.With(logging.Node(ident.origin))
	log.Debug("identity fetched", logging.Int64("last_event", ident.seqno))

	confirms, err := fetchConfirms(ctx, conn, q, ident.origin)
	if err != nil {
		return nil, err
	}

	incoming, err := fetchIncoming(ctx, conn, q, ident.origin)
	if err != nil {
		return nil, err
	}

	sets, err := fetchOriginSets(ctx, conn, q, ident.origin)
	if err != nil {
		return nil, err
	}

	log.Debug("snapshot fetched",
		logging.Int("confirms", len(confirms)),
		logging.Int("incoming", len(incoming)),
		logging.Int("origin_sets", len(sets)),
	)

	return NewSnapshot(ident.origin, ident.seqno, ident.timestamp, confirms, incoming, sets), nil
}

func fetchIdentity(ctx context.Context, conn Conn, q queries) (identityRow, error) {
	rows, err := collect(ctx, conn, opIdentity, q.identity, []any{q.schema}, func(r Rows) (identityRow, error) {
		var row identityRow
		err := r.Scan(&row.origin, &row.seqno, &row.timestamp)
		return row, err
	})
	if err != nil {
		return identityRow{}, err
	}

	// every row belongs to the local node, so this is a plain max
	latest := latestPerKey(rows,
		func(identityRow) struct{} { return struct{}{} },
		func(r identityRow) int64 { return r.seqno },
	)
	if len(latest) == 0 {
		return identityRow{}, notFoundError("No events found")
	}
	return latest[0], nil
}

func fetchConfirms(ctx context.Context, conn Conn, q queries, node int32) ([]Confirm, error) {
	rows, err := collect(ctx, conn, opConfirms, q.confirms, []any{node}, func(r Rows) (Confirm, error) {
		var c Confirm
		err := r.Scan(&c.Receiver, &c.LastConfirmedEvent, &c.LastConfirmedTimestamp)
		return c, err
	})
	if err != nil {
		return nil, err
	}
	return latestPerKey(rows, confirmReceiver, confirmSeqno), nil
}

func fetchIncoming(ctx context.Context, conn Conn, q queries, node int32) ([]Incoming, error) {
	rows, err := collect(ctx, conn, opIncoming, q.incoming, []any{node}, func(r Rows) (Incoming, error) {
		var in Incoming
		err := r.Scan(&in.Origin, &in.LastEventID, &in.LastEventTimestamp)
		return in, err
	})
	if err != nil {
		return nil, err
	}
	return latestPerKey(rows, incomingOrigin, incomingSeqno), nil
}

func fetchOriginSets(ctx context.Context, conn Conn, q queries, node int32) ([]int32, error) {
	ids, err := collect(ctx, conn, opOriginSets, q.originSets, []any{node}, func(r Rows) (int32, error) {
		var id int32
		err := r.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, err
	}
	return uniqueSets(ids), nil
}

// collect runs one query and scans every row, closing the result set before
// returning. A failure anywhere becomes a query error for step op.
func collect[R any](ctx context.Context, conn Conn, op, sql string, args []any, scan func(Rows) (R, error)) ([]R, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, queryError(op, err)
	}
	defer rows.Close()

	var out []R
	for rows.Next() {
		row, err := scan(rows)
		if err != nil {
			return nil, queryError(op, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(op, err)
	}
	return out, nil
}
