package slony

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dd0wney/slony-exporter/pkg/config"
	tlsconfig "github.com/dd0wney/slony-exporter/pkg/tls"
)

// Rows is the subset of pgx.Rows the fetcher reads
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Conn is a database session owned by a single fetch
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close(ctx context.Context) error
}

// Connector opens the connection a fetch runs on
type Connector interface {
	Connect(ctx context.Context, db *config.Database) (Conn, error)
}

// PGConnector dials PostgreSQL with pgx. Each call opens a new connection;
// nothing is pooled.
type PGConnector struct{}

// Connect parses the connection string, applies the client TLS settings and
// connects. TLS setup failures are returned as *Error with KindConnection.
func (PGConnector) Connect(ctx context.Context, db *config.Database) (Conn, error) {
	cc, err := pgx.ParseConfig(db.URL)
	if err != nil {
		return nil, err
	}

	if db.TLS.Enabled() {
		tlsCfg, err := tlsconfig.ClientConfig(&db.TLS, cc.Host)
		if err != nil {
			return nil, tlsSetupError(err)
		}
		cc.TLSConfig = tlsCfg
		// the settings above must not be silently downgraded to plaintext
		cc.Fallbacks = nil
	}

	conn, err := pgx.ConnectConfig(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &pgxConn{conn: conn}, nil
}

type pgxConn struct {
	conn *pgx.Conn
}

func (c *pgxConn) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

func (c *pgxConn) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}
