package slony

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dd0wney/slony-exporter/pkg/config"
)

// fakeDB answers the status queries from canned rows and records what was
// asked of it
type fakeDB struct {
	mu sync.Mutex

	connectErr error
	closeErr   error
	results    map[string][][]any // op -> rows
	queryErrs  map[string]error   // op -> error returned by Query
	rowsErrs   map[string]error   // op -> error returned by Rows.Err

	connects int
	closed   int
	queries  []string // ops in the order they ran
	args     map[string][]any
	db       *config.Database
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		results:   map[string][][]any{},
		queryErrs: map[string]error{},
		rowsErrs:  map[string]error{},
		args:      map[string][]any{},
	}
}

func (f *fakeDB) Connect(_ context.Context, db *config.Database) (Conn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	f.db = db
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	return &fakeConn{db: f}, nil
}

type fakeConn struct {
	db *fakeDB
}

// opOf maps a statement back to the fetch step that issued it
func opOf(sql string) string {
	switch {
	case strings.Contains(sql, "getLocalNodeId"):
		return opIdentity
	case strings.Contains(sql, "sl_confirm"):
		return opConfirms
	case strings.Contains(sql, "sl_set"):
		return opOriginSets
	case strings.Contains(sql, "sl_event"):
		return opIncoming
	}
	return "unknown"
}

func (c *fakeConn) Query(_ context.Context, sql string, args ...any) (Rows, error) {
	f := c.db
	f.mu.Lock()
	defer f.mu.Unlock()

	op := opOf(sql)
	f.queries = append(f.queries, op)
	f.args[op] = args
	if err := f.queryErrs[op]; err != nil {
		return nil, err
	}
	return &fakeRows{rows: f.results[op], err: f.rowsErrs[op], i: -1}, nil
}

func (c *fakeConn) Close(context.Context) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	c.db.closed++
	return c.db.closeErr
}

type fakeRows struct {
	rows [][]any
	err  error
	i    int
}

func (r *fakeRows) Next() bool {
	if r.err != nil {
		return false
	}
	r.i++
	return r.i < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.i]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		v := reflect.ValueOf(row[i])
		if !v.IsValid() {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		if !v.Type().AssignableTo(target.Type()) {
			return errors.New("scan: cannot assign " + v.Type().String() + " to " + target.Type().String())
		}
		target.Set(v)
	}
	return nil
}

func (r *fakeRows) Err() error { return r.err }

func (r *fakeRows) Close() {}

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func validEnv() func(string) string {
	return env(map[string]string{
		config.EnvPostgresURL:  "postgres://slony@db1/app",
		config.EnvSlonyCluster: "replication",
	})
}

func ptr(v int64) *int64 { return &v }
