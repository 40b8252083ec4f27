// Package logdb stores converted revision history in a SQL database.
package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/svnplot/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names of the log store.
const (
	RevisionTable = "revision_log"
	DetailTable   = "revision_log_detail"
	PathTable     = "repo_paths"
	DetailView    = "revision_log_detail_vw"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by writers and queries.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = &sql.DB{} // Compile-time check
	_ DBTX = &sql.Tx{} // Compile-time check
)

// Store is an open handle on the log database.
type Store struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

// Open connects to the log store and migrates its schema to the latest version.
func Open(ctx context.Context, backend schema.DatabaseBackend, connStr string) (*Store, error) {
	s, err := Connect(ctx, backend, connStr)
	if err != nil {
		return nil, err
	}
	if _, err := s.Migrate(-1); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Connect opens and pings the log store without touching its schema.
func Connect(ctx context.Context, backend schema.DatabaseBackend, connStr string) (*Store, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		if connStr == "" {
			return nil, fmt.Errorf("a SQLite database path is required")
		}
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", connStr, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		driverName = "mysql"
		cfg, perr := mysql.ParseDSN(connStr)
		if perr != nil {
			return nil, fmt.Errorf("invalid MySQL connection string: %w. Check connection format: user:password@tcp(host:port)/dbname", perr)
		}
		// Migration files hold more than one statement.
		cfg.MultiStatements = true
		connStr = cfg.FormatDSN()
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, or postgresql", backend)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	return &Store{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying database handle for read-only queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Backend returns the store backend.
func (s *Store) Backend() schema.DatabaseBackend {
	return s.backend
}

// Rebind rewrites '?' placeholders into the form the backend expects.
func (s *Store) Rebind(query string) string {
	return rebind(s.backend, query)
}

// Writer returns a writer that commits every statement on its own.
func (s *Store) Writer() *Writer {
	return newWriter(s.db, s.backend)
}

// Tx is a transaction on the store with a writer bound to it.
type Tx struct {
	*Writer
	tx *sql.Tx
}

// Begin starts a transaction. Paths interned through the returned Tx are cached
// for the lifetime of the transaction only.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{Writer: newWriter(tx, s.backend), tx: tx}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// MaxRevision returns the highest stored revision, or 0 when the store is empty.
func (s *Store) MaxRevision(ctx context.Context) (int64, error) {
	return maxRevision(ctx, s.db)
}

func maxRevision(ctx context.Context, q DBTX) (int64, error) {
	var rev sql.NullInt64
	query := fmt.Sprintf("SELECT MAX(revno) FROM %s", RevisionTable)
	if err := q.QueryRowContext(ctx, query).Scan(&rev); err != nil {
		return 0, fmt.Errorf("failed to read last stored revision: %w", err)
	}
	return rev.Int64, nil
}

// getPlaceholder returns the n-th (1-based) bind placeholder for the backend.
func getPlaceholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// rebind replaces every '?' in query with the backend's placeholder.
func rebind(backend schema.DatabaseBackend, query string) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteString(getPlaceholder(backend, n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
