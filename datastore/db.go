package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL engine behind a DB. Values double as database/sql
// driver names.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const (
	dbMaxOpenConns    = 25
	dbMaxIdleConns    = 25
	dbConnMaxLifetime = 5 * time.Minute
)

// ParseDialect maps a configured driver name onto a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pq":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// DB wraps the connection pool so every repository issues queries written
// with PostgreSQL-style $N placeholders regardless of the engine.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Open connects, verifies the connection and applies the embedded migrations
// for the dialect.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database connection string is required")
	}

	driverDSN := dsn
	if dialect == DialectSQLite {
		driverDSN = sqliteDSN(dsn)
	}

	sqlDB, err := sql.Open(string(dialect), driverDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	switch dialect {
	case DialectSQLite:
		// One connection keeps in-memory databases shared and serializes writers.
		sqlDB.SetMaxOpenConns(1)
	default:
		sqlDB.SetMaxOpenConns(dbMaxOpenConns)
		sqlDB.SetMaxIdleConns(dbMaxIdleConns)
		sqlDB.SetConnMaxLifetime(dbConnMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{DB: sqlDB, dialect: dialect}
	if err := db.migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.rebind(query), args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, db.rebind(query), args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, db.rebind(query), args...)
}

var dollarPlaceholder = regexp.MustCompile(`\$(\d+)`)

// rebind turns $N into SQLite's numbered ?N form.
func (db *DB) rebind(query string) string {
	if db.dialect != DialectSQLite {
		return query
	}
	return dollarPlaceholder.ReplaceAllString(query, "?$1")
}

func sqliteDSN(path string) string {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if strings.Contains(path, "?") {
		return path + "&" + pragmas
	}
	return path + "?" + pragmas
}
