package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverSQLite is the default, file backed store.
	DriverSQLite = "sqlite3"
	// DriverPostgres selects Postgres through pgx.
	DriverPostgres = "pgx"
)

// DB wraps a connection pool with the SQL dialect of its driver.
type DB struct {
	*sql.DB
	driver string
}

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*DB, error) {
	return Open(DriverSQLite, path)
}

// Open opens a database for the given driver and DSN and verifies the connection.
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// Enable foreign keys (disabled by default in SQLite)
		if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{DB: db, driver: driver}, nil
}

// Driver returns the driver name the database was opened with.
func (db *DB) Driver() string { return db.driver }

// Rebind rewrites '?' placeholders into the driver's placeholder syntax.
func (db *DB) Rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(ctx context.Context, db *DB) error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	timestamp := "DATETIME DEFAULT CURRENT_TIMESTAMP"
	if db.driver == DriverPostgres {
		idColumn = "id BIGSERIAL PRIMARY KEY"
		timestamp = "TIMESTAMPTZ DEFAULT NOW()"
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS holidays (
			` + idColumn + `,
			title TEXT NOT NULL,
			holiday_date TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_holidays_date ON holidays(holiday_date);`,
		`CREATE TABLE IF NOT EXISTS users (
			` + idColumn + `,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			password TEXT NOT NULL DEFAULT '',
			oauth_id TEXT NOT NULL,
			provider TEXT NOT NULL,
			created_at ` + timestamp + `,
			UNIQUE (oauth_id, provider)
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration: %w", err)
		}
	}

	return nil
}
