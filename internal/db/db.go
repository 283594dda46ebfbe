// Package db opens the SQL backends and applies the schema migrations.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/serroba/linkshare/internal/db/migrations"
	_ "modernc.org/sqlite"
)

// Dialect names a goose SQL dialect.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

//go:embed migrations/*.go
var migrationFiles embed.FS

// OpenSQLite opens the SQLite database at dsn using the CGO-free modernc driver.
// A single connection is kept open so writers never contend for the file lock.
func OpenSQLite(dsn string) (*sqlx.DB, error) {
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	return conn, nil
}

// Migrate runs all pending goose migrations against conn.
// It must be called before the HTTP server starts accepting requests.
func Migrate(ctx context.Context, conn *sql.DB, dialect Dialect) error {
	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	migrations.SetDialect(string(dialect))

	goose.SetBaseFS(migrationFiles)
	defer goose.SetBaseFS(nil)

	if err := goose.UpContext(ctx, conn, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
