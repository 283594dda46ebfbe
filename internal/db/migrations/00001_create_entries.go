package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateEntries, downCreateEntries)
}

func upCreateEntries(ctx context.Context, tx *sql.Tx) error {
	var ddl string

	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS entries (
    namespace  VARCHAR(64) NOT NULL,
    entry_key  VARCHAR(32) NOT NULL,
    target_url TEXT NOT NULL,
    url_hash   CHAR(64) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (namespace, entry_key)
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS entries (
    namespace  TEXT NOT NULL,
    entry_key  TEXT NOT NULL,
    target_url TEXT NOT NULL,
    url_hash   TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    PRIMARY KEY (namespace, entry_key)
)`
	}

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create entries table: %w", err)
	}

	_, err := tx.ExecContext(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS entries_namespace_url_hash_idx ON entries (namespace, url_hash)`)

	return err
}

func downCreateEntries(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS entries`)

	return err
}
