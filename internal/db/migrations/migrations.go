// Package migrations holds the dialect-aware goose migrations for the entries schema.
package migrations

// dialect is set by the db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for the Go migrations.
// Valid values: "sqlite3", "postgres".
func SetDialect(d string) {
	dialect = d
}
