package dialect

import "github.com/leapstack-labs/leaptable/pkg/core"

// Built-in dialects, registered when the package is loaded.
var (
	SQLite = NewDialect("sqlite").
		DefaultSchema("main").
		Probes(
			"SELECT * FROM %s LIMIT 0",
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
		).
		Build()

	DuckDB = NewDialect("duckdb").
		DefaultSchema("main").
		Probes(
			"DESCRIBE %s",
			"SELECT table_name FROM information_schema.tables WHERE table_name = ? AND table_schema = coalesce(CAST(? AS VARCHAR), current_schema())",
		).
		ListBySchema().
		Build()

	Postgres = NewDialect("postgres").
		DefaultSchema("public").
		PlaceholderStyle(core.PlaceholderDollar).
		Probes(
			"SELECT * FROM %s LIMIT 0",
			"SELECT table_name FROM information_schema.tables WHERE table_name = $1 AND table_schema = coalesce($2::text, current_schema())",
		).
		ListBySchema().
		ReadOnlyTx(true).
		Build()

	MySQL = NewDialect("mysql").
		Probes(
			"DESCRIBE %s",
			"SELECT table_name FROM information_schema.tables WHERE table_name = ? AND table_schema = coalesce(?, DATABASE())",
		).
		ListBySchema().
		ReadOnlyTx(true).
		Build()
)

func init() {
	Register(SQLite)
	Register(DuckDB)
	Register(Postgres)
	Register(MySQL)
}
