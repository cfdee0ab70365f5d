package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data; pkg/dialect.Dialect adds behavior on top of it.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "duckdb", "postgres")
	Name string

	// DefaultSchema is the default schema name ("main" for DuckDB, "public" for Postgres)
	DefaultSchema string

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// DescribeProbe is a format string taking the raw table name. It must
	// succeed iff the table exists and is accessible.
	DescribeProbe string

	// ListProbe returns one row per table whose name equals the first bound
	// parameter. When ListBySchema is set a second parameter carries the
	// schema of a qualified name, or NULL for the session's current schema.
	ListProbe    string
	ListBySchema bool

	// ReadOnlyTx reports whether the driver accepts sql.TxOptions{ReadOnly: true}.
	ReadOnlyTx bool
}

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, MySQL, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)
