// Package adapter provides the database adapter contract used by the table
// service and the CLI.
//
// An adapter owns a *sql.DB session for one database type and knows the
// dialect that goes with it. Concrete adapters live in pkg/adapters/ and
// register themselves with this package from init().
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/leapstack-labs/leaptable/pkg/dialect"
)

// Type aliases so adapter implementations only need to import this package.
type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata
)

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Session returns the connection pool statements run on. It is nil
	// until Connect succeeds.
	Session() *sql.DB

	// GetTableMetadata retrieves column metadata for a specified table.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// Dialect returns the SQL dialect of this adapter: placeholder style
	// and existence probes.
	Dialect() *dialect.Dialect
}
