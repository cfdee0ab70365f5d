// Package sqlite provides a SQLite database adapter for leaptable, backed by
// the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leaptable/pkg/adapter"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/leapstack-labs/leaptable/pkg/dialect"

	_ "modernc.org/sqlite" // sqlite driver
)

const memoryPath = ":memory:"

// Params holds SQLite-specific configuration.
type Params struct {
	// Pragmas applied to every connection, e.g. busy_timeout: 5000.
	Pragmas map[string]string `mapstructure:"pragmas"`
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Dialect returns the SQLite dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return dialect.SQLite
}

// Connect opens the database file at cfg.Path. An empty path or ":memory:"
// opens an in-memory database restricted to a single connection, since every
// connection would otherwise see its own empty database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	var params Params
	if err := mapstructure.WeakDecode(cfg.Params, &params); err != nil {
		return fmt.Errorf("failed to decode sqlite params: %w", err)
	}

	path := cfg.Path
	if path == "" {
		path = memoryPath
	}

	if err := a.Open(ctx, "sqlite", buildDSN(path, params.Pragmas), cfg); err != nil {
		return err
	}
	if path == memoryPath {
		a.DB.SetMaxOpenConns(1)
	}
	return nil
}

// buildDSN appends pragmas as _pragma query parameters understood by the
// driver. Paths with pragmas are turned into file: URIs.
func buildDSN(path string, pragmas map[string]string) string {
	if len(pragmas) == 0 {
		return path
	}

	names := make([]string, 0, len(pragmas))
	for name := range pragmas {
		names = append(names, name)
	}
	sort.Strings(names)

	q := make([]string, len(names))
	for i, name := range names {
		q[i] = "_pragma=" + url.QueryEscape(fmt.Sprintf("%s(%s)", name, pragmas[name]))
	}

	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path + "?" + strings.Join(q, "&")
}

// GetTableMetadata reads column metadata with PRAGMA table_info. SQLite has
// no information_schema.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}

	schema, name := dialect.ParseQualifiedName(table, dialect.SQLite)
	query := fmt.Sprintf("PRAGMA %s.table_info(%s)", schema, name)

	rows, err := a.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []adapter.Column
	for rows.Next() {
		var (
			cid     int
			col     adapter.Column
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Position = cid + 1
		col.Nullable = notNull == 0 && pk == 0
		col.PrimaryKey = pk > 0
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, &core.TableError{Table: table, Status: core.TableMissing}
	}

	return &adapter.Metadata{
		Schema:   schema,
		Name:     name,
		Columns:  columns,
		RowCount: a.RowCount(ctx, table),
	}, nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
