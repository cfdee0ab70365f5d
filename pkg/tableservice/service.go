// Package tableservice executes dynamically generated statements against
// tables that are only known at runtime.
//
// Every table-targeted operation first checks that the table exists, then
// builds its statement with a sqlgen.Generator and runs it inside a
// transaction of its own. The raw SQL operations skip both the existence
// check and statement generation.
package tableservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/leapstack-labs/leaptable/pkg/dialect"
	"github.com/leapstack-labs/leaptable/pkg/sqlgen"
)

// Session is the database handle the service runs on. *sql.DB satisfies it.
type Session interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Service is the dynamic table service. It holds no mutable state and is safe
// for concurrent use.
type Service struct {
	session Session
	dialect *dialect.Dialect
	gen     *sqlgen.Generator
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithGenerator replaces the statement generator.
func WithGenerator(g *sqlgen.Generator) Option {
	return func(s *Service) { s.gen = g }
}

// WithStrictIdentifiers rejects table and column names that are not plain
// identifiers before any SQL reaches the database.
func WithStrictIdentifiers() Option {
	return func(s *Service) { s.gen = sqlgen.New(sqlgen.WithStrictIdentifiers()) }
}

// New creates a Service on session. A nil dialect selects dialect.MySQL,
// whose probes are DESCRIBE and an information_schema lookup.
func New(session Session, d *dialect.Dialect, opts ...Option) *Service {
	s := &Service{
		session: session,
		dialect: d,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dialect == nil {
		s.dialect = dialect.MySQL
	}
	if s.gen == nil {
		s.gen = sqlgen.New()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Dialect returns the dialect statements are rebound for.
func (s *Service) Dialect() *dialect.Dialect { return s.dialect }

// Insert adds one row and returns the number of affected rows.
func (s *Service) Insert(ctx context.Context, table string, data *core.ColumnValueSet) (int64, error) {
	log := s.opLogger("insert", table)
	if err := s.validate(ctx, log, table); err != nil {
		return 0, err
	}

	stmt, err := s.gen.Insert(table, data)
	if err != nil {
		return 0, err
	}

	var n int64
	err = s.withTx(ctx, log, false, func(tx *sql.Tx) error {
		n, err = s.exec(ctx, log, tx, "insert into "+table, stmt)
		return err
	})
	return n, err
}

// InsertMany adds rows in a single transaction. Either every row is inserted
// or none is. The table is checked once.
func (s *Service) InsertMany(ctx context.Context, table string, rows []*core.ColumnValueSet) (int64, error) {
	log := s.opLogger("insert_many", table)
	if len(rows) == 0 {
		return 0, nil
	}
	if err := s.validate(ctx, log, table); err != nil {
		return 0, err
	}

	stmts := make([]core.Statement, len(rows))
	for i, row := range rows {
		stmt, err := s.gen.Insert(table, row)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		stmts[i] = stmt
	}

	var total int64
	err := s.withTx(ctx, log, false, func(tx *sql.Tx) error {
		for _, stmt := range stmts {
			n, err := s.exec(ctx, log, tx, "insert into "+table, stmt)
			if err != nil {
				return err
			}
			total += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Select returns the rows of table matching every condition. Nil or empty
// conditions select all rows.
func (s *Service) Select(ctx context.Context, table string, conds *core.ConditionSet) ([]core.Row, error) {
	rs, err := s.SelectResultSet(ctx, table, conds)
	if err != nil {
		return nil, err
	}
	return rs.Rows, nil
}

// SelectResultSet is Select with the column names reported by the driver.
func (s *Service) SelectResultSet(ctx context.Context, table string, conds *core.ConditionSet) (*core.ResultSet, error) {
	log := s.opLogger("select", table)
	if err := s.validate(ctx, log, table); err != nil {
		return nil, err
	}

	stmt, err := s.gen.Select(table, conds)
	if err != nil {
		return nil, err
	}

	var rs *core.ResultSet
	err = s.withTx(ctx, log, true, func(tx *sql.Tx) error {
		rs, err = s.query(ctx, log, tx, "select from "+table, stmt)
		return err
	})
	return rs, err
}

// Update sets data on the rows matching conds and returns the number of
// affected rows. Empty conditions update every row.
func (s *Service) Update(ctx context.Context, table string, data *core.ColumnValueSet, conds *core.ConditionSet) (int64, error) {
	log := s.opLogger("update", table)
	if err := s.validate(ctx, log, table); err != nil {
		return 0, err
	}

	stmt, err := s.gen.Update(table, data, conds)
	if err != nil {
		return 0, err
	}

	var n int64
	err = s.withTx(ctx, log, false, func(tx *sql.Tx) error {
		n, err = s.exec(ctx, log, tx, "update "+table, stmt)
		return err
	})
	return n, err
}

// Delete removes the rows matching conds and returns the number of affected
// rows. Empty conditions delete every row.
func (s *Service) Delete(ctx context.Context, table string, conds *core.ConditionSet) (int64, error) {
	log := s.opLogger("delete", table)
	if err := s.validate(ctx, log, table); err != nil {
		return 0, err
	}

	stmt, err := s.gen.Delete(table, conds)
	if err != nil {
		return 0, err
	}

	var n int64
	err = s.withTx(ctx, log, false, func(tx *sql.Tx) error {
		n, err = s.exec(ctx, log, tx, "delete from "+table, stmt)
		return err
	})
	return n, err
}

// DropTable drops table. There is no confirmation step.
func (s *Service) DropTable(ctx context.Context, table string) error {
	log := s.opLogger("drop", table)
	if err := s.validate(ctx, log, table); err != nil {
		return err
	}

	stmt, err := s.gen.DropTable(table)
	if err != nil {
		return err
	}

	return s.withTx(ctx, log, false, func(tx *sql.Tx) error {
		_, err := s.exec(ctx, log, tx, "drop table "+table, stmt)
		return err
	})
}

// ExecuteUpdateSQL runs a raw data-modifying statement and returns the number
// of affected rows. The statement is not inspected.
func (s *Service) ExecuteUpdateSQL(ctx context.Context, query string) (int64, error) {
	log := s.opLogger("execute_update", "")
	if query == "" {
		return 0, fmt.Errorf("%w: sql cannot be empty", core.ErrInvalidInput)
	}

	var n int64
	err := s.withTx(ctx, log, false, func(tx *sql.Tx) error {
		var err error
		n, err = s.exec(ctx, log, tx, "execute update", core.Statement{SQL: query})
		return err
	})
	return n, err
}

// ExecuteDDLSQL runs a raw DDL statement such as CREATE TABLE.
func (s *Service) ExecuteDDLSQL(ctx context.Context, query string) error {
	log := s.opLogger("execute_ddl", "")
	if query == "" {
		return fmt.Errorf("%w: sql cannot be empty", core.ErrInvalidInput)
	}

	return s.withTx(ctx, log, false, func(tx *sql.Tx) error {
		_, err := s.run(ctx, log, tx, "execute ddl", core.Statement{SQL: query})
		return err
	})
}

// ExecuteSelectSQL runs a raw query returning one column and yields its
// values in row order. Queries returning several columns fail with
// core.ErrInvalidInput; use Query for those.
func (s *Service) ExecuteSelectSQL(ctx context.Context, query string) ([]core.Value, error) {
	rs, err := s.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return rs.Scalars()
}

// Query runs a raw query and returns every column of every row.
func (s *Service) Query(ctx context.Context, query string) (*core.ResultSet, error) {
	log := s.opLogger("execute_select", "")
	if query == "" {
		return nil, fmt.Errorf("%w: sql cannot be empty", core.ErrInvalidInput)
	}

	var rs *core.ResultSet
	err := s.withTx(ctx, log, true, func(tx *sql.Tx) error {
		var err error
		rs, err = s.query(ctx, log, tx, "execute select", core.Statement{SQL: query})
		return err
	})
	return rs, err
}

func (s *Service) opLogger(op, table string) *slog.Logger {
	log := s.logger.With(slog.String("op", op), slog.String("op_id", uuid.NewString()))
	if table != "" {
		log = log.With(slog.String("table", table))
	}
	return log
}
