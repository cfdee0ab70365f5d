package tableservice

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/leapstack-labs/leaptable/pkg/core"
)

// withTx runs fn in a new transaction. The transaction is committed when fn
// succeeds and rolled back when it fails or panics.
func (s *Service) withTx(ctx context.Context, log *slog.Logger, readOnly bool, fn func(*sql.Tx) error) (err error) {
	var opts *sql.TxOptions
	if readOnly && s.dialect.ReadOnlyTx {
		opts = &sql.TxOptions{ReadOnly: true}
	}

	tx, err := s.session.BeginTx(ctx, opts)
	if err != nil {
		log.Warn("failed to begin transaction", slog.String("error", err.Error()))
		return &core.ExecError{Op: "begin transaction", Err: err}
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Warn("rollback failed", slog.String("error", rbErr.Error()))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Warn("failed to commit transaction", slog.String("error", err.Error()))
		return &core.ExecError{Op: "commit transaction", Err: err}
	}
	return nil
}

// bind returns the SQL sent to the driver for stmt. Generated statements use
// ? placeholders and are rebound; raw SQL carries no params and runs as written.
func (s *Service) bind(stmt core.Statement) string {
	if len(stmt.Params) == 0 {
		return stmt.SQL
	}
	return s.dialect.Rebind(stmt.SQL)
}

// run executes stmt on tx after binding its placeholders.
func (s *Service) run(ctx context.Context, log *slog.Logger, tx *sql.Tx, op string, stmt core.Statement) (sql.Result, error) {
	query := s.bind(stmt)
	log.Debug("executing statement", slog.String("sql", query), slog.Int("params", len(stmt.Params)))

	res, err := tx.ExecContext(ctx, query, stmt.Args()...)
	if err != nil {
		log.Warn("statement failed", slog.String("sql", query), slog.String("error", err.Error()))
		return nil, &core.ExecError{Op: op, SQL: query, Err: err}
	}
	return res, nil
}

// exec is run returning the number of affected rows.
func (s *Service) exec(ctx context.Context, log *slog.Logger, tx *sql.Tx, op string, stmt core.Statement) (int64, error) {
	res, err := s.run(ctx, log, tx, op, stmt)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &core.ExecError{Op: op, SQL: s.bind(stmt), Err: err}
	}
	log.Debug("statement executed", slog.Int64("rows_affected", n))
	return n, nil
}

// query runs stmt on tx and collects the full result.
func (s *Service) query(ctx context.Context, log *slog.Logger, tx *sql.Tx, op string, stmt core.Statement) (*core.ResultSet, error) {
	query := s.bind(stmt)
	log.Debug("executing query", slog.String("sql", query), slog.Int("params", len(stmt.Params)))

	rows, err := tx.QueryContext(ctx, query, stmt.Args()...)
	if err != nil {
		log.Warn("query failed", slog.String("sql", query), slog.String("error", err.Error()))
		return nil, &core.ExecError{Op: op, SQL: query, Err: err}
	}
	defer func() { _ = rows.Close() }()

	rs, err := scanResultSet(rows)
	if err != nil {
		return nil, &core.ExecError{Op: op, SQL: query, Err: err}
	}
	log.Debug("query returned", slog.Int("rows", len(rs.Rows)))
	return rs, nil
}

func scanResultSet(rows *sql.Rows) (*core.ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &core.ResultSet{Columns: cols, Rows: []core.Row{}}
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(core.Row, len(cols))
		for i, v := range raw {
			row[i] = core.FromDriver(v)
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}
