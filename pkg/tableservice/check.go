package tableservice

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leaptable/pkg/core"
)

// TableCheck is the outcome of a table existence check.
type TableCheck struct {
	Table  string
	Status core.TableStatus
	// Cause is the listing probe error when Status is TableInaccessible and
	// the core.ErrInvalidInput error when Status is TableInvalid.
	Cause error
}

// Err converts the check into the error returned by table operations, or nil
// when the table exists.
func (c TableCheck) Err() error {
	switch c.Status {
	case core.TableExists:
		return nil
	case core.TableInvalid:
		return c.Cause
	}
	return &core.TableError{Table: c.Table, Status: c.Status, Cause: c.Cause}
}

// CheckTable probes for table in two steps. The describe probe succeeds iff
// the table exists and is readable. When it fails, the listing probe decides
// between a missing table (no rows) and an inaccessible one (probe error).
// Probes run on the session, outside any transaction.
func (s *Service) CheckTable(ctx context.Context, table string) TableCheck {
	return s.checkTable(ctx, s.logger, table)
}

// ValidateTableExists returns nil when table exists, a *core.TableError
// matching core.ErrTableNotFound or core.ErrTableInaccessible otherwise.
func (s *Service) ValidateTableExists(ctx context.Context, table string) error {
	return s.validate(ctx, s.logger, table)
}

func (s *Service) validate(ctx context.Context, log *slog.Logger, table string) error {
	return s.checkTable(ctx, log, table).Err()
}

func (s *Service) checkTable(ctx context.Context, log *slog.Logger, table string) TableCheck {
	if err := s.gen.CheckTable(table); err != nil {
		return TableCheck{Table: table, Status: core.TableInvalid, Cause: err}
	}

	describeErr := s.describe(ctx, table)
	if describeErr == nil {
		return TableCheck{Table: table, Status: core.TableExists}
	}
	log.Debug("describe probe failed, listing tables",
		slog.String("table", table),
		slog.String("error", describeErr.Error()))

	found, err := s.list(ctx, table)
	switch {
	case err != nil:
		log.Warn("listing probe failed", slog.String("table", table), slog.String("error", err.Error()))
		return TableCheck{Table: table, Status: core.TableInaccessible, Cause: err}
	case !found:
		return TableCheck{Table: table, Status: core.TableMissing}
	default:
		return TableCheck{Table: table, Status: core.TableExists}
	}
}

func (s *Service) describe(ctx context.Context, table string) error {
	rows, err := s.session.QueryContext(ctx, s.dialect.DescribeSQL(table))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	rows.Next()
	return rows.Err()
}

func (s *Service) list(ctx context.Context, table string) (bool, error) {
	query, args := s.dialect.ListSQL(table)
	rows, err := s.session.QueryContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, err
	}
	return found, nil
}
