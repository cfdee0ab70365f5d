// Package sqlgen assembles parameterized SQL statements from a table name and
// ordered column/value sets.
//
// The generator performs no I/O and holds no state besides its options, so the
// same inputs always yield the same statement. Placeholders are always "?";
// callers rebind them for dialects that number parameters.
//
// Table and column names are interpolated verbatim. They are never quoted or
// escaped; WithStrictIdentifiers restricts them to plain identifiers.
package sqlgen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/leaptable/pkg/core"
)

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
)

// Generator builds INSERT, SELECT, UPDATE, DELETE and DROP TABLE statements.
type Generator struct {
	strict bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithStrictIdentifiers rejects table and column names that are not plain
// identifiers. Table names may be schema-qualified.
func WithStrictIdentifiers() Option {
	return func(g *Generator) { g.strict = true }
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Strict reports whether identifier validation is enabled.
func (g *Generator) Strict() bool { return g.strict }

// Insert builds INSERT INTO <table> (<c1>,<c2>,...) VALUES (?,?,...).
// Columns and parameters come from a single snapshot of data, so they always
// line up positionally.
func (g *Generator) Insert(table string, data *core.ColumnValueSet) (core.Statement, error) {
	if err := g.CheckTable(table); err != nil {
		return core.Statement{}, err
	}
	entries := data.Entries()
	if len(entries) == 0 {
		return core.Statement{}, fmt.Errorf("%w: insert into %s requires at least one column", core.ErrInvalidInput, table)
	}

	cols := make([]string, len(entries))
	marks := make([]string, len(entries))
	params := make([]core.Value, len(entries))
	for i, e := range entries {
		if err := g.checkColumn(e.Column); err != nil {
			return core.Statement{}, err
		}
		cols[i] = e.Column
		marks[i] = "?"
		params[i] = e.Value
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ","), strings.Join(marks, ","))
	return core.Statement{SQL: sql, Params: params}, nil
}

// InsertValues returns the values bound by Insert, in the same order.
func InsertValues(data *core.ColumnValueSet) []core.Value {
	return data.Values()
}

// Select builds SELECT * FROM <table> with an optional WHERE clause.
func (g *Generator) Select(table string, conds *core.ConditionSet) (core.Statement, error) {
	if err := g.CheckTable(table); err != nil {
		return core.Statement{}, err
	}
	where, params, err := g.where(conds)
	if err != nil {
		return core.Statement{}, err
	}
	return core.Statement{SQL: "SELECT * FROM " + table + where, Params: params}, nil
}

// Update builds UPDATE <table> SET a = ?, b = ? WHERE c = ?.
// Parameters are the SET values followed by the WHERE values. Empty
// conditions produce no WHERE clause.
func (g *Generator) Update(table string, data *core.ColumnValueSet, conds *core.ConditionSet) (core.Statement, error) {
	if err := g.CheckTable(table); err != nil {
		return core.Statement{}, err
	}
	entries := data.Entries()
	if len(entries) == 0 {
		return core.Statement{}, fmt.Errorf("%w: update of %s requires at least one column", core.ErrInvalidInput, table)
	}

	sets := make([]string, len(entries))
	params := make([]core.Value, 0, len(entries)+conds.Len())
	for i, e := range entries {
		if err := g.checkColumn(e.Column); err != nil {
			return core.Statement{}, err
		}
		sets[i] = e.Column + " = ?"
		params = append(params, e.Value)
	}

	where, whereParams, err := g.where(conds)
	if err != nil {
		return core.Statement{}, err
	}
	params = append(params, whereParams...)

	sql := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + where
	return core.Statement{SQL: sql, Params: params}, nil
}

// Delete builds DELETE FROM <table> with an optional WHERE clause.
func (g *Generator) Delete(table string, conds *core.ConditionSet) (core.Statement, error) {
	if err := g.CheckTable(table); err != nil {
		return core.Statement{}, err
	}
	where, params, err := g.where(conds)
	if err != nil {
		return core.Statement{}, err
	}
	return core.Statement{SQL: "DELETE FROM " + table + where, Params: params}, nil
}

// DropTable builds DROP TABLE <table>.
func (g *Generator) DropTable(table string) (core.Statement, error) {
	if err := g.CheckTable(table); err != nil {
		return core.Statement{}, err
	}
	return core.Statement{SQL: "DROP TABLE " + table}, nil
}

// where renders " WHERE c1 = ? AND c2 = ?" in condition order, or "" when
// there are no conditions.
func (g *Generator) where(conds *core.ConditionSet) (string, []core.Value, error) {
	entries := conds.Entries()
	if len(entries) == 0 {
		return "", nil, nil
	}
	preds := make([]string, len(entries))
	params := make([]core.Value, len(entries))
	for i, e := range entries {
		if err := g.checkColumn(e.Column); err != nil {
			return "", nil, err
		}
		preds[i] = e.Column + " = ?"
		params[i] = e.Value
	}
	return " WHERE " + strings.Join(preds, " AND "), params, nil
}

// CheckTable rejects empty table names, and under strict identifiers any
// name that is not a plain or schema-qualified identifier.
func (g *Generator) CheckTable(table string) error {
	if table == "" {
		return fmt.Errorf("%w: table name cannot be empty", core.ErrInvalidInput)
	}
	if g.strict && !tablePattern.MatchString(table) {
		return fmt.Errorf("%w: invalid table name %q", core.ErrInvalidInput, table)
	}
	return nil
}

func (g *Generator) checkColumn(col string) error {
	if g.strict && !identPattern.MatchString(col) {
		return fmt.Errorf("%w: invalid column name %q", core.ErrInvalidInput, col)
	}
	return nil
}
