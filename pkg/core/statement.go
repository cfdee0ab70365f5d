package core

import "fmt"

// Statement is SQL text with positional placeholders plus the parameters to
// bind, in placeholder order. Statements are built per call and consumed
// immediately.
type Statement struct {
	SQL    string
	Params []Value
}

// Args returns the parameters as database/sql arguments.
func (s Statement) Args() []any {
	if len(s.Params) == 0 {
		return nil
	}
	args := make([]any, len(s.Params))
	for i, p := range s.Params {
		args[i] = p.Any()
	}
	return args
}

// Row is one result tuple. Values are positional; no column-name mapping is
// performed.
type Row []Value

// ResultSet holds the rows returned by a query together with the column names
// reported by the driver.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Scalars returns the values of a single-column result. Results with more
// than one column fail with ErrInvalidInput.
func (r *ResultSet) Scalars() ([]Value, error) {
	if r == nil {
		return nil, nil
	}
	if len(r.Columns) > 1 {
		return nil, fmt.Errorf("%w: query returned %d columns, expected 1", ErrInvalidInput, len(r.Columns))
	}
	out := make([]Value, 0, len(r.Rows))
	for _, row := range r.Rows {
		if len(row) == 0 {
			out = append(out, Null())
			continue
		}
		out = append(out, row[0])
	}
	return out, nil
}
