package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Entry is one column/value pair of a ColumnValueSet.
type Entry struct {
	Column string
	Value  Value
}

// ColumnValueSet is an ordered mapping from column name to Value. Iteration
// order is insertion order; it decides the order of columns in generated SQL
// and of the bound parameters.
//
// The zero value is an empty set ready to use. A nil *ColumnValueSet is
// treated as empty by every read method.
type ColumnValueSet struct {
	entries []Entry
	index   map[string]int
}

// ConditionSet has the shape of a ColumnValueSet and is read as an AND of
// equality predicates. An empty or nil ConditionSet means no WHERE clause.
type ConditionSet = ColumnValueSet

// NewColumnValueSet builds a set from entries, failing on empty or duplicate
// column names.
func NewColumnValueSet(entries ...Entry) (*ColumnValueSet, error) {
	s := &ColumnValueSet{}
	for _, e := range entries {
		if err := s.Add(e.Column, e.Value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Columns is a convenience constructor taking alternating column names and
// Go values, e.g. Columns("name", "Alice", "age", 30).
func Columns(pairs ...any) (*ColumnValueSet, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of arguments to Columns", ErrInvalidInput)
	}
	s := &ColumnValueSet{}
	for i := 0; i < len(pairs); i += 2 {
		col, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("%w: column name at position %d is %T, not string", ErrInvalidInput, i, pairs[i])
		}
		v, err := ValueOf(pairs[i+1])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		if err := s.Add(col, v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustColumns is like Columns but panics on error. Intended for tests and
// static data.
func MustColumns(pairs ...any) *ColumnValueSet {
	s, err := Columns(pairs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Add appends a column. It fails if the name is empty or already present.
func (s *ColumnValueSet) Add(column string, v Value) error {
	if column == "" {
		return fmt.Errorf("%w: empty column name", ErrInvalidInput)
	}
	if _, ok := s.index[column]; ok {
		return fmt.Errorf("%w: duplicate column %q", ErrInvalidInput, column)
	}
	s.append(column, v)
	return nil
}

// Set assigns a column. An existing column keeps its position and gets the
// new value; a new column is appended.
func (s *ColumnValueSet) Set(column string, v Value) error {
	if column == "" {
		return fmt.Errorf("%w: empty column name", ErrInvalidInput)
	}
	if i, ok := s.index[column]; ok {
		s.entries[i].Value = v
		return nil
	}
	s.append(column, v)
	return nil
}

func (s *ColumnValueSet) append(column string, v Value) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[column] = len(s.entries)
	s.entries = append(s.entries, Entry{Column: column, Value: v})
}

// Get returns the value for column.
func (s *ColumnValueSet) Get(column string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	i, ok := s.index[column]
	if !ok {
		return Value{}, false
	}
	return s.entries[i].Value, true
}

// Len returns the number of columns.
func (s *ColumnValueSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns an ordered snapshot of the set. Callers that need both
// column names and values should derive them from one snapshot.
func (s *ColumnValueSet) Entries() []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Columns returns the column names in order.
func (s *ColumnValueSet) Columns() []string {
	entries := s.Entries()
	cols := make([]string, len(entries))
	for i, e := range entries {
		cols[i] = e.Column
	}
	return cols
}

// Values returns the values in column order.
func (s *ColumnValueSet) Values() []Value {
	entries := s.Entries()
	vals := make([]Value, len(entries))
	for i, e := range entries {
		vals[i] = e.Value
	}
	return vals
}

// MarshalJSON encodes the set as a JSON object in column order.
func (s *ColumnValueSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Column)
		if err != nil {
			return nil, err
		}
		val, err := e.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object, keeping key order. Nested
// objects and arrays are rejected.
func (s *ColumnValueSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidInput)
	}

	*s = ColumnValueSet{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		col, _ := tok.(string)

		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, ok := tok.(json.Delim); ok {
			return fmt.Errorf("%w: column %q must hold a scalar", ErrInvalidInput, col)
		}
		v, err := ValueOf(tok)
		if err != nil {
			return fmt.Errorf("column %q: %w", col, err)
		}
		if err := s.Add(col, v); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// UnmarshalYAML decodes a flat YAML mapping, keeping key order.
func (s *ColumnValueSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: expected a mapping", ErrInvalidInput, node.Line)
	}
	*s = ColumnValueSet{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("%w: line %d: column %q must hold a scalar", ErrInvalidInput, val.Line, key.Value)
		}
		v, err := yamlScalar(val)
		if err != nil {
			return fmt.Errorf("column %q: %w", key.Value, err)
		}
		if err := s.Add(key.Value, v); err != nil {
			return err
		}
	}
	return nil
}

func yamlScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return Bool(b), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return Float(f), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return Time(t), nil
	default:
		return String(n.Value), nil
	}
}
