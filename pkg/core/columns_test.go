package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestColumnValueSet_Order(t *testing.T) {
	s := &ColumnValueSet{}
	require.NoError(t, s.Add("name", String("Alice")))
	require.NoError(t, s.Add("age", Int(30)))
	require.NoError(t, s.Add("active", Bool(true)))

	assert.Equal(t, []string{"name", "age", "active"}, s.Columns())
	assert.Equal(t, []Value{String("Alice"), Int(30), Bool(true)}, s.Values())
	assert.Equal(t, 3, s.Len())

	// Set on an existing column keeps its position.
	require.NoError(t, s.Set("name", String("Bob")))
	require.NoError(t, s.Set("email", String("bob@example.com")))
	assert.Equal(t, []string{"name", "age", "active", "email"}, s.Columns())

	v, ok := s.Get("name")
	require.True(t, ok)
	assert.Equal(t, String("Bob"), v)
}

func TestColumnValueSet_Invalid(t *testing.T) {
	s := &ColumnValueSet{}
	require.NoError(t, s.Add("id", Int(1)))

	assert.ErrorIs(t, s.Add("id", Int(2)), ErrInvalidInput)
	assert.ErrorIs(t, s.Add("", Int(2)), ErrInvalidInput)
	assert.ErrorIs(t, s.Set("", Int(2)), ErrInvalidInput)

	_, err := NewColumnValueSet(Entry{"a", Int(1)}, Entry{"a", Int(2)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Columns("a", 1, "b")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Columns(1, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Columns("a", []int{1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestColumnValueSet_Nil(t *testing.T) {
	var s *ColumnValueSet
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Entries())
	assert.Empty(t, s.Columns())
	_, ok := s.Get("x")
	assert.False(t, ok)
}

func TestColumnValueSet_EntriesIsSnapshot(t *testing.T) {
	s := MustColumns("a", 1)
	entries := s.Entries()
	entries[0].Column = "mutated"
	assert.Equal(t, []string{"a"}, s.Columns())
}

func TestColumnValueSet_JSON(t *testing.T) {
	var s ColumnValueSet
	err := json.Unmarshal([]byte(`{"name":"Alice","age":30,"score":9.5,"active":true,"note":null}`), &s)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "score", "active", "note"}, s.Columns())
	assert.Equal(t, []Value{String("Alice"), Int(30), Float(9.5), Bool(true), Null()}, s.Values())

	out, err := json.Marshal(&s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Alice","age":30,"score":9.5,"active":true,"note":null}`, string(out))
	assert.Equal(t, `{"name":"Alice","age":30,"score":9.5,"active":true,"note":null}`, string(out))
}

func TestColumnValueSet_JSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"array", `[1,2]`},
		{"nested object", `{"a":{"b":1}}`},
		{"nested array", `{"a":[1]}`},
		{"duplicate key", `{"a":1,"a":2}`},
		{"empty key", `{"":1}`},
		{"truncated", `{"a":1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ColumnValueSet
			err := json.Unmarshal([]byte(tt.input), &s)
			require.Error(t, err)
			if !errors.Is(err, ErrInvalidInput) {
				var syntaxErr *json.SyntaxError
				assert.ErrorAs(t, err, &syntaxErr)
			}
		})
	}
}

func TestColumnValueSet_YAML(t *testing.T) {
	src := `
name: Alice
age: 30
ratio: 0.25
active: false
joined: 2024-01-15T10:00:00Z
nickname: ~
zip: "02134"
`
	var s ColumnValueSet
	require.NoError(t, yaml.Unmarshal([]byte(src), &s))

	assert.Equal(t, []string{"name", "age", "ratio", "active", "joined", "nickname", "zip"}, s.Columns())
	assert.Equal(t, []Value{
		String("Alice"),
		Int(30),
		Float(0.25),
		Bool(false),
		Time(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)),
		Null(),
		String("02134"),
	}, s.Values())
}

func TestColumnValueSet_YAMLRejectsNesting(t *testing.T) {
	var s ColumnValueSet
	err := yaml.Unmarshal([]byte("a:\n  b: 1\n"), &s)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = yaml.Unmarshal([]byte("- 1\n- 2\n"), &s)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResultSet_Scalars(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"name"},
		Rows:    []Row{{String("a")}, {String("b")}},
	}
	vals, err := rs.Scalars()
	require.NoError(t, err)
	assert.Equal(t, []Value{String("a"), String("b")}, vals)

	rs = &ResultSet{Columns: []string{"id", "name"}, Rows: []Row{{Int(1), String("a")}}}
	_, err = rs.Scalars()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStatement_Args(t *testing.T) {
	assert.Nil(t, Statement{SQL: "DROP TABLE t"}.Args())
	assert.Equal(t, []any{"x", nil}, Statement{Params: []Value{String("x"), Null()}}.Args())
}

func TestTableError(t *testing.T) {
	missing := &TableError{Table: "users", Status: TableMissing}
	assert.ErrorIs(t, missing, ErrTableNotFound)
	assert.NotErrorIs(t, missing, ErrTableInaccessible)
	assert.Equal(t, "table 'users' does not exist", missing.Error())

	cause := errors.New("connection refused")
	inaccessible := &TableError{Table: "users", Status: TableInaccessible, Cause: cause}
	assert.ErrorIs(t, inaccessible, ErrTableInaccessible)
	assert.ErrorIs(t, inaccessible, cause)
	assert.NotErrorIs(t, inaccessible, ErrTableNotFound)
	assert.Contains(t, inaccessible.Error(), "connection refused")

	execErr := &ExecError{Op: "insert", SQL: "INSERT", Err: cause}
	assert.ErrorIs(t, execErr, ErrExecution)
	assert.ErrorIs(t, execErr, cause)
	assert.Equal(t, "failed to insert: connection refused", execErr.Error())
}
