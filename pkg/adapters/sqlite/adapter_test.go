package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leaptable/pkg/adapter"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		pragmas map[string]string
		want    string
	}{
		{"plain path", "data.db", nil, "data.db"},
		{"memory", ":memory:", nil, ":memory:"},
		{
			name:    "pragmas sorted",
			path:    "data.db",
			pragmas: map[string]string{"foreign_keys": "1", "busy_timeout": "5000"},
			want:    "file:data.db?_pragma=busy_timeout%285000%29&_pragma=foreign_keys%281%29",
		},
		{
			name:    "existing uri",
			path:    "file:data.db",
			pragmas: map[string]string{"journal_mode": "wal"},
			want:    "file:data.db?_pragma=journal_mode%28wal%29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.path, tt.pragmas))
		})
	}
}

func TestNew(t *testing.T) {
	adp := New(nil)
	assert.False(t, adp.IsConnected())
	assert.Equal(t, "sqlite", adp.Dialect().Name)
	assert.True(t, adapter.IsRegistered("sqlite"))
}

func TestAdapter_GetTableMetadata(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Type: "sqlite"}))
	defer func() { _ = adp.Close() }()

	_, err := adp.Session().ExecContext(ctx, `CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT
	)`)
	require.NoError(t, err)
	_, err = adp.Session().ExecContext(ctx, "INSERT INTO users (name) VALUES ('Alice')")
	require.NoError(t, err)

	meta, err := adp.GetTableMetadata(ctx, "users")
	require.NoError(t, err)

	assert.Equal(t, "main", meta.Schema)
	assert.Equal(t, "users", meta.Name)
	assert.Equal(t, int64(1), meta.RowCount)
	assert.Equal(t, []core.Column{
		{Name: "id", Type: "INTEGER", Nullable: false, PrimaryKey: true, Position: 1},
		{Name: "name", Type: "TEXT", Nullable: false, Position: 2},
		{Name: "email", Type: "TEXT", Nullable: true, Position: 3},
	}, meta.Columns)

	_, err = adp.GetTableMetadata(ctx, "ghost")
	assert.ErrorIs(t, err, core.ErrTableNotFound)
}

func TestAdapter_FileWithPragmas(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{
		Type:   "sqlite",
		Path:   path,
		Params: map[string]any{"pragmas": map[string]any{"foreign_keys": 1}},
	}))
	defer func() { _ = adp.Close() }()

	var fk int
	require.NoError(t, adp.Session().QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestAdapter_NotConnected(t *testing.T) {
	_, err := New(nil).GetTableMetadata(context.Background(), "users")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
}
