package duckdb

import (
	"context"
	"testing"

	"github.com/leapstack-labs/leaptable/pkg/adapter"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	adp := New(nil)

	assert.Nil(t, adp.DB, "DB should be nil before Connect")
	assert.False(t, adp.IsConnected())
	assert.Equal(t, "duckdb", adp.Dialect().Name)
	assert.True(t, adapter.IsRegistered("duckdb"))
}

func TestAdapter_ConnectAndDescribe(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{
		Type:   "duckdb",
		Params: map[string]any{"settings": map[string]any{"threads": 1}},
	}))
	defer func() { _ = adp.Close() }()

	_, err := adp.Session().ExecContext(ctx, "CREATE TABLE users (id INTEGER NOT NULL, name VARCHAR)")
	require.NoError(t, err)
	_, err = adp.Session().ExecContext(ctx, "INSERT INTO users VALUES (1, 'Alice'), (2, 'Bob')")
	require.NoError(t, err)

	meta, err := adp.GetTableMetadata(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, "main", meta.Schema)
	assert.Equal(t, int64(2), meta.RowCount)
	require.Len(t, meta.Columns, 2)
	assert.Equal(t, "id", meta.Columns[0].Name)
	assert.False(t, meta.Columns[0].Nullable)

	_, err = adp.GetTableMetadata(ctx, "ghost")
	assert.ErrorIs(t, err, core.ErrTableNotFound)
}

func TestAdapter_ConnectBadParams(t *testing.T) {
	err := New(nil).Connect(context.Background(), adapter.Config{
		Type:   "duckdb",
		Params: map[string]any{"bogus": true},
	})
	assert.Error(t, err)
}
