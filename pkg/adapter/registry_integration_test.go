package adapter_test

import (
	"context"
	"testing"

	"github.com/leapstack-labs/leaptable/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/leaptable/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/leaptable/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leaptable/pkg/adapters/sqlite"
)

func TestIsRegistered(t *testing.T) {
	tests := []struct {
		name        string
		adapterName string
		expected    bool
	}{
		{"sqlite registered", "sqlite", true},
		{"postgres registered", "postgres", true},
		{"mysql registered", "mysql", true},
		{"unknown not registered", "unknown_db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.IsRegistered(tt.adapterName), "IsRegistered(%q)", tt.adapterName)
		})
	}
}

func TestNewAdapter_SQLite(t *testing.T) {
	a, err := adapter.NewAdapter(adapter.Config{Type: "sqlite"}, nil)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "sqlite", a.Dialect().Name)

	require.NoError(t, a.Connect(context.Background(), adapter.Config{Type: "sqlite", Path: ":memory:"}))
	defer func() { _ = a.Close() }()

	var one int
	require.NoError(t, a.Session().QueryRowContext(context.Background(), "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestNewAdapter_DialectsMatchTypes(t *testing.T) {
	for _, name := range []string{"sqlite", "postgres", "mysql"} {
		a, err := adapter.NewAdapter(adapter.Config{Type: name}, nil)
		require.NoError(t, err)
		assert.Equal(t, name, a.Dialect().Name)
		assert.Nil(t, a.Session(), "session is nil before Connect")
	}
}
