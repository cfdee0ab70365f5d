package postgres

import (
	"context"
	"testing"

	"github.com/leapstack-labs/leaptable/pkg/adapter"
	"github.com/stretchr/testify/assert"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name:     "defaults",
			config:   adapter.Config{Database: "testdb"},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable",
		},
		{
			name: "full config",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     5433,
				Database: "mydb",
				Username: "admin",
				Password: "secret",
			},
			expected: "host=db.example.com port=5433 dbname=mydb sslmode=disable user=admin password=secret",
		},
		{
			name: "sslmode option",
			config: adapter.Config{
				Database: "testdb",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=require",
		},
		{
			name: "schema and extra options",
			config: adapter.Config{
				Database: "testdb",
				Schema:   "analytics",
				Options:  map[string]string{"connect_timeout": "5", "application_name": "leaptable"},
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable search_path=analytics application_name=leaptable connect_timeout=5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestNew(t *testing.T) {
	adp := New(nil)

	assert.NotNil(t, adp)
	assert.Nil(t, adp.DB, "DB should be nil before Connect")
	assert.False(t, adp.IsConnected(), "should not be connected initially")
	assert.Equal(t, "postgres", adp.Dialect().Name)

	var _ adapter.Adapter = adp
}

func TestAdapter_NotConnected(t *testing.T) {
	_, err := New(nil).GetTableMetadata(context.Background(), "users")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
}

func TestAdapter_ConnectFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adp := New(nil)
	err := adp.Connect(ctx, adapter.Config{Host: "127.0.0.1", Port: 1, Database: "nope"})
	assert.Error(t, err)
	assert.False(t, adp.IsConnected())
}
