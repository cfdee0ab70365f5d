package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/leaptable/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMySQLConfig(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		wantAddr string
	}{
		{"defaults", adapter.Config{Database: "app"}, "localhost:3306"},
		{"explicit", adapter.Config{Host: "db", Port: 3307, Database: "app"}, "db:3307"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := buildMySQLConfig(tt.config)
			assert.Equal(t, "tcp", mc.Net)
			assert.Equal(t, tt.wantAddr, mc.Addr)
			assert.Equal(t, "app", mc.DBName)
			assert.True(t, mc.ParseTime)
			assert.Equal(t, time.UTC, mc.Loc)
		})
	}
}

func TestBuildMySQLConfig_Options(t *testing.T) {
	mc := buildMySQLConfig(adapter.Config{
		Username: "root",
		Password: "pw",
		Database: "app",
		Options:  map[string]string{"charset": "utf8mb4"},
	})

	assert.Equal(t, "utf8mb4", mc.Params["charset"])
	dsn := mc.FormatDSN()
	assert.Contains(t, dsn, "root:pw@tcp(localhost:3306)/app")
	assert.Contains(t, dsn, "charset=utf8mb4")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestAdapter_GetTableMetadataQualifiesDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	adp := New(nil)
	adp.DB = db
	adp.Cfg = adapter.Config{Database: "app"}

	mock.ExpectQuery("information_schema.columns").
		WithArgs("app", "users").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE", "IS_NULLABLE", "ORDINAL_POSITION"}).
			AddRow("id", "int", "NO", 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM app.users`).
		WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(3))

	meta, err := adp.GetTableMetadata(context.Background(), "users")
	require.NoError(t, err)
	assert.Equal(t, "app", meta.Schema)
	assert.Equal(t, int64(3), meta.RowCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew(t *testing.T) {
	adp := New(nil)
	assert.False(t, adp.IsConnected())
	assert.Equal(t, "mysql", adp.Dialect().Name)
	assert.True(t, adapter.IsRegistered("mysql"))
}
