package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leaptable/internal/cli/output"
	"github.com/leapstack-labs/leaptable/internal/cli/testutil"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCommand(t *testing.T) {
	p := testutil.SetupTestProject(t)

	stdout, _, err := testutil.ExecuteCommand(t, NewQueryCommand(), p.Config(t, output.ModeJSON),
		"SELECT status, COUNT(*) AS n FROM orders GROUP BY status ORDER BY status")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "open", rows[0]["status"])
	assert.InDelta(t, 2, rows[0]["n"], 0)
}

func TestQueryCommand_Scalar(t *testing.T) {
	p := testutil.SetupTestProject(t)

	stdout, _, err := testutil.ExecuteCommand(t, NewQueryCommand(), p.Config(t, output.ModeMarkdown),
		"SELECT status FROM orders ORDER BY id", "--scalar")
	require.NoError(t, err)
	assert.Equal(t, "open\nshipped\nopen\n", stdout)

	stdout, _, err = testutil.ExecuteCommand(t, NewQueryCommand(), p.Config(t, output.ModeJSON),
		"SELECT status FROM orders WHERE id = -1", "--scalar")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, stdout)

	_, _, err = testutil.ExecuteCommand(t, NewQueryCommand(), p.Config(t, output.ModeJSON),
		"SELECT id, status FROM orders", "--scalar")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestQueryCommand_InputFile(t *testing.T) {
	p := testutil.SetupTestProject(t)
	sqlFile := filepath.Join(p.Dir, "report.sql")
	require.NoError(t, os.WriteFile(sqlFile, []byte("SELECT SUM(total) AS revenue FROM orders\n"), 0o600))

	stdout, _, err := testutil.ExecuteCommand(t, NewQueryCommand(), p.Config(t, output.ModeCSV), "-i", sqlFile)
	require.NoError(t, err)
	assert.Equal(t, "revenue\n66.75\n", stdout)
}

func TestQueryCommand_InvalidSQL(t *testing.T) {
	p := testutil.SetupTestProject(t)

	_, _, err := testutil.ExecuteCommand(t, NewQueryCommand(), p.Config(t, output.ModeJSON), "SELEC nonsense")
	assert.ErrorIs(t, err, core.ErrExecution)
}

func TestExecCommand(t *testing.T) {
	p := testutil.SetupTestProject(t)
	cfg := p.Config(t, output.ModeJSON)

	_, stderr, err := testutil.ExecuteCommand(t, NewExecCommand(), cfg, "UPDATE orders SET status = 'closed' WHERE status = 'open'")
	require.NoError(t, err)
	assert.Contains(t, stderr, "2 rows affected")

	_, stderr, err = testutil.ExecuteCommand(t, NewExecCommand(), cfg, "--ddl", "CREATE TABLE tags (id INTEGER, label TEXT)")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Statement executed")

	_, _, err = testutil.ExecuteCommand(t, NewCheckCommand(), cfg, "tags")
	assert.NoError(t, err)

	// Empty stdin yields no SQL.
	_, _, err = testutil.ExecuteCommand(t, NewExecCommand(), cfg)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCheckCommand(t *testing.T) {
	p := testutil.SetupTestProject(t)

	tests := []struct {
		name       string
		table      string
		wantStatus string
		wantErr    error
	}{
		{"exists", "users", "exists", nil},
		{"missing", "ghosts", "missing", core.ErrTableNotFound},
		{"invalid name", "users; DROP TABLE users", "invalid", core.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := testutil.ExecuteCommand(t, NewCheckCommand(), p.Config(t, output.ModeJSON), tt.table)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			var res checkResult
			require.NoError(t, json.Unmarshal([]byte(stdout), &res))
			assert.Equal(t, tt.table, res.Table)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestDescribeCommand(t *testing.T) {
	p := testutil.SetupTestProject(t)

	stdout, _, err := testutil.ExecuteCommand(t, NewDescribeCommand(), p.Config(t, output.ModeJSON), "orders")
	require.NoError(t, err)

	var meta core.TableMetadata
	require.NoError(t, json.Unmarshal([]byte(stdout), &meta))
	assert.Equal(t, "orders", meta.Name)
	assert.Equal(t, int64(3), meta.RowCount)
	require.Len(t, meta.Columns, 4)
	assert.Equal(t, "id", meta.Columns[0].Name)
	assert.True(t, meta.Columns[0].PrimaryKey)

	_, _, err = testutil.ExecuteCommand(t, NewDescribeCommand(), p.Config(t, output.ModeJSON), "ghosts")
	assert.ErrorIs(t, err, core.ErrTableNotFound)
}

func TestAdaptersCommand(t *testing.T) {
	p := testutil.SetupTestProject(t)

	stdout, _, err := testutil.ExecuteCommand(t, NewAdaptersCommand(), p.Config(t, output.ModeJSON))
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(stdout), &names))
	assert.Contains(t, names, "sqlite")
}

func TestShell_HandleLine(t *testing.T) {
	p := testutil.SetupTestProject(t)

	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetContext(contextWithConfig(p.Config(t, output.ModeCSV)))

	cctx, cleanup, err := NewCommandContext(cmd)
	require.NoError(t, err)
	defer cleanup()

	sh := &shell{cctx: cctx, out: out, errOut: errOut}
	ctx := context.Background()

	// Multi-line statement runs once the semicolon arrives.
	assert.False(t, sh.handleLine(ctx, "SELECT status"))
	assert.Empty(t, out.String())
	assert.False(t, sh.handleLine(ctx, "FROM orders WHERE id = 2;"))
	assert.Contains(t, out.String(), "status\nshipped\n")

	out.Reset()
	assert.False(t, sh.handleLine(ctx, "DELETE FROM orders WHERE status = 'open';"))
	assert.Contains(t, out.String(), "2 rows affected")

	out.Reset()
	assert.False(t, sh.handleLine(ctx, "CREATE TABLE notes (body TEXT);"))
	assert.Contains(t, out.String(), "OK")

	out.Reset()
	assert.False(t, sh.handleLine(ctx, ".check notes"))
	assert.Equal(t, "notes: exists\n", out.String())

	assert.False(t, sh.handleLine(ctx, "SELECT * FROM nowhere;"))
	assert.Contains(t, errOut.String(), "Error:")

	errOut.Reset()
	assert.False(t, sh.handleLine(ctx, ".bogus"))
	assert.Contains(t, errOut.String(), "Unknown command: .bogus")

	out.Reset()
	assert.False(t, sh.handleLine(ctx, ".help"))
	assert.True(t, strings.Contains(out.String(), ".schema <table>"))

	assert.True(t, sh.handleLine(ctx, ".quit"))
}
