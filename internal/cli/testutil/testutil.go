// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/leaptable/internal/cli/config"
	"github.com/leapstack-labs/leaptable/internal/cli/output"
	dbfixtures "github.com/leapstack-labs/leaptable/internal/testutil"
	"github.com/spf13/cobra"

	_ "modernc.org/sqlite" // sqlite driver
)

// Project is a temporary leaptable project backed by a SQLite file.
type Project struct {
	Dir        string
	ConfigPath string
	Database   string
}

// SetupTestProject creates a temporary project holding leaptable.yaml, a
// SQLite database with the fixture tables, and data files for bulk loads.
func SetupTestProject(t *testing.T) *Project {
	t.Helper()

	tmpDir := t.TempDir()
	p := &Project{
		Dir:        tmpDir,
		ConfigPath: filepath.Join(tmpDir, "leaptable.yaml"),
		Database:   filepath.Join(tmpDir, "test.db"),
	}

	db, err := sql.Open("sqlite", p.Database)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := dbfixtures.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("failed to migrate fixtures: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close sqlite: %v", err)
	}

	files := map[string]string{
		"leaptable.yaml": `target:
  type: sqlite
  database: test.db
output: json
`,
		"users.json": `[{"name":"Alice","age":30},{"name":"Bob","age":25,"email":null}]`,
		"users.yaml": "- name: Carol\n  age: 41\n- name: Dave\n",
		"users.csv":  "name,email\nErin,erin@example.com\nFrank,\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}

	return p
}

// Config returns the loaded configuration of the project with the given
// output mode.
func (p *Project) Config(t *testing.T, mode output.Mode) *config.Config {
	t.Helper()

	cfg, err := config.LoadConfig(p.ConfigPath, nil)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg.OutputFormat = string(mode)
	return cfg
}

// ExecuteCommand runs cmd with args and cfg in its context, returning
// stdout and stderr.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(config.NewContext(context.Background(), cfg))
	return out.String(), errOut.String(), err
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
