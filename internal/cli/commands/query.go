package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/leaptable/internal/cli/output"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input  string
	Scalar bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a SELECT statement",
		Long: `Run caller-supplied SQL and render the result set.

The statement runs in its own transaction. With --scalar the query must
return a single column and the values are printed one per line.

SQL is read from the argument, from --input, or from stdin when piped.
When invoked without SQL on a terminal, enters the interactive shell.`,
		Example: `  # Execute SQL directly
  leaptable query "SELECT * FROM users WHERE age > 30"

  # Single column values
  leaptable query "SELECT name FROM users" --scalar

  # Read SQL from a file, output as CSV
  leaptable query -i report.sql -o csv

  # Interactive mode
  leaptable query`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().BoolVar(&opts.Scalar, "scalar", false, "Return the single column of the result as a list")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	query, err := readSQL(cmd, args, opts.Input)
	if err != nil {
		return err
	}
	if query == "" {
		return runShell(cmd)
	}

	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if opts.Scalar {
		values, err := cctx.Service.ExecuteSelectSQL(ctx, query)
		if err != nil {
			return err
		}
		return renderScalars(cctx, values)
	}

	rs, err := cctx.Service.Query(ctx, query)
	if err != nil {
		return err
	}
	return cctx.Renderer.RenderResultSet(rs)
}

func renderScalars(cctx *CommandContext, values []core.Value) error {
	if cctx.Renderer.Mode() == output.ModeJSON {
		if values == nil {
			values = []core.Value{}
		}
		return cctx.Renderer.RenderJSON(values)
	}
	for _, v := range values {
		cctx.Renderer.Println(v.String())
	}
	return nil
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	var ddl bool

	cmd := &cobra.Command{
		Use:   "exec [SQL]",
		Short: "Run a data-modifying or DDL statement",
		Long: `Run caller-supplied SQL in its own transaction and commit it.

By default the statement is treated as INSERT, UPDATE or DELETE and the
number of affected rows is reported. Use --ddl for CREATE, ALTER or DROP.
SQL is read from the argument or from stdin when piped.`,
		Example: `  leaptable exec "UPDATE users SET active = false WHERE age > 90"
  leaptable exec --ddl "CREATE TABLE tags (id INTEGER, label TEXT)"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readSQL(cmd, args, "")
			if err != nil {
				return err
			}

			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if ddl {
				if err := cctx.Service.ExecuteDDLSQL(cmd.Context(), query); err != nil {
					return err
				}
				cctx.Renderer.Success("Statement executed")
				return nil
			}

			n, err := cctx.Service.ExecuteUpdateSQL(cmd.Context(), query)
			if err != nil {
				return err
			}
			cctx.Renderer.Success(fmt.Sprintf("%s affected", plural(n, "row")))
			return nil
		},
	}

	cmd.Flags().BoolVar(&ddl, "ddl", false, "Execute as a DDL statement")
	return cmd
}

// readSQL returns SQL from the first argument, the input file, or piped
// stdin, in that order. It returns "" when stdin is a terminal and nothing
// else was given.
func readSQL(cmd *cobra.Command, args []string, inputFile string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.TrimSpace(args[0]), nil
	case inputFile != "":
		b, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", nil
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
