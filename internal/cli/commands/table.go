package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/spf13/cobra"
)

// TableOptions holds the column flags shared by the table commands.
type TableOptions struct {
	Data  string
	Where string
}

// NewInsertCommand creates the insert command.
func NewInsertCommand() *cobra.Command {
	opts := &TableOptions{}

	cmd := &cobra.Command{
		Use:   "insert <table>",
		Short: "Insert a row into a table",
		Long: `Insert one row. Columns are taken from a JSON object in key order.

Pass --data - to read the object from stdin.`,
		Example: `  leaptable insert users --data '{"name":"Alice","age":30}'
  echo '{"name":"Bob"}' | leaptable insert users --data -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "Row as a JSON object")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func runInsert(cmd *cobra.Command, table string, opts *TableOptions) error {
	data, err := parseColumns(cmd.InOrStdin(), opts.Data)
	if err != nil {
		return fmt.Errorf("invalid --data: %w", err)
	}

	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := cctx.Service.Insert(cmd.Context(), table, data)
	if err != nil {
		return err
	}
	cctx.Renderer.Success(fmt.Sprintf("Inserted %s into %s", plural(n, "row"), table))
	return nil
}

// NewSelectCommand creates the select command.
func NewSelectCommand() *cobra.Command {
	opts := &TableOptions{}

	cmd := &cobra.Command{
		Use:   "select <table>",
		Short: "Select rows from a table",
		Long: `Select all columns of the rows matching every --where condition.

Conditions are a JSON object; each key becomes "column = ?" joined with AND.`,
		Example: `  leaptable select users
  leaptable select users --where '{"status":"active"}' -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Where, "where", "w", "", "Equality conditions as a JSON object")
	return cmd
}

func runSelect(cmd *cobra.Command, table string, opts *TableOptions) error {
	conds, err := parseConditions(cmd.InOrStdin(), opts.Where)
	if err != nil {
		return err
	}

	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rs, err := cctx.Service.SelectResultSet(cmd.Context(), table, conds)
	if err != nil {
		return err
	}
	return cctx.Renderer.RenderResultSet(rs)
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	opts := &TableOptions{}

	cmd := &cobra.Command{
		Use:   "update <table>",
		Short: "Update rows in a table",
		Long: `Set the columns in --data on every row matching --where.

Without --where every row is updated.`,
		Example: `  leaptable update users --data '{"age":31}' --where '{"name":"Alice"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "Columns to set as a JSON object")
	cmd.Flags().StringVarP(&opts.Where, "where", "w", "", "Equality conditions as a JSON object")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func runUpdate(cmd *cobra.Command, table string, opts *TableOptions) error {
	data, err := parseColumns(cmd.InOrStdin(), opts.Data)
	if err != nil {
		return fmt.Errorf("invalid --data: %w", err)
	}
	conds, err := parseConditions(cmd.InOrStdin(), opts.Where)
	if err != nil {
		return err
	}

	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := cctx.Service.Update(cmd.Context(), table, data, conds)
	if err != nil {
		return err
	}
	cctx.Renderer.Success(fmt.Sprintf("Updated %s in %s", plural(n, "row"), table))
	return nil
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	opts := &TableOptions{}

	cmd := &cobra.Command{
		Use:   "delete <table>",
		Short: "Delete rows from a table",
		Long: `Delete every row matching --where.

Without --where every row is deleted.`,
		Example: `  leaptable delete users --where '{"id":5}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Where, "where", "w", "", "Equality conditions as a JSON object")
	return cmd
}

func runDelete(cmd *cobra.Command, table string, opts *TableOptions) error {
	conds, err := parseConditions(cmd.InOrStdin(), opts.Where)
	if err != nil {
		return err
	}

	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := cctx.Service.Delete(cmd.Context(), table, conds)
	if err != nil {
		return err
	}
	cctx.Renderer.Success(fmt.Sprintf("Deleted %s from %s", plural(n, "row"), table))
	return nil
}

// NewDropCommand creates the drop command.
func NewDropCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "drop <table>",
		Short:   "Drop a table",
		Long:    `Drop an existing table. Fails without changes when the table does not exist.`,
		Example: `  leaptable drop tmp_import`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cctx.Service.DropTable(cmd.Context(), args[0]); err != nil {
				return err
			}
			cctx.Renderer.Success("Dropped " + args[0])
			return nil
		},
	}
}

// parseColumns decodes a JSON object into an ordered column set. "-" reads
// the object from in.
func parseColumns(in io.Reader, src string) (*core.ColumnValueSet, error) {
	src = strings.TrimSpace(src)
	if src == "-" {
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		src = strings.TrimSpace(string(b))
	}
	if src == "" {
		return nil, fmt.Errorf("%w: expected a JSON object", core.ErrInvalidInput)
	}

	set := &core.ColumnValueSet{}
	if err := json.Unmarshal([]byte(src), set); err != nil {
		return nil, err
	}
	return set, nil
}

// parseConditions is parseColumns for the optional --where flag.
func parseConditions(in io.Reader, src string) (*core.ConditionSet, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	conds, err := parseColumns(in, src)
	if err != nil {
		return nil, fmt.Errorf("invalid --where: %w", err)
	}
	return conds, nil
}

func plural(n int64, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
