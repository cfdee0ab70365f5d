package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leaptable/internal/cli/output"
	"github.com/leapstack-labs/leaptable/pkg/adapter"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/spf13/cobra"
)

// checkResult is the JSON shape of the check command.
type checkResult struct {
	Table  string `json:"table"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <table>",
		Short: "Check whether a table exists",
		Long: `Probe the target for a table and report one of: exists, missing,
inaccessible. Exits non-zero unless the table exists.`,
		Example: `  leaptable check users
  leaptable check analytics.events -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			check := cctx.Service.CheckTable(cmd.Context(), args[0])
			res := checkResult{Table: check.Table, Status: check.Status.String()}
			if check.Cause != nil {
				res.Error = check.Cause.Error()
			}

			r := cctx.Renderer
			switch {
			case r.Mode() == output.ModeJSON:
				if err := r.RenderJSON(res); err != nil {
					return err
				}
			case check.Status == core.TableExists:
				r.Success(fmt.Sprintf("%s: %s", res.Table, output.StatusLabel(res.Status)))
			case check.Status == core.TableMissing:
				r.Warning(fmt.Sprintf("%s: %s", res.Table, output.StatusLabel(res.Status)))
			default:
				r.Error(fmt.Sprintf("%s: %s (%s)", res.Table, output.StatusLabel(res.Status), res.Error))
			}
			return check.Err()
		},
	}
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "describe <table>",
		Aliases: []string{"schema"},
		Short:   "Show the columns of a table",
		Long:    `Show column names, types, nullability and the row count of a table.`,
		Example: `  leaptable describe users`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			if err := cctx.Service.ValidateTableExists(ctx, args[0]); err != nil {
				return err
			}
			meta, err := cctx.Adapter.GetTableMetadata(ctx, args[0])
			if err != nil {
				return err
			}
			return cctx.Renderer.RenderMetadata(meta)
		},
	}
}

// NewAdaptersCommand creates the adapters command.
func NewAdaptersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List available database adapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, err := NewCommandContextWithoutService(cmd)
			if err != nil {
				return err
			}

			names := adapter.ListAdapters()
			if cctx.Renderer.Mode() == output.ModeJSON {
				return cctx.Renderer.RenderJSON(names)
			}
			if len(names) == 0 {
				return errors.New("no adapters registered")
			}

			rs := &core.ResultSet{Columns: []string{"adapter", "current"}}
			for _, name := range names {
				rs.Rows = append(rs.Rows, core.Row{
					core.String(name),
					core.Bool(cctx.Cfg.Target != nil && cctx.Cfg.Target.Type == name),
				})
			}
			return cctx.Renderer.RenderResultSet(rs)
		},
	}
}
