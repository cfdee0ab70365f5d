package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// LoadOptions holds options for the load command.
type LoadOptions struct {
	Jobs   int
	Format string
}

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	opts := &LoadOptions{}

	cmd := &cobra.Command{
		Use:   "load <table> <file>...",
		Short: "Bulk insert rows from files",
		Long: `Insert every row of one or more files into a table.

Supported formats are a JSON array of objects (.json), a YAML list of
mappings (.yaml, .yml) and CSV with a header row (.csv). Each file is
inserted in its own transaction; files load concurrently up to --jobs.
Empty CSV fields are inserted as NULL.`,
		Example: `  leaptable load users users.json
  leaptable load events day1.csv day2.csv --jobs 2`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, args[0], args[1:], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 4, "Files to load concurrently")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Input format: json, yaml, csv (default: from extension)")
	return cmd
}

func runLoad(cmd *cobra.Command, table string, files []string, opts *LoadOptions) error {
	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if err := cctx.Service.ValidateTableExists(ctx, table); err != nil {
		return err
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	// SQLite serializes writers; concurrent transactions would fail with SQLITE_BUSY.
	if cctx.Service.Dialect().Name == "sqlite" {
		jobs = 1
	}

	var total atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, file := range files {
		g.Go(func() error {
			rows, err := readRowsFile(file, opts.Format)
			if err != nil {
				return err
			}
			n, err := cctx.Service.InsertMany(gctx, table, rows)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", file, err)
			}
			cctx.Logger.Debug("file loaded", slog.String("file", file), slog.Int64("rows", n))
			total.Add(n)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	cctx.Renderer.Success(fmt.Sprintf("Loaded %s into %s from %s",
		plural(total.Load(), "row"), table, plural(int64(len(files)), "file")))
	return nil
}

// readRowsFile reads rows from path in the given format, or the format
// implied by the file extension when format is empty.
func readRowsFile(path, format string) ([]*core.ColumnValueSet, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := decodeRows(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}

func decodeRows(r io.Reader, format string) ([]*core.ColumnValueSet, error) {
	var rows []*core.ColumnValueSet

	switch format {
	case "json":
		if err := json.NewDecoder(r).Decode(&rows); err != nil {
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&rows); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case "csv":
		return decodeCSV(r)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", core.ErrInvalidInput, format)
	}

	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: row %d is null", core.ErrInvalidInput, i+1)
		}
	}
	return rows, nil
}

// decodeCSV reads a header row followed by records. All values are strings
// and empty fields become NULL.
func decodeCSV(r io.Reader) ([]*core.ColumnValueSet, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []*core.ColumnValueSet
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}

		row := &core.ColumnValueSet{}
		for i, col := range header {
			v := core.Null()
			if rec[i] != "" {
				v = core.String(rec[i])
			}
			if err := row.Add(col, v); err != nil {
				return nil, fmt.Errorf("line %d: %w", len(rows)+2, err)
			}
		}
		rows = append(rows, row)
	}
}
