package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const (
	shellPrompt     = "leaptable> "
	shellContPrompt = "      ...> "
)

// statementKind is how the shell routes a SQL statement to the service.
type statementKind int

const (
	kindQuery statementKind = iota
	kindUpdate
	kindDDL
)

// NewShellCommand creates the interactive shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive SQL shell",
		Long: `Start an interactive shell against the configured target.

Statements end with a semicolon and may span several lines. Queries are
rendered as tables; other statements report affected rows. Type .help for
the dot-commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd)
		},
	}
}

func runShell(cmd *cobra.Command) error {
	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile(),
		AutoComplete:    newShellCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	target := cctx.Cfg.Target
	cctx.Renderer.Printf("leaptable shell (%s: %s)\n", target.Type, target.Database)
	cctx.Renderer.Println("Type .help for commands, .quit to exit")
	cctx.Renderer.Println()

	sh := &shell{cctx: cctx, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
	ctx := cmd.Context()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			sh.buf.Reset()
			rl.SetPrompt(shellPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if sh.handleLine(ctx, line) {
			return nil
		}
		if sh.buf.Len() > 0 {
			rl.SetPrompt(shellContPrompt)
		} else {
			rl.SetPrompt(shellPrompt)
		}
	}
}

// shell holds the state of one interactive session.
type shell struct {
	cctx   *CommandContext
	out    io.Writer
	errOut io.Writer
	buf    strings.Builder
}

// handleLine processes one line of input and reports whether the shell
// should exit. SQL accumulates until a line ends with a semicolon.
func (s *shell) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if s.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return s.dotCommand(ctx, line)
	}

	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buf.WriteString(" ")
		return false
	}

	query := strings.TrimSpace(strings.TrimSuffix(s.buf.String(), ";"))
	s.buf.Reset()

	if err := s.execute(ctx, query); err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
	_, _ = fmt.Fprintln(s.out)
	return false
}

func (s *shell) execute(ctx context.Context, query string) error {
	svc := s.cctx.Service
	switch classifySQL(query) {
	case kindQuery:
		rs, err := svc.Query(ctx, query)
		if err != nil {
			return err
		}
		return s.cctx.Renderer.RenderResultSet(rs)
	case kindDDL:
		if err := svc.ExecuteDDLSQL(ctx, query); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(s.out, "OK")
	default:
		n, err := svc.ExecuteUpdateSQL(ctx, query)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(s.out, "%s affected\n", plural(n, "row"))
	}
	return nil
}

func (s *shell) dotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printShellHelp(s.out)

	case ".check":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .check <table>")
			return false
		}
		check := s.cctx.Service.CheckTable(ctx, parts[1])
		_, _ = fmt.Fprintf(s.out, "%s: %s\n", check.Table, check.Status)

	case ".schema", ".describe":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(s.errOut, "Usage: %s <table>\n", command)
			return false
		}
		if err := s.describe(ctx, parts[1]); err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}

	case ".clear":
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func (s *shell) describe(ctx context.Context, table string) error {
	if err := s.cctx.Service.ValidateTableExists(ctx, table); err != nil {
		return err
	}
	meta, err := s.cctx.Adapter.GetTableMetadata(ctx, table)
	if err != nil {
		return err
	}
	return s.cctx.Renderer.RenderMetadata(meta)
}

// classifySQL routes a statement by its first keyword.
func classifySQL(query string) statementKind {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return kindUpdate
	}
	switch strings.ToLower(strings.TrimLeft(fields[0], "(")) {
	case "select", "with", "show", "pragma", "describe", "desc", "explain", "values", "table":
		return kindQuery
	case "create", "alter", "drop", "truncate", "rename", "comment":
		return kindDDL
	default:
		return kindUpdate
	}
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  .help             Show this help message
  .check <table>    Report whether a table exists
  .schema <table>   Show the columns of a table
  .clear            Clear the screen
  .quit / .exit     Exit the shell

Tips:
  - SQL statements must end with a semicolon (;)
  - SELECT, WITH, SHOW and EXPLAIN render a result table
  - CREATE, ALTER and DROP run as DDL; anything else reports affected rows
`
	_, _ = fmt.Fprintln(w, help)
}

// historyFile returns the shell history path in the user cache directory,
// or "" to disable history.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "leaptable")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ""
	}
	return filepath.Join(dir, "shell_history")
}

func newShellCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".check"),
		readline.PcItem(".schema"),
		readline.PcItem(".describe"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
		readline.PcItem("SELECT"),
		readline.PcItem("INSERT INTO"),
		readline.PcItem("UPDATE"),
		readline.PcItem("DELETE FROM"),
		readline.PcItem("CREATE TABLE"),
		readline.PcItem("DROP TABLE"),
	)
}
