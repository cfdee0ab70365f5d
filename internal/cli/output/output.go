// Package output renders command results for the leaptable CLI.
//
// A Renderer picks its mode once: explicit formats are honored as given,
// and "auto" resolves to a styled table on a terminal and to markdown when
// output is piped.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode is an output format.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "table"
	ModeJSON     Mode = "json"
	ModeCSV      Mode = "csv"
	ModeMarkdown Mode = "md"
)

// Renderer writes results and status lines.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a Renderer, detecting whether w is a terminal.
func NewRenderer(w, errW io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(w, errW, mode, isTerminal(w))
}

// NewRendererWithTTY creates a Renderer with explicit terminal detection.
// Styles are only colored on a terminal.
func NewRendererWithTTY(w, errW io.Writer, mode Mode, isTTY bool) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if !isTTY {
		lr.SetColorProfile(termenv.Ascii)
	}

	if mode == "" || mode == ModeAuto {
		mode = ModeMarkdown
		if isTTY {
			mode = ModeText
		}
	}

	return &Renderer{
		w:      w,
		errW:   errW,
		mode:   mode,
		isTTY:  isTTY,
		styles: NewStyles(lr),
	}
}

// Mode returns the resolved output mode.
func (r *Renderer) Mode() Mode { return r.mode }

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the renderer's styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the output writer.
func (r *Renderer) Writer() io.Writer { return r.w }

// Println writes a line to the output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// Printf writes formatted output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	if r.mode == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		return
	}
	style := r.styles.Header1
	if level > 1 {
		style = r.styles.Header2
	}
	r.Println(style.Render(text))
}

// Success writes a status line for a completed operation.
func (r *Renderer) Success(msg string) {
	r.status(r.w, r.styles.StatusSuccess, r.styles.Success, msg)
}

// Warning writes a warning to the error writer.
func (r *Renderer) Warning(msg string) {
	r.status(r.errW, r.styles.StatusWarning, r.styles.Warning, msg)
}

// Error writes an error to the error writer.
func (r *Renderer) Error(msg string) {
	r.status(r.errW, r.styles.StatusError, r.styles.Error, msg)
}

func (r *Renderer) status(w io.Writer, icon, style lipgloss.Style, msg string) {
	if r.mode == ModeJSON || r.mode == ModeCSV {
		// Keep machine-readable stdout clean.
		w = r.errW
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", icon.String(), style.Render(msg))
}

// FormatHeader returns a markdown header.
func FormatHeader(level int, text string) string {
	prefix := "#"
	for i := 1; i < level; i++ {
		prefix += "#"
	}
	return prefix + " " + text
}

// FormatKeyValue returns a markdown list item.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
