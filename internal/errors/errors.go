// Package errors formats user-facing failures and provides the top-level
// boundary that turns a crash into a readable diagnostic.
package errors

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/dayglow/internal/logger"
)

// exit is replaced in tests.
var exit = os.Exit

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		exit(1)
	}
}

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("196")).
	Padding(0, 1)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	actionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// Diagnostic renders the crash panel shown by Boundary.
func Diagnostic(cause any, debugMode bool, stack []byte) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Something went wrong"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%v\n", cause)
	if debugMode && len(stack) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(string(stack)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(actionStyle.Render("Re-run the command to try again. Add --debug for details."))
	return panelStyle.Render(b.String())
}

// Boundary runs fn and, if it panics, logs the panic, prints a diagnostic
// panel to w and exits with status 1. There is no automatic recovery.
func Boundary(w io.Writer, debugMode bool, fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		stack := debug.Stack()
		logger.Error("Unhandled panic", "panic", fmt.Sprint(r), "stack", string(stack))
		fmt.Fprintln(w, Diagnostic(r, debugMode, stack))
		exit(1)
	}()
	fn()
}
