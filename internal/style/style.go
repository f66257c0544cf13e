// Package style provides terminal styling for the formula command.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	// Result style for evaluation results (green)
	Result = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2")).
		Bold(true)

	// Error style for failures (red)
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("1")).
		Bold(true)

	// Name style for variable and function names (blue)
	Name = lipgloss.NewStyle().
		Foreground(lipgloss.Color("4"))

	// Dim style for secondary information (gray)
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))
)

// Enabled reports whether output is styled. It is false when stdout is not a
// terminal or NO_COLOR is set.
var Enabled = term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""

// Render renders text in s if styling is enabled.
func Render(s lipgloss.Style, text string) string {
	if !Enabled {
		return text
	}
	return s.Render(text)
}
