package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains the pre-configured lipgloss styles for the interview.
type Styles struct {
	// Title style for the header line.
	Title lipgloss.Style

	// Question style for the question being asked.
	Question lipgloss.Style

	// Muted style for hints and progress.
	Muted lipgloss.Style

	// Success style for confirmation lines.
	Success lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// InputField style for the answer input box.
	InputField lipgloss.Style

	// Help style for the key binding footer.
	Help lipgloss.Style
}

// DefaultStyles returns the default interview styles.
func DefaultStyles() *Styles {
	primary := lipgloss.Color("#7C3AED")
	muted := lipgloss.Color("#6C7086")
	border := lipgloss.Color("#45475A")

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),

		Question: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4")),

		Muted: lipgloss.NewStyle().
			Foreground(muted),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(muted),
	}
}
