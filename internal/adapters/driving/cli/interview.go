package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/qastore-cli/internal/adapters/driving/tui"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Interactively answer open questions",
	Long: `Launch interview mode: the suggestion engine picks the next open
question (highest priority first, then shallowest, then oldest) and you
type the answer. Answers are written to the tree and propagated to the
knowledge base. The loop continues until every question is answered or
you quit.

Controls:
  Enter  - Submit answer
  Ctrl+S - Skip this question
  Esc    - Quit`,
	RunE: runInterview,
}

func init() {
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(cmd *cobra.Command, _ []string) error {
	// Panic recovery keeps the terminal usable and shows the stack
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in interview: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Tree:      treeService,
		Knowledge: knowledgeService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interview error: %w", err)
	}

	return nil
}
