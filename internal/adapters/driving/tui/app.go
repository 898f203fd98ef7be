package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// state identifies what the interview is currently doing.
type state int

const (
	// stateLoading means the next question is being fetched.
	stateLoading state = iota
	// stateAsking means a question is on screen awaiting an answer.
	stateAsking
	// stateDone means every question is answered or skipped.
	stateDone
)

// hintLimit caps how many related answers are shown under a question.
const hintLimit = 3

// App is the interview application. It implements tea.Model.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *Styles

	input textinput.Model

	// node is the question currently on screen.
	node *domain.TreeNode

	// hints holds related stored answers for the current question.
	hints []domain.QAResult

	// skipped tracks node ids the user chose to pass over this session.
	skipped map[string]bool

	answered int
	state    state
	err      error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new interview application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	ti := textinput.New()
	ti.Placeholder = "Type your answer..."
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  DefaultStyles(),
		input:   ti,
		skipped: make(map[string]bool),
		state:   stateLoading,
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("qastore - Interview"),
		a.loadNextCmd(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		inputWidth := msg.Width - 8
		if inputWidth < 20 {
			inputWidth = 20
		}
		a.input.Width = inputWidth
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case questionLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.state = stateDone
			return a, nil
		}
		if msg.Node == nil {
			a.state = stateDone
			return a, nil
		}
		a.node = msg.Node
		a.hints = nil
		a.state = stateAsking
		a.input.Reset()
		return a, a.loadHintsCmd(msg.Node)

	case hintsLoaded:
		// Ignore hints that arrive after the question has moved on.
		if a.node != nil && a.node.ID == msg.NodeID {
			a.hints = msg.Results
		}
		return a, nil

	case answerSaved:
		if msg.Err != nil {
			a.err = msg.Err
			a.state = stateDone
			return a, nil
		}
		a.answered++
		a.state = stateLoading
		return a, a.loadNextCmd()
	}

	if a.state == stateAsking {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleKey routes key presses by interview state.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return a, tea.Quit

	case "ctrl+s":
		// Skip the current question for this session.
		if a.state == stateAsking && a.node != nil {
			a.skipped[a.node.ID] = true
			a.state = stateLoading
			return a, a.loadNextCmd()
		}
		return a, nil

	case "enter":
		if a.state == stateDone {
			return a, tea.Quit
		}
		if a.state == stateAsking && a.node != nil {
			answer := strings.TrimSpace(a.input.Value())
			if answer == "" {
				return a, nil
			}
			return a, a.saveAnswerCmd(a.node.ID, answer)
		}
		return a, nil
	}

	if a.state == stateAsking {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("qastore interview"))
	b.WriteString("\n\n")

	switch a.state {
	case stateLoading:
		b.WriteString(a.styles.Muted.Render("Finding the next question..."))

	case stateAsking:
		b.WriteString(a.styles.Question.Render(a.node.Question))
		b.WriteString("\n")
		if a.node.Priority != 0 {
			b.WriteString(a.styles.Muted.Render(fmt.Sprintf("priority %d", a.node.Priority)))
			b.WriteString("\n")
		}
		if len(a.hints) > 0 {
			b.WriteString("\n")
			b.WriteString(a.styles.Muted.Render("Related answers:"))
			b.WriteString("\n")
			for _, h := range a.hints {
				line := fmt.Sprintf("  %s: %s", h.Question, truncate(h.Answer, 60))
				b.WriteString(a.styles.Muted.Render(line))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(a.styles.InputField.Render(a.input.View()))

	case stateDone:
		if a.err != nil {
			b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
		} else {
			b.WriteString(a.styles.Success.Render("Every question is answered."))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(a.styles.Muted.Render(fmt.Sprintf("answered %d  skipped %d", a.answered, len(a.skipped))))
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[enter] submit  [ctrl+s] skip  [esc] quit"))
	return b.String()
}

// loadNextCmd fetches the next question to ask, passing over nodes the
// user skipped this session.
func (a *App) loadNextCmd() tea.Cmd {
	return func() tea.Msg {
		node, err := a.ports.Tree.SuggestNext(a.ctx)
		if err != nil {
			return questionLoaded{Err: err}
		}
		if node == nil || !a.skipped[node.ID] {
			return questionLoaded{Node: node}
		}

		// The top suggestion was skipped; fall back to the first
		// remaining unanswered node that wasn't.
		nodes, err := a.ports.Tree.UnansweredQuestions(a.ctx)
		if err != nil {
			return questionLoaded{Err: err}
		}
		for i := range nodes {
			if !a.skipped[nodes[i].ID] {
				return questionLoaded{Node: &nodes[i]}
			}
		}
		return questionLoaded{}
	}
}

// loadHintsCmd looks up stored answers related to the question.
// Hints are best-effort; lookup failures are silently dropped.
func (a *App) loadHintsCmd(node *domain.TreeNode) tea.Cmd {
	if a.ports.Knowledge == nil {
		return nil
	}
	question := node.Question
	id := node.ID
	return func() tea.Msg {
		results, err := a.ports.Knowledge.Query(a.ctx, question, domain.QueryOptions{NResults: hintLimit})
		if err != nil {
			return hintsLoaded{NodeID: id}
		}
		// Drop unanswered records; they are no help to the user.
		hints := make([]domain.QAResult, 0, len(results))
		for _, r := range results {
			if r.Answer != "" {
				hints = append(hints, r)
			}
		}
		return hintsLoaded{NodeID: id, Results: hints}
	}
}

// saveAnswerCmd records the answer on the tree node.
func (a *App) saveAnswerCmd(id, answer string) tea.Cmd {
	return func() tea.Msg {
		err := a.ports.Tree.AnswerQuestion(a.ctx, id, answer)
		return answerSaved{NodeID: id, Err: err}
	}
}

// Run starts the interview.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentQuestion returns the question on screen, empty when none.
func (a *App) CurrentQuestion() string {
	if a.node == nil {
		return ""
	}
	return a.node.Question
}

// Answered returns how many questions were answered this session.
func (a *App) Answered() int {
	return a.answered
}

// Done reports whether the interview has finished.
func (a *App) Done() bool {
	return a.state == stateDone
}

// Err returns the error that ended the interview, if any.
func (a *App) Err() error {
	return a.err
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
