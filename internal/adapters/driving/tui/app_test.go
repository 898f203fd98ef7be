package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// mockTreeService is a mock implementation of driving.TreeService.
type mockTreeService struct {
	node       *domain.TreeNode
	unanswered []domain.TreeNode
	answeredID string
	answer     string
	err        error
}

func (m *mockTreeService) AddQuestion(_ context.Context, _, _ string, _ domain.Metadata) (string, error) {
	return "node-1", m.err
}

func (m *mockTreeService) AnswerQuestion(_ context.Context, id, answer string) error {
	if m.err != nil {
		return m.err
	}
	m.answeredID = id
	m.answer = answer
	return nil
}

func (m *mockTreeService) SetPriority(_ context.Context, _ string, _ int) error {
	return m.err
}

func (m *mockTreeService) Get(_ context.Context, _ string) (*domain.TreeNode, error) {
	return m.node, m.err
}

func (m *mockTreeService) UnansweredQuestions(_ context.Context) ([]domain.TreeNode, error) {
	return m.unanswered, m.err
}

func (m *mockTreeService) AnsweredQuestions(_ context.Context) ([]domain.TreeNode, error) {
	return nil, m.err
}

func (m *mockTreeService) SuggestNext(_ context.Context) (*domain.TreeNode, error) {
	return m.node, m.err
}

func (m *mockTreeService) SyncTreeToKB(_ context.Context) error {
	return m.err
}

func (m *mockTreeService) SyncKBToTree(_ context.Context) error {
	return m.err
}

// mockKnowledgeService is a mock implementation of driving.KnowledgeService.
type mockKnowledgeService struct {
	results []domain.QAResult
	err     error
}

func (m *mockKnowledgeService) AddQA(_ context.Context, question, _ string, _ domain.Metadata, _ int) ([]string, error) {
	return []string{question}, m.err
}

func (m *mockKnowledgeService) Query(_ context.Context, _ string, _ domain.QueryOptions) ([]domain.QAResult, error) {
	return m.results, m.err
}

func (m *mockKnowledgeService) UpdateAnswerByID(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockKnowledgeService) UpdateAnswer(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockKnowledgeService) Questions(_ context.Context) ([]string, error) {
	return nil, m.err
}

func (m *mockKnowledgeService) Records(_ context.Context, _ domain.Metadata) ([]domain.QAResult, error) {
	return nil, m.err
}

func (m *mockKnowledgeService) Clear(_ context.Context) error {
	return m.err
}

func newTestApp(t *testing.T, tree *mockTreeService, kb *mockKnowledgeService) *App {
	t.Helper()
	app, err := NewApp(&Ports{Tree: tree, Knowledge: kb})
	require.NoError(t, err)
	app.SetDimensions(80, 24)
	return app
}

func TestNewApp_RequiresTreeService(t *testing.T) {
	app, err := NewApp(&Ports{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingTreeService)
	assert.Nil(t, app)
}

func TestNewApp_KnowledgeIsOptional(t *testing.T) {
	app, err := NewApp(&Ports{Tree: &mockTreeService{}})

	require.NoError(t, err)
	assert.NotNil(t, app)
}

func TestApp_ShowsSuggestedQuestion(t *testing.T) {
	tree := &mockTreeService{
		node: &domain.TreeNode{ID: "node-1", Question: "What is our SLA?", Priority: 2},
	}
	app := newTestApp(t, tree, nil)

	model, _ := app.Update(questionLoaded{Node: tree.node})
	app = model.(*App)

	assert.Equal(t, "What is our SLA?", app.CurrentQuestion())
	assert.Contains(t, app.View(), "What is our SLA?")
	assert.Contains(t, app.View(), "priority 2")
}

func TestApp_DoneWhenNoQuestionsRemain(t *testing.T) {
	app := newTestApp(t, &mockTreeService{}, nil)

	model, _ := app.Update(questionLoaded{})
	app = model.(*App)

	assert.True(t, app.Done())
	assert.NoError(t, app.Err())
	assert.Contains(t, app.View(), "Every question is answered.")
}

func TestApp_SubmitRecordsAnswer(t *testing.T) {
	tree := &mockTreeService{
		node: &domain.TreeNode{ID: "node-1", Question: "What is our SLA?"},
	}
	app := newTestApp(t, tree, nil)

	model, _ := app.Update(questionLoaded{Node: tree.node})
	app = model.(*App)
	app.input.SetValue("99.9% uptime")

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(*App)
	require.NotNil(t, cmd)

	// The command performs the service call.
	msg := cmd()
	saved, ok := msg.(answerSaved)
	require.True(t, ok)
	assert.NoError(t, saved.Err)
	assert.Equal(t, "node-1", tree.answeredID)
	assert.Equal(t, "99.9% uptime", tree.answer)

	model, _ = app.Update(saved)
	app = model.(*App)
	assert.Equal(t, 1, app.Answered())
}

func TestApp_EmptyAnswerIsIgnored(t *testing.T) {
	tree := &mockTreeService{
		node: &domain.TreeNode{ID: "node-1", Question: "What is our SLA?"},
	}
	app := newTestApp(t, tree, nil)

	model, _ := app.Update(questionLoaded{Node: tree.node})
	app = model.(*App)
	app.input.SetValue("   ")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, tree.answeredID)
}

func TestApp_SkipMovesToNextQuestion(t *testing.T) {
	tree := &mockTreeService{
		node: &domain.TreeNode{ID: "node-1", Question: "What is our SLA?"},
		unanswered: []domain.TreeNode{
			{ID: "node-1", Question: "What is our SLA?"},
			{ID: "node-2", Question: "Who is on call?"},
		},
	}
	app := newTestApp(t, tree, nil)

	model, _ := app.Update(questionLoaded{Node: tree.node})
	app = model.(*App)

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	app = model.(*App)
	require.NotNil(t, cmd)

	// SuggestNext still returns node-1, so the fallback picks node-2.
	msg := cmd()
	loaded, ok := msg.(questionLoaded)
	require.True(t, ok)
	require.NotNil(t, loaded.Node)
	assert.Equal(t, "node-2", loaded.Node.ID)
}

func TestApp_SkippingEverythingFinishes(t *testing.T) {
	tree := &mockTreeService{
		node: &domain.TreeNode{ID: "node-1", Question: "What is our SLA?"},
		unanswered: []domain.TreeNode{
			{ID: "node-1", Question: "What is our SLA?"},
		},
	}
	app := newTestApp(t, tree, nil)

	model, _ := app.Update(questionLoaded{Node: tree.node})
	app = model.(*App)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	loaded, ok := cmd().(questionLoaded)
	require.True(t, ok)
	assert.Nil(t, loaded.Node)
}

func TestApp_ShowsRelatedAnswers(t *testing.T) {
	tree := &mockTreeService{
		node: &domain.TreeNode{ID: "node-1", Question: "What is our SLA?"},
	}
	kb := &mockKnowledgeService{
		results: []domain.QAResult{
			{RecordID: "rec-1", Question: "What uptime do we promise?", Answer: "99.9%", Similarity: 0.88},
			{RecordID: "rec-2", Question: "Open question", Answer: ""},
		},
	}
	app := newTestApp(t, tree, kb)

	model, cmd := app.Update(questionLoaded{Node: tree.node})
	app = model.(*App)
	require.NotNil(t, cmd)

	hints, ok := cmd().(hintsLoaded)
	require.True(t, ok)
	// Unanswered records are filtered out of the hints.
	require.Len(t, hints.Results, 1)

	model, _ = app.Update(hints)
	app = model.(*App)
	assert.Contains(t, app.View(), "What uptime do we promise?")
	assert.NotContains(t, app.View(), "Open question")
}

func TestApp_StaleHintsAreDropped(t *testing.T) {
	tree := &mockTreeService{
		node: &domain.TreeNode{ID: "node-2", Question: "Who is on call?"},
	}
	app := newTestApp(t, tree, nil)

	model, _ := app.Update(questionLoaded{Node: tree.node})
	app = model.(*App)

	model, _ = app.Update(hintsLoaded{
		NodeID:  "node-1",
		Results: []domain.QAResult{{Question: "old", Answer: "stale"}},
	})
	app = model.(*App)

	assert.NotContains(t, app.View(), "stale")
}

func TestApp_SuggestErrorEndsInterview(t *testing.T) {
	app := newTestApp(t, &mockTreeService{err: errors.New("store offline")}, nil)

	cmd := app.loadNextCmd()
	loaded, ok := cmd().(questionLoaded)
	require.True(t, ok)
	require.Error(t, loaded.Err)

	model, _ := app.Update(loaded)
	app = model.(*App)
	assert.True(t, app.Done())
	assert.Error(t, app.Err())
	assert.Contains(t, app.View(), "store offline")
}

func TestApp_EscQuits(t *testing.T) {
	app := newTestApp(t, &mockTreeService{}, nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "this is...", truncate("this is a long answer", 10))
}
