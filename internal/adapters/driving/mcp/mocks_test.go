package mcp

import (
	"context"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// mockKnowledgeService is a mock implementation of driving.KnowledgeService.
type mockKnowledgeService struct {
	questions     []string
	results       []domain.QAResult
	records       []domain.QAResult
	addedQuestion string
	addedAnswer   string
	updatedID     string
	updatedAnswer string
	err           error
}

func (m *mockKnowledgeService) AddQA(
	_ context.Context,
	question, answer string,
	_ domain.Metadata,
	numRewordings int,
) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.addedQuestion = question
	m.addedAnswer = answer
	out := []string{question}
	for i := 0; i < numRewordings; i++ {
		out = append(out, "reworded: "+question)
	}
	return out, nil
}

func (m *mockKnowledgeService) Query(
	_ context.Context,
	_ string,
	_ domain.QueryOptions,
) ([]domain.QAResult, error) {
	return m.results, m.err
}

func (m *mockKnowledgeService) UpdateAnswerByID(_ context.Context, recordID, answer string) error {
	if m.err != nil {
		return m.err
	}
	m.updatedID = recordID
	m.updatedAnswer = answer
	return nil
}

func (m *mockKnowledgeService) UpdateAnswer(_ context.Context, question, answer string) error {
	if m.err != nil {
		return m.err
	}
	m.updatedID = question
	m.updatedAnswer = answer
	return nil
}

func (m *mockKnowledgeService) Questions(_ context.Context) ([]string, error) {
	return m.questions, m.err
}

func (m *mockKnowledgeService) Records(_ context.Context, _ domain.Metadata) ([]domain.QAResult, error) {
	return m.records, m.err
}

func (m *mockKnowledgeService) Clear(_ context.Context) error {
	return m.err
}

// mockTreeService is a mock implementation of driving.TreeService.
type mockTreeService struct {
	node       *domain.TreeNode
	unanswered []domain.TreeNode
	answered   []domain.TreeNode
	answeredID string
	err        error
}

func (m *mockTreeService) AddQuestion(
	_ context.Context,
	_, _ string,
	_ domain.Metadata,
) (string, error) {
	return "node-1", m.err
}

func (m *mockTreeService) AnswerQuestion(_ context.Context, id, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.answeredID = id
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
	return m.answered, m.err
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

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	pairs []domain.QAPair
	err   error
}

func (m *mockIngestService) GenerateQAPairs(_ context.Context, _ string) ([]domain.QAPair, error) {
	return m.pairs, m.err
}

func (m *mockIngestService) IngestText(
	_ context.Context,
	_ string,
	_ domain.Metadata,
	_ int,
) ([]domain.QAPair, error) {
	return m.pairs, m.err
}

func (m *mockIngestService) WatchDirectory(ctx context.Context, _ string, _ domain.Metadata) error {
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}
