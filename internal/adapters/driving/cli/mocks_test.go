package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockKnowledgeService struct {
	added   []string
	updated map[string]string
}

var _ driving.KnowledgeService = (*mockKnowledgeService)(nil)

func (m *mockKnowledgeService) AddQA(
	_ context.Context, question, _ string, _ domain.Metadata, numRewordings int,
) ([]string, error) {
	m.added = append(m.added, question)
	variants := []string{question}
	for i := 0; i < numRewordings; i++ {
		variants = append(variants, "reworded: "+question)
	}
	return variants, nil
}

func (m *mockKnowledgeService) Query(
	_ context.Context, _ string, _ domain.QueryOptions,
) ([]domain.QAResult, error) {
	return []domain.QAResult{
		{
			RecordID:   "rec-1",
			Question:   "What is the capital of Italy?",
			Answer:     "Rome",
			Similarity: 0.93,
			Metadata:   domain.Metadata{"topic": "geography"},
		},
	}, nil
}

func (m *mockKnowledgeService) UpdateAnswerByID(_ context.Context, recordID, answer string) error {
	if recordID == "missing" {
		return domain.ErrNotFound
	}
	if m.updated == nil {
		m.updated = make(map[string]string)
	}
	m.updated[recordID] = answer
	return nil
}

func (m *mockKnowledgeService) UpdateAnswer(_ context.Context, question, answer string) error {
	if question == "missing" {
		return domain.ErrNotFound
	}
	if m.updated == nil {
		m.updated = make(map[string]string)
	}
	m.updated[question] = answer
	return nil
}

func (m *mockKnowledgeService) Questions(_ context.Context) ([]string, error) {
	return []string{"What is the capital of Italy?", "Which city is Italy's capital?"}, nil
}

func (m *mockKnowledgeService) Records(_ context.Context, _ domain.Metadata) ([]domain.QAResult, error) {
	return []domain.QAResult{
		{RecordID: "rec-1", Question: "What is the capital of Italy?", Answer: "Rome"},
	}, nil
}

func (m *mockKnowledgeService) Clear(_ context.Context) error { return nil }

type mockKnowledgeServiceError struct {
	mockKnowledgeService
}

func (m *mockKnowledgeServiceError) Query(
	_ context.Context, _ string, _ domain.QueryOptions,
) ([]domain.QAResult, error) {
	return nil, errors.New("index exploded")
}

type mockTreeService struct {
	answered map[string]string
}

var _ driving.TreeService = (*mockTreeService)(nil)

func (m *mockTreeService) AddQuestion(
	_ context.Context, _, parentID string, _ domain.Metadata,
) (string, error) {
	if parentID == "missing" {
		return "", domain.ErrInvalidParent
	}
	return "node-1", nil
}

func (m *mockTreeService) AnswerQuestion(_ context.Context, id, answer string) error {
	if id == "missing" {
		return domain.ErrNotFound
	}
	if m.answered == nil {
		m.answered = make(map[string]string)
	}
	m.answered[id] = answer
	return nil
}

func (m *mockTreeService) SetPriority(_ context.Context, id string, _ int) error {
	if id == "missing" {
		return domain.ErrNotFound
	}
	return nil
}

func (m *mockTreeService) Get(_ context.Context, id string) (*domain.TreeNode, error) {
	if id == "missing" {
		return nil, domain.ErrNotFound
	}
	return &domain.TreeNode{ID: id, Question: "What is our SLA?"}, nil
}

func (m *mockTreeService) UnansweredQuestions(_ context.Context) ([]domain.TreeNode, error) {
	return []domain.TreeNode{
		{ID: "node-1", Question: "What is our SLA?"},
		{ID: "node-2", Question: "Who owns on-call?", ParentID: "node-1"},
	}, nil
}

func (m *mockTreeService) AnsweredQuestions(_ context.Context) ([]domain.TreeNode, error) {
	return []domain.TreeNode{
		{ID: "node-3", Question: "Where are the runbooks?", Answer: "In the wiki."},
	}, nil
}

func (m *mockTreeService) SuggestNext(_ context.Context) (*domain.TreeNode, error) {
	return &domain.TreeNode{ID: "node-1", Question: "What is our SLA?", Priority: 2}, nil
}

func (m *mockTreeService) SyncTreeToKB(_ context.Context) error { return nil }
func (m *mockTreeService) SyncKBToTree(_ context.Context) error { return nil }

type mockIngestService struct{}

var _ driving.IngestService = (*mockIngestService)(nil)

func (m *mockIngestService) GenerateQAPairs(_ context.Context, _ string) ([]domain.QAPair, error) {
	return []domain.QAPair{{Question: "Generated Q?", Answer: "Generated A."}}, nil
}

func (m *mockIngestService) IngestText(
	_ context.Context, _ string, _ domain.Metadata, _ int,
) ([]domain.QAPair, error) {
	return []domain.QAPair{{Question: "Generated Q?", Answer: "Generated A."}}, nil
}

func (m *mockIngestService) WatchDirectory(ctx context.Context, _ string, _ domain.Metadata) error {
	<-ctx.Done()
	return ctx.Err()
}

// setupTestServices installs mock services and returns a cleanup func.
func setupTestServices() func() {
	oldKnowledge := knowledgeService
	oldTree := treeService
	oldIngest := ingestService
	oldSettings := settingsService
	oldRewordings := defaultRewordings

	knowledgeService = &mockKnowledgeService{}
	treeService = &mockTreeService{}
	ingestService = &mockIngestService{}
	defaultRewordings = 0

	return func() {
		knowledgeService = oldKnowledge
		treeService = oldTree
		ingestService = oldIngest
		settingsService = oldSettings
		defaultRewordings = oldRewordings
	}
}
