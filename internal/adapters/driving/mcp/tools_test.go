package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

func TestServer_handleQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranked results", func(t *testing.T) {
		mockKB := &mockKnowledgeService{
			results: []domain.QAResult{
				{
					RecordID:   "rec-1",
					Question:   "What is the capital of Italy?",
					Answer:     "Rome",
					Similarity: 0.93,
					Metadata:   domain.Metadata{"topic": "geography"},
				},
			},
		}

		ports := &Ports{Knowledge: mockKB}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := QueryInput{Question: "capital of Italy", Limit: 3}
		_, output, err := server.handleQuery(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "rec-1", output.Results[0].RecordID)
		assert.Equal(t, "Rome", output.Results[0].Answer)
		assert.Equal(t, 0.93, output.Results[0].Similarity)
		assert.Equal(t, "geography", output.Results[0].Metadata["topic"])
	})

	t.Run("requires a question", func(t *testing.T) {
		server, err := NewServer(&Ports{Knowledge: &mockKnowledgeService{}})
		require.NoError(t, err)

		_, _, err = server.handleQuery(ctx, nil, QueryInput{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "question is required")
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		mockKB := &mockKnowledgeService{err: errors.New("index exploded")}
		server, err := NewServer(&Ports{Knowledge: mockKB})
		require.NoError(t, err)

		_, _, err = server.handleQuery(ctx, nil, QueryInput{Question: "anything"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "index exploded")
	})
}

func TestServer_handleAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes the pair with rewordings", func(t *testing.T) {
		mockKB := &mockKnowledgeService{}
		server, err := NewServer(&Ports{Knowledge: mockKB})
		require.NoError(t, err)

		input := AddInput{
			Question:   "What is our SLA?",
			Answer:     "99.9% uptime",
			Rewordings: 2,
			Metadata:   map[string]string{"topic": "ops"},
		}
		_, output, err := server.handleAdd(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 3, output.Count)
		assert.Equal(t, "What is our SLA?", output.Questions[0])
		assert.Equal(t, "What is our SLA?", mockKB.addedQuestion)
		assert.Equal(t, "99.9% uptime", mockKB.addedAnswer)
	})

	t.Run("requires a question", func(t *testing.T) {
		server, err := NewServer(&Ports{Knowledge: &mockKnowledgeService{}})
		require.NoError(t, err)

		_, _, err = server.handleAdd(ctx, nil, AddInput{Answer: "orphan"})

		require.Error(t, err)
	})
}

func TestServer_handleUpdateAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("updates by record id", func(t *testing.T) {
		mockKB := &mockKnowledgeService{}
		server, err := NewServer(&Ports{Knowledge: mockKB})
		require.NoError(t, err)

		input := UpdateAnswerInput{RecordID: "rec-1", Answer: "Rome"}
		_, output, err := server.handleUpdateAnswer(ctx, nil, input)

		require.NoError(t, err)
		assert.True(t, output.Updated)
		assert.Equal(t, "rec-1", mockKB.updatedID)
		assert.Equal(t, "Rome", mockKB.updatedAnswer)
	})

	t.Run("updates by exact question", func(t *testing.T) {
		mockKB := &mockKnowledgeService{}
		server, err := NewServer(&Ports{Knowledge: mockKB})
		require.NoError(t, err)

		input := UpdateAnswerInput{Question: "What is the capital of Italy?", Answer: "Rome"}
		_, output, err := server.handleUpdateAnswer(ctx, nil, input)

		require.NoError(t, err)
		assert.True(t, output.Updated)
	})

	t.Run("requires an address", func(t *testing.T) {
		server, err := NewServer(&Ports{Knowledge: &mockKnowledgeService{}})
		require.NoError(t, err)

		_, _, err = server.handleUpdateAnswer(ctx, nil, UpdateAnswerInput{Answer: "Rome"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "record_id or question")
	})

	t.Run("propagates not found", func(t *testing.T) {
		mockKB := &mockKnowledgeService{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Knowledge: mockKB})
		require.NoError(t, err)

		_, _, err = server.handleUpdateAnswer(ctx, nil, UpdateAnswerInput{RecordID: "missing", Answer: "x"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleSuggestNext(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the suggested node", func(t *testing.T) {
		mockTree := &mockTreeService{
			node: &domain.TreeNode{ID: "node-1", Question: "What is our SLA?", Priority: 2},
		}
		server, err := NewServer(&Ports{Knowledge: &mockKnowledgeService{}, Tree: mockTree})
		require.NoError(t, err)

		_, output, err := server.handleSuggestNext(ctx, nil, SuggestNextInput{})

		require.NoError(t, err)
		assert.False(t, output.Done)
		assert.Equal(t, "node-1", output.NodeID)
		assert.Equal(t, "What is our SLA?", output.Question)
		assert.Equal(t, 2, output.Priority)
	})

	t.Run("reports done when everything is answered", func(t *testing.T) {
		server, err := NewServer(&Ports{Knowledge: &mockKnowledgeService{}, Tree: &mockTreeService{}})
		require.NoError(t, err)

		_, output, err := server.handleSuggestNext(ctx, nil, SuggestNextInput{})

		require.NoError(t, err)
		assert.True(t, output.Done)
		assert.Empty(t, output.NodeID)
	})

	t.Run("errors when tree is not configured", func(t *testing.T) {
		server, err := NewServer(&Ports{Knowledge: &mockKnowledgeService{}})
		require.NoError(t, err)

		_, _, err = server.handleSuggestNext(ctx, nil, SuggestNextInput{})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTreeUnavailable)
	})
}

func TestServer_handleAnswerQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("answers the node", func(t *testing.T) {
		mockTree := &mockTreeService{}
		server, err := NewServer(&Ports{Knowledge: &mockKnowledgeService{}, Tree: mockTree})
		require.NoError(t, err)

		input := AnswerQuestionInput{NodeID: "node-1", Answer: "99.9% uptime"}
		_, output, err := server.handleAnswerQuestion(ctx, nil, input)

		require.NoError(t, err)
		assert.True(t, output.Answered)
		assert.Equal(t, "node-1", mockTree.answeredID)
	})

	t.Run("requires node id and answer", func(t *testing.T) {
		server, err := NewServer(&Ports{Knowledge: &mockKnowledgeService{}, Tree: &mockTreeService{}})
		require.NoError(t, err)

		_, _, err = server.handleAnswerQuestion(ctx, nil, AnswerQuestionInput{Answer: "x"})
		require.Error(t, err)

		_, _, err = server.handleAnswerQuestion(ctx, nil, AnswerQuestionInput{NodeID: "node-1"})
		require.Error(t, err)
	})

	t.Run("propagates not found", func(t *testing.T) {
		mockTree := &mockTreeService{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Knowledge: &mockKnowledgeService{}, Tree: mockTree})
		require.NoError(t, err)

		_, _, err = server.handleAnswerQuestion(ctx, nil, AnswerQuestionInput{NodeID: "missing", Answer: "x"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests text into pairs", func(t *testing.T) {
		mockIngest := &mockIngestService{
			pairs: []domain.QAPair{{Question: "Generated Q?", Answer: "Generated A."}},
		}
		server, err := NewServer(&Ports{Knowledge: &mockKnowledgeService{}, Ingest: mockIngest})
		require.NoError(t, err)

		input := IngestInput{Text: "Some source text."}
		_, output, err := server.handleIngest(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "Generated Q?", output.Pairs[0].Question)
	})

	t.Run("requires text", func(t *testing.T) {
		server, err := NewServer(&Ports{Knowledge: &mockKnowledgeService{}, Ingest: &mockIngestService{}})
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{})

		require.Error(t, err)
	})

	t.Run("errors when ingest is not configured", func(t *testing.T) {
		server, err := NewServer(&Ports{Knowledge: &mockKnowledgeService{}})
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{Text: "x"})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIngestUnavailable)
	})
}
