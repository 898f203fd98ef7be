package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// QueryInput is the input schema for the qa_query tool.
type QueryInput struct {
	Question   string `json:"question" jsonschema:"the question to look up in the knowledge base"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
	Rewordings int    `json:"rewordings,omitempty" jsonschema:"number of alternative phrasings to search with (default 0)"`
}

// QueryResult is a single match returned by the qa_query tool.
type QueryResult struct {
	RecordID   string            `json:"record_id" jsonschema:"stable identifier of the matched record"`
	Question   string            `json:"question" jsonschema:"the stored question"`
	Answer     string            `json:"answer,omitempty" jsonschema:"the stored answer, empty when unanswered"`
	Similarity float64           `json:"similarity" jsonschema:"similarity score between 0 and 1"`
	Metadata   map[string]string `json:"metadata,omitempty" jsonschema:"record metadata"`
}

// QueryOutput is the output schema for the qa_query tool.
type QueryOutput struct {
	Results []QueryResult `json:"results" jsonschema:"matching records ranked by similarity"`
	Count   int           `json:"count" jsonschema:"number of results returned"`
}

// AddInput is the input schema for the qa_add tool.
type AddInput struct {
	Question   string            `json:"question" jsonschema:"the question to store"`
	Answer     string            `json:"answer,omitempty" jsonschema:"the answer, may be empty for an open question"`
	Metadata   map[string]string `json:"metadata,omitempty" jsonschema:"metadata to attach to the record"`
	Rewordings int               `json:"rewordings,omitempty" jsonschema:"number of alternative phrasings to index alongside the original"`
}

// AddOutput is the output schema for the qa_add tool.
type AddOutput struct {
	Questions []string `json:"questions" jsonschema:"the indexed question variants, original first"`
	Count     int      `json:"count" jsonschema:"number of indexed variants"`
}

// UpdateAnswerInput is the input schema for the qa_update_answer tool.
type UpdateAnswerInput struct {
	RecordID string `json:"record_id,omitempty" jsonschema:"record identifier to update; takes precedence over question"`
	Question string `json:"question,omitempty" jsonschema:"exact question text to update when no record_id is given"`
	Answer   string `json:"answer" jsonschema:"the new answer"`
}

// UpdateAnswerOutput is the output schema for the qa_update_answer tool.
type UpdateAnswerOutput struct {
	Updated bool `json:"updated" jsonschema:"whether the record was updated"`
}

// SuggestNextInput is the input schema for the suggest_next tool.
type SuggestNextInput struct{}

// SuggestNextOutput is the output schema for the suggest_next tool.
type SuggestNextOutput struct {
	NodeID   string `json:"node_id,omitempty" jsonschema:"identifier of the suggested tree node"`
	Question string `json:"question,omitempty" jsonschema:"the question to ask next"`
	Priority int    `json:"priority,omitempty" jsonschema:"explicit priority of the node"`
	Done     bool   `json:"done" jsonschema:"true when every question in the tree is answered"`
}

// AnswerQuestionInput is the input schema for the answer_question tool.
type AnswerQuestionInput struct {
	NodeID string `json:"node_id" jsonschema:"identifier of the tree node to answer"`
	Answer string `json:"answer" jsonschema:"the answer text"`
}

// AnswerQuestionOutput is the output schema for the answer_question tool.
type AnswerQuestionOutput struct {
	Answered bool `json:"answered" jsonschema:"whether the node was answered"`
}

// IngestInput is the input schema for the qa_ingest tool.
type IngestInput struct {
	Text       string            `json:"text" jsonschema:"free text to turn into question-answer pairs"`
	Metadata   map[string]string `json:"metadata,omitempty" jsonschema:"metadata to attach to each generated record"`
	Rewordings int               `json:"rewordings,omitempty" jsonschema:"number of alternative phrasings to index per pair"`
}

// IngestPair is a single generated pair returned by the qa_ingest tool.
type IngestPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// IngestOutput is the output schema for the qa_ingest tool.
type IngestOutput struct {
	Pairs []IngestPair `json:"pairs" jsonschema:"the generated and indexed pairs"`
	Count int          `json:"count" jsonschema:"number of pairs indexed"`
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "qa_query",
		Description: "Search the question-answer knowledge base. Returns the best-matching records ranked by similarity.",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "qa_add",
		Description: "Add a question-answer pair to the knowledge base. The answer may be empty to record an open question.",
	}, s.handleAdd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "qa_update_answer",
		Description: "Replace the answer of an existing record, addressed by record id or by exact question text.",
	}, s.handleUpdateAnswer)

	if s.ports.Tree != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "suggest_next",
			Description: "Suggest the next unanswered question from the question tree, by priority, then depth, then insertion order.",
		}, s.handleSuggestNext)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "answer_question",
			Description: "Answer a question-tree node by id.",
		}, s.handleAnswerQuestion)
	}

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "qa_ingest",
			Description: "Generate question-answer pairs from free text and index them in the knowledge base.",
		}, s.handleIngest)
	}
}

func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	if input.Question == "" {
		return nil, QueryOutput{}, fmt.Errorf("question is required")
	}

	opts := domain.QueryOptions{
		NResults:      input.Limit,
		NumRewordings: input.Rewordings,
	}
	if opts.NResults <= 0 {
		opts.NResults = domain.DefaultNResults
	}

	results, err := s.ports.Knowledge.Query(ctx, input.Question, opts)
	if err != nil {
		return nil, QueryOutput{}, fmt.Errorf("querying knowledge base: %w", err)
	}

	out := QueryOutput{
		Results: make([]QueryResult, 0, len(results)),
		Count:   len(results),
	}
	for _, r := range results {
		out.Results = append(out.Results, QueryResult{
			RecordID:   r.RecordID,
			Question:   r.Question,
			Answer:     r.Answer,
			Similarity: r.Similarity,
			Metadata:   metaToMap(r.Metadata),
		})
	}

	return nil, out, nil
}

func (s *Server) handleAdd(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddInput,
) (*mcp.CallToolResult, AddOutput, error) {
	if input.Question == "" {
		return nil, AddOutput{}, fmt.Errorf("question is required")
	}

	questions, err := s.ports.Knowledge.AddQA(ctx, input.Question, input.Answer, mapToMeta(input.Metadata), input.Rewordings)
	if err != nil {
		return nil, AddOutput{}, fmt.Errorf("adding QA pair: %w", err)
	}

	return nil, AddOutput{Questions: questions, Count: len(questions)}, nil
}

func (s *Server) handleUpdateAnswer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateAnswerInput,
) (*mcp.CallToolResult, UpdateAnswerOutput, error) {
	if input.Answer == "" {
		return nil, UpdateAnswerOutput{}, fmt.Errorf("answer is required")
	}

	var err error
	switch {
	case input.RecordID != "":
		err = s.ports.Knowledge.UpdateAnswerByID(ctx, input.RecordID, input.Answer)
	case input.Question != "":
		err = s.ports.Knowledge.UpdateAnswer(ctx, input.Question, input.Answer)
	default:
		return nil, UpdateAnswerOutput{}, fmt.Errorf("record_id or question is required")
	}
	if err != nil {
		return nil, UpdateAnswerOutput{}, fmt.Errorf("updating answer: %w", err)
	}

	return nil, UpdateAnswerOutput{Updated: true}, nil
}

func (s *Server) handleSuggestNext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ SuggestNextInput,
) (*mcp.CallToolResult, SuggestNextOutput, error) {
	if s.ports.Tree == nil {
		return nil, SuggestNextOutput{}, ErrTreeUnavailable
	}

	node, err := s.ports.Tree.SuggestNext(ctx)
	if err != nil {
		return nil, SuggestNextOutput{}, fmt.Errorf("suggesting next question: %w", err)
	}
	if node == nil {
		return nil, SuggestNextOutput{Done: true}, nil
	}

	return nil, SuggestNextOutput{
		NodeID:   node.ID,
		Question: node.Question,
		Priority: node.Priority,
	}, nil
}

func (s *Server) handleAnswerQuestion(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnswerQuestionInput,
) (*mcp.CallToolResult, AnswerQuestionOutput, error) {
	if s.ports.Tree == nil {
		return nil, AnswerQuestionOutput{}, ErrTreeUnavailable
	}
	if input.NodeID == "" {
		return nil, AnswerQuestionOutput{}, fmt.Errorf("node_id is required")
	}
	if input.Answer == "" {
		return nil, AnswerQuestionOutput{}, fmt.Errorf("answer is required")
	}

	if err := s.ports.Tree.AnswerQuestion(ctx, input.NodeID, input.Answer); err != nil {
		return nil, AnswerQuestionOutput{}, fmt.Errorf("answering question: %w", err)
	}

	return nil, AnswerQuestionOutput{Answered: true}, nil
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, ErrIngestUnavailable
	}
	if input.Text == "" {
		return nil, IngestOutput{}, fmt.Errorf("text is required")
	}

	pairs, err := s.ports.Ingest.IngestText(ctx, input.Text, mapToMeta(input.Metadata), input.Rewordings)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("ingesting text: %w", err)
	}

	out := IngestOutput{
		Pairs: make([]IngestPair, 0, len(pairs)),
		Count: len(pairs),
	}
	for _, p := range pairs {
		out.Pairs = append(out.Pairs, IngestPair{Question: p.Question, Answer: p.Answer})
	}

	return nil, out, nil
}

func metaToMap(m domain.Metadata) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}

func mapToMeta(m map[string]string) domain.Metadata {
	if len(m) == 0 {
		return nil
	}
	out := make(domain.Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
