package driving

import (
	"context"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// KnowledgeService exposes the question-answer knowledge base to callers.
type KnowledgeService interface {
	// AddQA indexes a question-answer pair. When numRewordings > 0, the
	// question is expanded into up to that many alternative phrasings and
	// each variant is indexed under the same logical record. Returns the
	// indexed variant questions in generation order, original first.
	AddQA(ctx context.Context, question, answer string, metadata domain.Metadata, numRewordings int) ([]string, error)

	// Query retrieves the best-matching answers for a question, expanding
	// it into rewordings per opts, merging candidates across all variant
	// queries and ranking by similarity. Returns an empty slice - never an
	// error - when nothing clears the relevance floor.
	Query(ctx context.Context, question string, opts domain.QueryOptions) ([]domain.QAResult, error)

	// UpdateAnswerByID replaces the answer on every indexed variant of the
	// record. Returns domain.ErrNotFound for unknown ids.
	UpdateAnswerByID(ctx context.Context, recordID, answer string) error

	// UpdateAnswer replaces the answer of the record whose question text
	// matches exactly. Near matches are never updated; returns
	// domain.ErrNotFound when no exact match exists.
	UpdateAnswer(ctx context.Context, question, answer string) error

	// Questions lists every indexed variant question in insertion order.
	Questions(ctx context.Context) ([]string, error)

	// Records lists one entry per logical record whose metadata matches
	// the filter exactly, in insertion order. Similarity is not populated.
	Records(ctx context.Context, filter domain.Metadata) ([]domain.QAResult, error)

	// Clear removes every record from the knowledge base.
	Clear(ctx context.Context) error
}
