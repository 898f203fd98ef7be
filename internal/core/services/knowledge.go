package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driving"
	"github.com/custodia-labs/qastore-cli/internal/logger"
)

// Ensure KnowledgeBase implements the interface.
var _ driving.KnowledgeService = (*KnowledgeBase)(nil)

// KnowledgeBase is the retrieval core: it indexes question-answer pairs
// (optionally expanded into rewordings) and retrieves the best-matching
// answers for novel questions via nearest-neighbour search.
//
// Concurrency: queries are read-only and safe to run concurrently.
// AddQA issues one upsert per variant with no cross-call transaction;
// callers racing on the same logical record must serialise externally.
// A crash mid-sequence can leave a record partially indexed, which does
// not corrupt already-committed variants.
type KnowledgeBase struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	llm      driven.LLMService // optional; nil disables rewording expansion

	// relevanceFloor is the minimum similarity for a query hit.
	relevanceFloor float64
}

// NewKnowledgeBase creates the retrieval core.
// The llm parameter is optional (can be nil).
func NewKnowledgeBase(
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	relevanceFloor float64,
) *KnowledgeBase {
	return &KnowledgeBase{
		index:          index,
		embedder:       embedder,
		llm:            llm,
		relevanceFloor: relevanceFloor,
	}
}

// AddQA indexes a question-answer pair under a fresh logical record id.
// The original question and each generated rewording become distinct
// vector entries sharing that id, answer and metadata, so a later query
// matching any variant resolves to the same record.
func (kb *KnowledgeBase) AddQA(
	ctx context.Context, question, answer string, metadata domain.Metadata, numRewordings int,
) ([]string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if err := kb.available(); err != nil {
		return nil, err
	}

	variants := kb.expand(ctx, question, numRewordings)
	logger.Debug("AddQA: %d variant(s) for %q", len(variants), question)

	embeddings, err := kb.embedder.EmbedBatch(ctx, variants)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}

	recordID := uuid.NewString()
	meta := metadata.Clone()

	for i, variant := range variants {
		entry := driven.VectorEntry{
			VariantID: fmt.Sprintf("%s:%d", recordID, i),
			RecordID:  recordID,
			Question:  variant,
			Answer:    answer,
			Metadata:  meta,
			Embedding: embeddings[i],
		}
		if err := kb.index.Upsert(ctx, entry); err != nil {
			return nil, fmt.Errorf("%w: upsert variant %d: %w", domain.ErrIndex, i, err)
		}
	}

	logger.Info("Indexed record %s with %d variant(s)", recordID, len(variants))
	return variants, nil
}

// Query retrieves up to opts.NResults answers ranked by similarity.
//
// The question is expanded into rewordings, each variant is embedded and
// searched independently, and the pooled candidates are collapsed by
// logical record id keeping the best similarity observed - asking the
// same fact five different ways must not produce five slots for one
// answer. An empty index or a floor nobody clears yields an empty slice,
// never an error.
func (kb *KnowledgeBase) Query(
	ctx context.Context, question string, opts domain.QueryOptions,
) ([]domain.QAResult, error) {
	logger.Section("KB Query")
	question = strings.TrimSpace(question)
	if question == "" {
		logger.Debug("Empty question, returning no results")
		return []domain.QAResult{}, nil
	}
	if err := kb.available(); err != nil {
		return nil, err
	}

	n := opts.NResults
	if n <= 0 {
		n = domain.DefaultNResults
	}

	variants := kb.expand(ctx, question, opts.NumRewordings)
	logger.Debug("Query: %d variant(s), n_results=%d, filter=%v", len(variants), n, opts.MetadataFilter)

	embeddings, err := kb.embedder.EmbedBatch(ctx, variants)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}

	// Pool candidates across all variant queries, collapsing by record id
	// and keeping the single best similarity observed for each record.
	best := make(map[string]*domain.QAResult)
	order := make([]string, 0)

	for i, embedding := range embeddings {
		hits, err := kb.index.Query(ctx, embedding, n, opts.MetadataFilter)
		if err != nil {
			return nil, fmt.Errorf("%w: variant %d: %w", domain.ErrIndex, i, err)
		}

		for _, hit := range hits {
			similarity := 1 - hit.Distance
			if similarity < kb.relevanceFloor {
				continue
			}

			existing, seen := best[hit.RecordID]
			if !seen {
				best[hit.RecordID] = &domain.QAResult{
					RecordID:   hit.RecordID,
					Question:   hit.Question,
					Answer:     hit.Answer,
					Metadata:   hit.Metadata,
					Similarity: similarity,
				}
				order = append(order, hit.RecordID)
				continue
			}
			if similarity > existing.Similarity {
				existing.Similarity = similarity
				existing.Question = hit.Question
			}
		}
	}

	// Rank by similarity descending. The stable sort preserves pool
	// insertion order for equal scores, keeping results deterministic.
	results := make([]domain.QAResult, 0, len(order))
	for _, id := range order {
		results = append(results, *best[id])
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > n {
		results = results[:n]
	}

	logger.Info("Query: %d result(s)", len(results))
	return results, nil
}

// UpdateAnswerByID replaces the answer on every indexed variant of the
// record. This is the primary, unambiguous update path.
func (kb *KnowledgeBase) UpdateAnswerByID(ctx context.Context, recordID, answer string) error {
	if kb.index == nil {
		return domain.ErrVectorIndexUnavailable
	}

	entries, err := kb.index.ListByRecord(ctx, recordID)
	if err != nil {
		return fmt.Errorf("%w: list record %s: %w", domain.ErrIndex, recordID, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: record %s", domain.ErrNotFound, recordID)
	}

	for _, entry := range entries {
		entry.Answer = answer
		if err := kb.index.Upsert(ctx, entry); err != nil {
			return fmt.Errorf("%w: update variant %s: %w", domain.ErrIndex, entry.VariantID, err)
		}
	}

	logger.Info("Updated answer on record %s (%d variant(s))", recordID, len(entries))
	return nil
}

// UpdateAnswer replaces the answer of the record whose question text
// matches exactly. A near match is never updated - semantic search makes
// "the" matching record ambiguous, so fuzzy updates are refused.
func (kb *KnowledgeBase) UpdateAnswer(ctx context.Context, question, answer string) error {
	if kb.index == nil {
		return domain.ErrVectorIndexUnavailable
	}

	question = strings.TrimSpace(question)
	entries, err := kb.index.FindByQuestion(ctx, question)
	if err != nil {
		return fmt.Errorf("%w: find question: %w", domain.ErrIndex, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: question %q", domain.ErrNotFound, question)
	}

	return kb.UpdateAnswerByID(ctx, entries[0].RecordID, answer)
}

// Questions lists every indexed variant question in insertion order.
func (kb *KnowledgeBase) Questions(ctx context.Context) ([]string, error) {
	if kb.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	return kb.index.Questions(ctx)
}

// Records lists one entry per logical record matching the filter,
// in insertion order.
func (kb *KnowledgeBase) Records(ctx context.Context, filter domain.Metadata) ([]domain.QAResult, error) {
	if kb.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	entries, err := kb.index.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndex, err)
	}

	seen := make(map[string]bool)
	results := make([]domain.QAResult, 0, len(entries))
	for _, entry := range entries {
		if seen[entry.RecordID] {
			continue
		}
		seen[entry.RecordID] = true
		results = append(results, domain.QAResult{
			RecordID: entry.RecordID,
			Question: entry.Question,
			Answer:   entry.Answer,
			Metadata: entry.Metadata,
		})
	}
	return results, nil
}

// Clear removes every record from the knowledge base.
func (kb *KnowledgeBase) Clear(ctx context.Context) error {
	if kb.index == nil {
		return domain.ErrVectorIndexUnavailable
	}
	return kb.index.DeleteAll(ctx)
}

// expand returns the question plus up to n rewordings, original first.
// Generation failures degrade to fewer or zero rewordings - a degraded
// expansion never aborts the overarching call.
func (kb *KnowledgeBase) expand(ctx context.Context, question string, n int) []string {
	variants := []string{question}
	if n <= 0 {
		return variants
	}
	if kb.llm == nil {
		logger.Debug("Rewording requested but no LLM configured, using original only")
		return variants
	}

	rewordings, err := kb.llm.Reword(ctx, question, n)
	if err != nil {
		logger.Warn("Rewording failed, continuing with original only: %v", err)
		return variants
	}
	if len(rewordings) > n {
		rewordings = rewordings[:n]
	}

	for _, r := range rewordings {
		r = strings.TrimSpace(r)
		if r == "" || r == question {
			continue
		}
		variants = append(variants, r)
	}
	return variants
}

// available checks the required collaborators for indexing and retrieval.
func (kb *KnowledgeBase) available() error {
	if kb.index == nil {
		return domain.ErrVectorIndexUnavailable
	}
	if kb.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}
	return nil
}
