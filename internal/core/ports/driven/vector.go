package driven

import (
	"context"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// VectorEntry is one indexed question variant. Several entries may share
// a RecordID: the original question and each of its rewordings are
// distinct entries carrying the same answer and metadata.
type VectorEntry struct {
	// VariantID uniquely identifies this entry in the index.
	VariantID string

	// RecordID is the logical id shared by all variants of one QA record.
	RecordID string

	// Question is the variant's question text.
	Question string

	// Answer is the record's current answer. Empty means unanswered.
	Answer string

	// Metadata is the record's metadata, used for filtered queries.
	Metadata domain.Metadata

	// Embedding is the vector for Question.
	Embedding []float32
}

// VectorHit is a nearest-neighbour match from the index.
type VectorHit struct {
	// VariantID is the matched entry.
	VariantID string

	// RecordID is the matched entry's logical record id.
	RecordID string

	// Question is the matched variant text.
	Question string

	// Answer is the record's current answer.
	Answer string

	// Metadata is the record's metadata.
	Metadata domain.Metadata

	// Distance is the index's native distance. Lower means more similar.
	Distance float64
}

// VectorIndex provides persistent storage and similarity search for
// question variants. The distance metric is index-defined; the core only
// assumes lower distance = more similar, consistently applied.
type VectorIndex interface {
	// Upsert inserts or replaces an entry keyed by VariantID.
	Upsert(ctx context.Context, entry VectorEntry) error

	// Query finds the k nearest neighbours to the query vector,
	// restricted to entries whose metadata matches the filter exactly.
	// A nil filter imposes no constraint.
	Query(ctx context.Context, embedding []float32, k int, filter domain.Metadata) ([]VectorHit, error)

	// Get fetches a single entry by variant id.
	// Returns domain.ErrNotFound when the id is unknown.
	Get(ctx context.Context, variantID string) (*VectorEntry, error)

	// FindByQuestion returns every entry whose question text equals the
	// given text exactly. Used by update-by-text, which must never
	// fuzzy-match.
	FindByQuestion(ctx context.Context, question string) ([]VectorEntry, error)

	// ListByRecord returns every variant entry sharing the record id.
	ListByRecord(ctx context.Context, recordID string) ([]VectorEntry, error)

	// Questions returns the question text of every entry, in insertion order.
	Questions(ctx context.Context) ([]string, error)

	// List returns every entry whose metadata matches the filter exactly,
	// in insertion order. A nil filter returns everything.
	List(ctx context.Context, filter domain.Metadata) ([]VectorEntry, error)

	// Delete removes a single entry.
	Delete(ctx context.Context, variantID string) error

	// DeleteAll removes every entry from the collection.
	DeleteAll(ctx context.Context) error

	// Count returns the number of entries in the index.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
