package driven

import (
	"context"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// ImportedQA is a question-answer pair pulled from an external source,
// together with provenance metadata to store alongside it.
type ImportedQA struct {
	// Pair is the imported question and answer.
	Pair domain.QAPair

	// Metadata records where the pair came from (source, repo, url, ...).
	Metadata domain.Metadata
}

// QAImporter pulls question-answer pairs from an external source.
// Implementations decide how a source reference is interpreted
// (the GitHub importer takes "owner/repo").
type QAImporter interface {
	// ImportQA fetches all QA pairs from the given source reference.
	// Returns an empty slice when the source holds no importable pairs.
	ImportQA(ctx context.Context, source string) ([]ImportedQA, error)
}
