package driving

import (
	"context"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// IngestService turns free text into indexed question-answer pairs.
type IngestService interface {
	// GenerateQAPairs extracts QA pairs from the text without indexing them.
	GenerateQAPairs(ctx context.Context, text string) ([]domain.QAPair, error)

	// IngestText generates QA pairs from the text and indexes each one,
	// attaching the given metadata. Returns the indexed pairs.
	IngestText(ctx context.Context, text string, metadata domain.Metadata, numRewordings int) ([]domain.QAPair, error)

	// WatchDirectory ingests every new or modified text file appearing
	// under dir until the context is cancelled.
	WatchDirectory(ctx context.Context, dir string, metadata domain.Metadata) error
}
