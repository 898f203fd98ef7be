package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driving"
	"github.com/custodia-labs/qastore-cli/internal/logger"
)

var _ driving.IngestService = (*Ingest)(nil)

// Ingest turns free text into question-answer pairs via the LLM and
// indexes them into the knowledge base.
type Ingest struct {
	llm driven.LLMService
	kb  driving.KnowledgeService
}

// NewIngest creates the ingest service.
func NewIngest(llm driven.LLMService, kb driving.KnowledgeService) *Ingest {
	return &Ingest{llm: llm, kb: kb}
}

// GenerateQAPairs extracts QA pairs from the text without indexing them.
// Unlike rewording, generation failures here surface: the caller asked
// for pairs and got none, which is not a degraded success.
func (s *Ingest) GenerateQAPairs(ctx context.Context, text string) ([]domain.QAPair, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}

	pairs, err := s.llm.GenerateQAPairs(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	logger.Debug("Generated %d QA pair(s) from %d byte(s) of text", len(pairs), len(text))
	return pairs, nil
}

// IngestText generates QA pairs from the text and indexes each one.
func (s *Ingest) IngestText(
	ctx context.Context, text string, metadata domain.Metadata, numRewordings int,
) ([]domain.QAPair, error) {
	if s.kb == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	pairs, err := s.GenerateQAPairs(ctx, text)
	if err != nil {
		return nil, err
	}

	for _, pair := range pairs {
		if _, err := s.kb.AddQA(ctx, pair.Question, pair.Answer, metadata, numRewordings); err != nil {
			return nil, fmt.Errorf("index pair %q: %w", pair.Question, err)
		}
	}

	logger.Info("Ingested %d QA pair(s)", len(pairs))
	return pairs, nil
}

// WatchDirectory ingests every new or modified text file under dir until
// the context is cancelled. Only .txt and .md files are picked up;
// hidden files are skipped. Per-file failures are logged and the watch
// continues - one bad file must not kill the loop.
func (s *Ingest) WatchDirectory(ctx context.Context, dir string, metadata domain.Metadata) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("Watching %s for text files", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !ingestable(event.Name) {
				continue
			}
			if err := s.ingestFile(ctx, event.Name, metadata); err != nil {
				logger.Warn("Ingest of %s failed: %v", event.Name, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func (s *Ingest) ingestFile(ctx context.Context, path string, metadata domain.Metadata) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	meta := metadata.Clone()
	if meta == nil {
		meta = domain.Metadata{}
	}
	meta["source_file"] = filepath.Base(path)

	pairs, err := s.IngestText(ctx, string(data), meta, 0)
	if err != nil {
		return err
	}
	logger.Info("Ingested %s: %d pair(s)", path, len(pairs))
	return nil
}

// ingestable reports whether the path is a visible text file.
func ingestable(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".txt", ".md":
		return true
	}
	return false
}
