package mcp

import (
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Knowledge provides retrieval and indexing.
	Knowledge driving.KnowledgeService

	// Tree manages the question tree and next-question suggestion.
	Tree driving.TreeService

	// Ingest generates QA pairs from free text.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Knowledge == nil {
		return ErrMissingKnowledgeService
	}
	// Tree and Ingest are optional; their tools fail individually
	return nil
}
