package tui

import (
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces the interview needs.
type Ports struct {
	// Tree supplies the questions and records the answers.
	Tree driving.TreeService

	// Knowledge is used to surface related stored answers while the
	// user thinks about a question. Optional; hints are skipped when nil.
	Knowledge driving.KnowledgeService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Tree == nil {
		return ErrMissingTreeService
	}
	return nil
}
