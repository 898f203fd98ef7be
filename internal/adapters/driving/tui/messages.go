package tui

import (
	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// questionLoaded carries the next question to ask, nil when done.
type questionLoaded struct {
	Node *domain.TreeNode
	Err  error
}

// hintsLoaded carries related stored answers for the current question.
type hintsLoaded struct {
	NodeID  string
	Results []domain.QAResult
}

// answerSaved signals the answer for a node was recorded.
type answerSaved struct {
	NodeID string
	Err    error
}
