package driving

import (
	"context"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// TreeService manages the question tree and suggests what to ask next.
type TreeService interface {
	// AddQuestion inserts an unanswered question. parentID may be empty
	// for a new root; a non-empty parentID that references no existing
	// node fails with domain.ErrInvalidParent.
	AddQuestion(ctx context.Context, question, parentID string, metadata domain.Metadata) (string, error)

	// AnswerQuestion sets the answer on a node. Idempotent: re-answering
	// overwrites. Returns domain.ErrNotFound for unknown ids.
	AnswerQuestion(ctx context.Context, id, answer string) error

	// SetPriority sets a node's explicit suggestion weight.
	SetPriority(ctx context.Context, id string, priority int) error

	// Get retrieves a single node by id.
	Get(ctx context.Context, id string) (*domain.TreeNode, error)

	// UnansweredQuestions returns every unanswered node, breadth-first
	// from the roots in insertion order.
	UnansweredQuestions(ctx context.Context) ([]domain.TreeNode, error)

	// AnsweredQuestions returns every answered node in insertion order.
	AnsweredQuestions(ctx context.Context) ([]domain.TreeNode, error)

	// SuggestNext picks the unanswered question to address next: highest
	// priority first, then shallowest depth, then earliest insertion.
	// Returns nil when every node is answered.
	SuggestNext(ctx context.Context) (*domain.TreeNode, error)

	// SyncTreeToKB pushes every answered node's answer into the
	// knowledge base entries mirrored from the tree.
	SyncTreeToKB(ctx context.Context) error

	// SyncKBToTree pulls answers from mirrored knowledge base entries
	// into unanswered tree nodes.
	SyncKBToTree(ctx context.Context) error
}
