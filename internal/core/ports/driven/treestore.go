package driven

import (
	"context"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// TreeStore persists the question tree as an arena of nodes keyed by id.
// Parent/child relationships are id references, never live pointers, so
// the forest serialises trivially and cannot form ownership cycles.
//
// Stores assign each inserted node a monotonically increasing Seq; List
// returns nodes in Seq order, which is the tree's insertion order.
type TreeStore interface {
	// Insert stores a new node and assigns its Seq.
	// The node's ID must be set by the caller and must be unique.
	Insert(ctx context.Context, node *domain.TreeNode) error

	// Get retrieves a node by id.
	// Returns domain.ErrNotFound when the id is unknown.
	Get(ctx context.Context, id string) (*domain.TreeNode, error)

	// Update persists changes to an existing node's answer, priority or
	// metadata. Structure (parent, children) is append-only and changes
	// only through Insert. Returns domain.ErrNotFound for unknown ids.
	Update(ctx context.Context, node *domain.TreeNode) error

	// List returns every node in insertion (Seq) order.
	List(ctx context.Context) ([]domain.TreeNode, error)

	// Children returns a node's children in insertion order.
	Children(ctx context.Context, parentID string) ([]domain.TreeNode, error)

	// Roots returns every parentless node in insertion order.
	Roots(ctx context.Context) ([]domain.TreeNode, error)

	// Close releases resources.
	Close() error
}
