package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driven"
)

// Ensure TreeStore implements the interface.
var _ driven.TreeStore = (*TreeStore)(nil)

// TreeStore is an in-memory implementation of driven.TreeStore.
type TreeStore struct {
	mu    sync.RWMutex
	nodes map[string]domain.TreeNode
	order []string
	seq   int64
}

// NewTreeStore creates a new in-memory tree store.
func NewTreeStore() *TreeStore {
	return &TreeStore{nodes: make(map[string]domain.TreeNode)}
}

// Insert stores a new node, assigns its Seq and links it to its parent.
func (s *TreeStore) Insert(_ context.Context, node *domain.TreeNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[node.ID]; exists {
		return domain.ErrAlreadyExists
	}
	if node.ParentID != "" {
		if _, ok := s.nodes[node.ParentID]; !ok {
			return domain.ErrInvalidParent
		}
	}

	s.seq++
	node.Seq = s.seq
	s.nodes[node.ID] = *node
	s.order = append(s.order, node.ID)

	if node.ParentID != "" {
		parent := s.nodes[node.ParentID]
		parent.Children = append(parent.Children, node.ID)
		s.nodes[node.ParentID] = parent
	}
	return nil
}

// Get retrieves a node by id.
func (s *TreeStore) Get(_ context.Context, id string) (*domain.TreeNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &node, nil
}

// Update persists changes to a node's answer, priority and metadata.
// Structure fields are taken from the stored node, never the argument.
func (s *TreeStore) Update(_ context.Context, node *domain.TreeNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.nodes[node.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Answer = node.Answer
	stored.Priority = node.Priority
	stored.Metadata = node.Metadata
	s.nodes[node.ID] = stored
	return nil
}

// List returns every node in insertion (Seq) order.
func (s *TreeStore) List(_ context.Context) ([]domain.TreeNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nodes := make([]domain.TreeNode, 0, len(s.order))
	for _, id := range s.order {
		nodes = append(nodes, s.nodes[id])
	}
	return nodes, nil
}

// Children returns a node's children in insertion order.
func (s *TreeStore) Children(_ context.Context, parentID string) ([]domain.TreeNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	parent, ok := s.nodes[parentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	children := make([]domain.TreeNode, 0, len(parent.Children))
	for _, id := range parent.Children {
		children = append(children, s.nodes[id])
	}
	return children, nil
}

// Roots returns every parentless node in insertion order.
func (s *TreeStore) Roots(_ context.Context) ([]domain.TreeNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roots := make([]domain.TreeNode, 0)
	for _, id := range s.order {
		node := s.nodes[id]
		if node.IsRoot() {
			roots = append(roots, node)
		}
	}
	return roots, nil
}

// Close is a no-op for the in-memory store.
func (s *TreeStore) Close() error {
	return nil
}
