package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driving"
	"github.com/custodia-labs/qastore-cli/internal/logger"
)

var _ driving.TreeService = (*Tree)(nil)

// Tree manages the question tree: a forest of question nodes with
// append-only structure, explicit priorities and a deterministic
// next-question suggestion policy. When a knowledge base is attached,
// every tree node is mirrored into it so tree questions participate in
// semantic retrieval.
type Tree struct {
	store driven.TreeStore
	kb    driving.KnowledgeService // optional; nil disables KB mirroring
}

// NewTree creates the tree service. kb is optional (can be nil).
func NewTree(store driven.TreeStore, kb driving.KnowledgeService) *Tree {
	return &Tree{store: store, kb: kb}
}

// AddQuestion inserts an unanswered question node. An empty parentID
// creates a new root; a parentID that references no existing node fails
// with ErrInvalidParent and inserts nothing.
func (t *Tree) AddQuestion(
	ctx context.Context, question, parentID string, metadata domain.Metadata,
) (string, error) {
	if question == "" {
		return "", fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	if parentID != "" {
		if _, err := t.store.Get(ctx, parentID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return "", fmt.Errorf("%w: %s", domain.ErrInvalidParent, parentID)
			}
			return "", fmt.Errorf("validate parent: %w", err)
		}
	}

	node := &domain.TreeNode{
		ID:       uuid.NewString(),
		Question: question,
		Metadata: metadata.Clone(),
		ParentID: parentID,
	}
	if err := t.store.Insert(ctx, node); err != nil {
		return "", fmt.Errorf("insert node: %w", err)
	}

	logger.Info("Added question node %s (parent=%q)", node.ID, parentID)
	t.mirrorToKB(ctx, node)
	return node.ID, nil
}

// AnswerQuestion sets the answer on a node. Re-answering overwrites.
func (t *Tree) AnswerQuestion(ctx context.Context, id, answer string) error {
	node, err := t.store.Get(ctx, id)
	if err != nil {
		return err
	}

	node.Answer = answer
	if err := t.store.Update(ctx, node); err != nil {
		return fmt.Errorf("update node %s: %w", id, err)
	}

	logger.Info("Answered question node %s", id)

	// Keep the mirrored KB entry in step. The tree stays authoritative
	// when the mirror is missing or the KB is down.
	if t.kb != nil {
		if err := t.updateMirror(ctx, node.ID, answer); err != nil {
			logger.Warn("KB mirror update for node %s failed: %v", id, err)
		}
	}
	return nil
}

// updateMirror rewrites the answer on the KB record mirroring the given
// node. The record is located by its tree id tag, not by question text:
// two nodes may share the same question text but must never cross-update
// each other's mirror. ErrNotFound when the node was never mirrored.
func (t *Tree) updateMirror(ctx context.Context, nodeID, answer string) error {
	records, err := t.kb.Records(ctx, domain.Metadata{domain.MetaTreeID: nodeID})
	if err != nil {
		return fmt.Errorf("locate mirror for node %s: %w", nodeID, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: no mirror for node %s", domain.ErrNotFound, nodeID)
	}
	return t.kb.UpdateAnswerByID(ctx, records[0].RecordID, answer)
}

// SetPriority sets a node's explicit suggestion weight.
func (t *Tree) SetPriority(ctx context.Context, id string, priority int) error {
	node, err := t.store.Get(ctx, id)
	if err != nil {
		return err
	}

	node.Priority = priority
	if err := t.store.Update(ctx, node); err != nil {
		return fmt.Errorf("update node %s: %w", id, err)
	}
	return nil
}

// Get retrieves a single node by id.
func (t *Tree) Get(ctx context.Context, id string) (*domain.TreeNode, error) {
	return t.store.Get(ctx, id)
}

// UnansweredQuestions returns every unanswered node, breadth-first from
// the roots in insertion order.
func (t *Tree) UnansweredQuestions(ctx context.Context) ([]domain.TreeNode, error) {
	nodes, err := t.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}

	byID := make(map[string]*domain.TreeNode, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	// BFS from the roots; List order is insertion order, so roots and
	// sibling children are visited oldest-first.
	var queue []*domain.TreeNode
	for i := range nodes {
		if nodes[i].IsRoot() {
			queue = append(queue, &nodes[i])
		}
	}

	unanswered := make([]domain.TreeNode, 0)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if !node.Answered() {
			unanswered = append(unanswered, *node)
		}
		for _, childID := range node.Children {
			if child, ok := byID[childID]; ok {
				queue = append(queue, child)
			}
		}
	}
	return unanswered, nil
}

// AnsweredQuestions returns every answered node in insertion order.
func (t *Tree) AnsweredQuestions(ctx context.Context) ([]domain.TreeNode, error) {
	nodes, err := t.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}

	answered := make([]domain.TreeNode, 0)
	for _, node := range nodes {
		if node.Answered() {
			answered = append(answered, node)
		}
	}
	return answered, nil
}

// SuggestNext picks the unanswered question to address next: highest
// priority first, shallower nodes before deeper ones, earlier insertion
// breaking remaining ties. The choice depends only on the stored tree,
// so the same forest always yields the same suggestion. Returns nil when
// every node is answered.
func (t *Tree) SuggestNext(ctx context.Context) (*domain.TreeNode, error) {
	nodes, err := t.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}

	parentOf := make(map[string]string, len(nodes))
	for _, node := range nodes {
		parentOf[node.ID] = node.ParentID
	}
	depth := func(id string) int {
		d := 0
		for pid := parentOf[id]; pid != ""; pid = parentOf[pid] {
			d++
		}
		return d
	}

	candidates := make([]domain.TreeNode, 0)
	for _, node := range nodes {
		if !node.Answered() {
			candidates = append(candidates, node)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		da, db := depth(a.ID), depth(b.ID)
		if da != db {
			return da < db
		}
		return a.Seq < b.Seq
	})

	next := candidates[0]
	logger.Debug("SuggestNext: node %s (priority=%d)", next.ID, next.Priority)
	return &next, nil
}

// SyncTreeToKB pushes every answered node's answer into its mirrored
// knowledge base entry. Nodes whose mirror is missing are re-indexed.
func (t *Tree) SyncTreeToKB(ctx context.Context) error {
	if t.kb == nil {
		return domain.ErrVectorIndexUnavailable
	}

	answered, err := t.AnsweredQuestions(ctx)
	if err != nil {
		return err
	}

	for _, node := range answered {
		err := t.updateMirror(ctx, node.ID, node.Answer)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("sync node %s: %w", node.ID, err)
		}

		// Mirror was never created (or the KB was cleared): index it now.
		meta := node.Metadata.Clone()
		if meta == nil {
			meta = domain.Metadata{}
		}
		meta[domain.MetaTreeID] = node.ID
		meta[domain.MetaFromTree] = true
		if _, err := t.kb.AddQA(ctx, node.Question, node.Answer, meta, 0); err != nil {
			return fmt.Errorf("re-index node %s: %w", node.ID, err)
		}
	}

	logger.Info("Synced %d answered node(s) to the knowledge base", len(answered))
	return nil
}

// SyncKBToTree pulls answers from mirrored knowledge base entries into
// tree nodes that are still unanswered. Answers already present in the
// tree are never overwritten.
func (t *Tree) SyncKBToTree(ctx context.Context) error {
	if t.kb == nil {
		return domain.ErrVectorIndexUnavailable
	}

	records, err := t.kb.Records(ctx, domain.Metadata{domain.MetaFromTree: true})
	if err != nil {
		return fmt.Errorf("list mirrored records: %w", err)
	}

	pulled := 0
	for _, record := range records {
		if record.Answer == "" {
			continue
		}
		nodeID, ok := record.Metadata[domain.MetaTreeID].(string)
		if !ok || nodeID == "" {
			continue
		}

		node, err := t.store.Get(ctx, nodeID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Mirrored record %s references unknown node %s", record.RecordID, nodeID)
				continue
			}
			return fmt.Errorf("get node %s: %w", nodeID, err)
		}
		if node.Answered() {
			continue
		}

		node.Answer = record.Answer
		if err := t.store.Update(ctx, node); err != nil {
			return fmt.Errorf("update node %s: %w", nodeID, err)
		}
		pulled++
	}

	logger.Info("Pulled %d answer(s) from the knowledge base into the tree", pulled)
	return nil
}

// mirrorToKB indexes a fresh tree node into the knowledge base so it
// participates in semantic retrieval. Mirror failures are logged, never
// fatal: the tree is the source of truth for its own structure.
func (t *Tree) mirrorToKB(ctx context.Context, node *domain.TreeNode) {
	if t.kb == nil {
		return
	}

	meta := node.Metadata.Clone()
	if meta == nil {
		meta = domain.Metadata{}
	}
	meta[domain.MetaTreeID] = node.ID
	meta[domain.MetaFromTree] = true

	if _, err := t.kb.AddQA(ctx, node.Question, node.Answer, meta, 0); err != nil {
		logger.Warn("KB mirror for node %s failed: %v", node.ID, err)
	}
}
