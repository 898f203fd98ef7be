package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driven"
)

// treeStore implements driven.TreeStore.
type treeStore struct {
	store *Store
}

var _ driven.TreeStore = (*treeStore)(nil)

// Insert stores a new node and assigns its Seq. The insert and the
// sequence read run in one transaction so concurrent inserts cannot
// claim the same Seq.
func (s *treeStore) Insert(ctx context.Context, node *domain.TreeNode) error {
	metadataJSON, err := json.Marshal(node.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if node.ParentID != "" {
		var exists int
		row := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM tree_nodes WHERE id = ?", node.ParentID)
		if err := row.Scan(&exists); err != nil {
			return fmt.Errorf("checking parent: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("%w: %s", domain.ErrInvalidParent, node.ParentID)
		}
	}

	var seq int64
	row := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM tree_nodes")
	if err := row.Scan(&seq); err != nil {
		return fmt.Errorf("assigning seq: %w", err)
	}

	var parentID any
	if node.ParentID != "" {
		parentID = node.ParentID
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tree_nodes (id, question, answer, metadata, parent_id, priority, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, node.ID, node.Question, node.Answer, string(metadataJSON), parentID, node.Priority, seq)
	if err != nil {
		return fmt.Errorf("inserting node: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert: %w", err)
	}
	node.Seq = seq
	return nil
}

// Get retrieves a node by id.
func (s *treeStore) Get(ctx context.Context, id string) (*domain.TreeNode, error) {
	nodes, err := s.scan(ctx, "id = ?", []any{id})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, domain.ErrNotFound
	}
	return &nodes[0], nil
}

// Update persists changes to a node's answer, priority and metadata.
// Structure columns are never touched.
func (s *treeStore) Update(ctx context.Context, node *domain.TreeNode) error {
	metadataJSON, err := json.Marshal(node.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	result, err := s.store.db.ExecContext(ctx, `
		UPDATE tree_nodes SET answer = ?, priority = ?, metadata = ? WHERE id = ?
	`, node.Answer, node.Priority, string(metadataJSON), node.ID)
	if err != nil {
		return fmt.Errorf("updating node: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns every node in insertion (Seq) order.
func (s *treeStore) List(ctx context.Context) ([]domain.TreeNode, error) {
	return s.scan(ctx, "", nil)
}

// Children returns a node's children in insertion order.
func (s *treeStore) Children(ctx context.Context, parentID string) ([]domain.TreeNode, error) {
	if _, err := s.Get(ctx, parentID); err != nil {
		return nil, err
	}
	return s.scan(ctx, "parent_id = ?", []any{parentID})
}

// Roots returns every parentless node in insertion order.
func (s *treeStore) Roots(ctx context.Context) ([]domain.TreeNode, error) {
	return s.scan(ctx, "parent_id IS NULL", nil)
}

// Close is a no-op; the underlying connection is owned by the Store.
func (s *treeStore) Close() error {
	return nil
}

// scan loads nodes matching the optional WHERE clause in Seq order,
// with Children populated from parent_id references.
func (s *treeStore) scan(ctx context.Context, where string, args []any) ([]domain.TreeNode, error) {
	query := "SELECT id, question, answer, metadata, parent_id, priority, seq FROM tree_nodes"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY seq"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	nodes := make([]domain.TreeNode, 0)
	for rows.Next() {
		var node domain.TreeNode
		var metadataJSON string
		var parentID sql.NullString
		if err := rows.Scan(&node.ID, &node.Question, &node.Answer,
			&metadataJSON, &parentID, &node.Priority, &node.Seq); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("scanning node: %w", err)
		}

		if metadataJSON != "" && metadataJSON != jsonNull {
			if err := json.Unmarshal([]byte(metadataJSON), &node.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling metadata: %w", err)
			}
		}
		node.ParentID = parentID.String
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}

	// Populate Children from parent references, keeping Seq order.
	for i := range nodes {
		children, err := s.childIDs(ctx, nodes[i].ID)
		if err != nil {
			return nil, err
		}
		nodes[i].Children = children
	}
	return nodes, nil
}

func (s *treeStore) childIDs(ctx context.Context, parentID string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT id FROM tree_nodes WHERE parent_id = ? ORDER BY seq", parentID)
	if err != nil {
		return nil, fmt.Errorf("querying children: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning child id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating children: %w", err)
	}
	return ids, nil
}
