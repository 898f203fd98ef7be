package domain

// TreeNode is one question in the question tree.
//
// Nodes form a forest: every node has at most one parent, the graph is
// acyclic, and child lists preserve insertion order. The structure is
// append-only — nodes are never reparented; the only mutations after
// creation are answering and priority changes.
type TreeNode struct {
	// ID is the unique node identifier, assigned at insertion.
	ID string

	// Question is the question text.
	Question string

	// Answer is the answer text. Empty means unanswered.
	Answer string

	// Metadata contains arbitrary key-value pairs attached at creation.
	Metadata Metadata

	// ParentID is the parent node id; empty for roots.
	ParentID string

	// Children holds child node ids in insertion order.
	Children []string

	// Priority is the explicit suggestion weight. Higher is suggested
	// first; the default is 0 (neutral).
	Priority int

	// Seq is the global insertion sequence number, assigned by the
	// store. It makes traversal and tie-breaking deterministic.
	Seq int64
}

// Answered reports whether the node has an answer.
func (n *TreeNode) Answered() bool {
	return n.Answer != ""
}

// IsRoot reports whether the node has no parent.
func (n *TreeNode) IsRoot() bool {
	return n.ParentID == ""
}

// Metadata keys used to bridge tree nodes into the knowledge base.
// A tree question mirrored into the KB carries both keys so it can be
// located (and its answer updated) by a metadata-filtered query.
const (
	// MetaTreeID holds the originating tree node id.
	MetaTreeID = "tree_id"

	// MetaFromTree marks a KB record as mirrored from the question tree.
	MetaFromTree = "from_tree"
)
