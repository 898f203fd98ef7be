// Package domain defines the core business entities for qastore.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - QAPair: A question with its answer
//   - QAResult: A ranked retrieval hit with similarity score
//   - TreeNode: One question in the question tree (a forest of nodes)
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
