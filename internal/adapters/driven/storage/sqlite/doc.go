// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - VectorIndex: question variant embeddings and similarity search
//   - TreeStore: question tree persistence
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Similarity Search
//
// Embeddings are stored as little-endian float32 blobs and searched with a
// brute-force cosine scan. A knowledge base is thousands of entries, not
// millions, so a full scan stays well under a millisecond.
//
// # Data Location
//
// By default, the database is stored at ~/.qastore/data/qastore.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
