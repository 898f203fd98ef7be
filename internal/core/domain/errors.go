package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParent indicates a tree node references a parent that does not exist.
	ErrInvalidParent = errors.New("invalid parent")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrEmbedding indicates the embedding provider failed to produce a vector.
	// Surfaced to the caller; the core never retries embeddings internally.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration indicates the LLM failed to generate rewordings or QA pairs.
	// Recoverable: callers degrade to fewer or zero rewordings.
	ErrGeneration = errors.New("generation failed")

	// ErrIndex indicates the vector index failed an upsert, query or delete.
	ErrIndex = errors.New("vector index failure")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Rewording expansion and QA-pair generation are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// The knowledge base cannot index or retrieve without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrRateLimited indicates an upstream API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
