// Package services implements the core business logic for qastore.
//
// Services implement the driving port interfaces and depend only on
// domain types and driven port interfaces. All infrastructure access
// (embeddings, vector index, LLM, tree storage) goes through driven
// ports, so every service is testable with in-memory fakes.
//
// The services are:
//
//   - KnowledgeBase: the retrieval core - rewording expansion,
//     multi-query vector search, candidate merge/dedup/rank
//   - Tree: the question tree and the next-question suggestion policy
//   - Ingest: QA-pair generation from free text
//   - SettingsService: typed settings over the config store
package services
