// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the knowledge base to function:
//
//   - EmbeddingService: Maps question text to a fixed-length vector
//   - VectorIndex: Persistent store of question variants with k-NN query
//   - TreeStore: Question tree persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Rewording expansion and QA-pair generation. Without it,
//     queries run against the original question text only.
//   - PromptStore: User-customisable prompt templates. Without it, the
//     embedded defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or importer package
package driven
