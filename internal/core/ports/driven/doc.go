// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: Turns clause and question text into vectors
//   - ClauseStore: Clause persistence and filtered reads
//   - LeaseStore, PropertyStore: Lease registry persistence
//   - DocumentStore: Uploaded documents and their generic chunks
//   - NormaliserRegistry: Selects a normaliser to extract text
//   - PostProcessorPipeline: Segments text into chunks
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answer generation. Without it, questions cannot be answered.
//   - ClassificationService: Without it, every clause gets the default labels.
//   - RateLimiter: Without it, classification calls are not paced.
//   - ClauseReplacer: Without it, re-indexing is delete-then-create.
//   - PromptStore: Without it, built-in prompt templates are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
