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

	// ErrUnsupportedType indicates an unknown MIME type or provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoText indicates text extraction produced nothing to index.
	// This is the only failure that aborts an indexing run.
	ErrNoText = errors.New("no text could be extracted")

	// ErrIndexInProgress indicates the lease is already being re-indexed.
	ErrIndexInProgress = errors.New("index in progress")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer generation and LLM classification are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing and search both require embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrAnswerGeneration indicates the answer-generation call failed.
	// It is an upstream failure, distinct from a no_clauses outcome.
	ErrAnswerGeneration = errors.New("answer generation failed")

	// ErrDimensionMismatch indicates an embedding of unexpected length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
