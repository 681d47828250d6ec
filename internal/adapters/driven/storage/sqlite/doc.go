// Package sqlite provides a unified SQLite-based implementation of the
// lease, clause and document stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. It implements several store interfaces over a single
// database connection:
//
//   - PropertyStore and LeaseStore: the lease registry
//   - ClauseStore and ClauseReplacer: classified clauses with embeddings
//   - DocumentStore: uploaded documents and their generic chunks
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files and is applied in its own transaction.
//
// Embeddings are stored as little-endian float32 BLOBs. Similarity search
// happens in the core services, not in SQL.
//
// # Data Location
//
// By default, the database is stored at ~/.leaserag/data/leaserag.db.
//
// # Thread Safety
//
// All operations are safe for concurrent use. Re-indexing a lease replaces
// its clauses inside one transaction, so a concurrent query sees either the
// old clause set or the new one.
package sqlite
