// Package domain defines the core business entities for leaserag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Property and Lease: the keyed records clauses hang off
//   - Clause: a classified, embedded unit of lease text
//   - Topic and ResponsibleParty: the closed vocabularies shared by the
//     classifier, the stores and the search filters
//   - Document and DocumentChunk: the generic whole-document pipeline
//   - Answer and Citation: the query response contract
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
