// Package normalisers provides implementations of the Normaliser interface
// for the file formats leases arrive in. Each normaliser knows how to extract
// text content from a specific MIME type.
//
// Format-specific normalisers live in subpackages. This package holds the
// Registry that picks one per upload and the helpers they share.
package normalisers
