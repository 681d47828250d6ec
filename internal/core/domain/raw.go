package domain

// RawDocument represents opaque uploaded bytes before normalisation.
type RawDocument struct {
	// FileName is the original file name or path.
	FileName string

	// MIMEType is the content type (e.g., "application/pdf").
	// Detected from the file extension when empty.
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller-supplied key-value pairs.
	Metadata map[string]any
}
