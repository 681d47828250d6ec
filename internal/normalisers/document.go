package normalisers

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// NewDocument builds a normalised document from an upload and its extracted text.
// The format is recorded in metadata alongside the MIME type.
func NewDocument(raw *domain.RawDocument, title, content, format string) domain.Document {
	meta := make(map[string]any, len(raw.Metadata)+2)
	for k, v := range raw.Metadata {
		meta[k] = v
	}
	meta["mime_type"] = raw.MIMEType
	if format != "" {
		meta["format"] = format
	}

	return domain.Document{
		ID:        uuid.New().String(),
		FileName:  raw.FileName,
		Title:     title,
		MIMEType:  raw.MIMEType,
		Content:   content,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}
}

// Title prefers a caller-supplied metadata title, then the file name.
func Title(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	return TitleFromFileName(raw.FileName)
}

// TitleFromFileName turns "north_tower-lease.pdf" into "north tower lease".
func TitleFromFileName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.NewReplacer("_", " ", "-", " ").Replace(base)
}
