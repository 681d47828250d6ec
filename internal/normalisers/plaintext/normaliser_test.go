package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()
	assert.Contains(t, mimeTypes, "text/plain")
	assert.Equal(t, 5, New().Priority())
}

func TestNormalise(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", "Tenant shall pay rent.", "Tenant shall pay rent."},
		{"crlf", "line one\r\nline two\rline three", "line one\nline two\nline three"},
		{"bom", "\ufeffARTICLE 1", "ARTICLE 1"},
		{"form feed kept", "page one\fpage two", "page one\fpage two"},
		{"invalid utf8 dropped", "rent\xff due", "rent due"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &domain.RawDocument{
				FileName: "/leases/suite_400.txt",
				MIMEType: "text/plain",
				Content:  []byte(tt.content),
			}
			result, err := New().Normalise(context.Background(), raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Document.Content)
			assert.Equal(t, "suite 400", result.Document.Title)
			assert.Equal(t, "text/plain", result.Document.Metadata["mime_type"])
		})
	}
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}
