package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// buildDOCX creates a minimal DOCX package in memory.
func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document ` + wordNS + `><w:body>` + body + `</w:body></w:document>`,
	}
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestNormalise(t *testing.T) {
	body := `<w:p><w:r><w:t>ARTICLE 7 INSURANCE</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">Tenant shall </w:t></w:r><w:r><w:t>insure contents.</w:t></w:r></w:p>` +
		`<w:p><w:r><w:br w:type="page"/><w:t>Second page</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Roof</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Landlord</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`

	raw := &domain.RawDocument{
		FileName: "suite_200.docx",
		MIMEType: MIMEType,
		Content:  buildDOCX(t, body),
	}
	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "suite 200", doc.Title)
	assert.Contains(t, doc.Content, "ARTICLE 7 INSURANCE\nTenant shall insure contents.\n\fSecond page")
	assert.Contains(t, doc.Content, "Roof")
	assert.Contains(t, doc.Content, "Landlord")
	assert.Equal(t, "docx", doc.Metadata["format"])
}

func TestNormalise_InvalidInput(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = New().Normalise(context.Background(), &domain.RawDocument{FileName: "x.docx", Content: []byte("not a zip")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"tab", `<w:p ` + wordNS + `><w:r><w:t>Rent</w:t><w:tab/><w:t>$5,000</w:t></w:r></w:p>`, "Rent\t$5,000"},
		{"line break", `<w:p ` + wordNS + `><w:r><w:t>a</w:t><w:br/><w:t>b</w:t></w:r></w:p>`, "a\nb"},
		{"ignores non-text nodes", `<w:p ` + wordNS + `><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Only</w:t></w:r></w:p>`, "Only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := documentText(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
