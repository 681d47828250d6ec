package chunker

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		if p.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.chunkSize)
		}
	})

	t.Run("overlap larger than chunk is reduced", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap != 25 {
			t.Errorf("expected overlap 25, got %d", p.overlap)
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		p := New(WithChunkSize(-1), WithOverlap(-5))
		if p.chunkSize != DefaultChunkSize || p.overlap != DefaultChunkOverlap {
			t.Errorf("expected defaults, got %d/%d", p.chunkSize, p.overlap)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	if name := New().Name(); name != "chunker" {
		t.Errorf("expected name 'chunker', got %q", name)
	}
}

func TestProcessor_Process_NilDocument(t *testing.T) {
	if _, err := New().Process(context.Background(), nil, nil); err == nil {
		t.Error("expected error for nil document")
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p := New()
	for _, content := range []string{"", "   \n\t"} {
		chunks, err := p.Process(context.Background(), &domain.Document{Content: content}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chunks) != 0 {
			t.Errorf("expected no chunks for %q, got %d", content, len(chunks))
		}
	}
}

func TestProcessor_Process_SmallContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(10))
	doc := &domain.Document{Content: "Tenant shall pay rent on the first day of each month."}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != doc.Content {
		t.Errorf("unexpected chunk text %q", chunks[0].Text)
	}
	if chunks[0].PageNumber != nil {
		t.Error("expected nil page number for unpaged content")
	}
}

func TestProcessor_Process_LargeContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	content := strings.Repeat("lease clause words ", 60)
	chunks, err := p.Process(context.Background(), &domain.Document{Content: content}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 10 {
		t.Fatalf("expected at least 10 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Position != i {
			t.Errorf("chunk %d has position %d", i, c.Position)
		}
		if n := utf8.RuneCountInString(c.Text); n > 100 {
			t.Errorf("chunk %d exceeds size: %d", i, n)
		}
		if strings.HasPrefix(c.Text, "ords") || strings.HasSuffix(c.Text, "wor") {
			t.Errorf("chunk %d split a word: %q", i, c.Text)
		}
	}
}

func TestProcessor_Process_MultiByteSafe(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(0))
	content := strings.Repeat("é", 35)
	chunks, err := p.Process(context.Background(), &domain.Document{Content: content}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if !utf8.ValidString(c.Text) {
			t.Errorf("invalid UTF-8 in chunk %q", c.Text)
		}
	}
}

func TestProcessor_Process_PageNumbers(t *testing.T) {
	p := New(WithChunkSize(40), WithOverlap(0))
	content := strings.Repeat("a", 39) + " \f" + strings.Repeat("b", 39) + " \f" + strings.Repeat("c", 20)
	chunks, err := p.Process(context.Background(), &domain.Document{Content: content}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.PageNumber == nil || *c.PageNumber != i+1 {
			t.Errorf("chunk %d: expected page %d, got %v", i, i+1, c.PageNumber)
		}
		if strings.ContainsRune(c.Text, '\f') {
			t.Errorf("chunk %d contains a form feed", i)
		}
	}
}

func TestProcessor_Process_IgnoresInputChunks(t *testing.T) {
	p := New()
	input := []domain.Chunk{{Text: "stale"}}
	chunks, err := p.Process(context.Background(), &domain.Document{Content: "fresh content"}, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Text != "fresh content" {
		t.Errorf("expected chunks built from content, got %+v", chunks)
	}
}
