package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptClassifyClause: `Classify the following commercial lease clause.

Allowed topics: {{.Topics}}
Allowed responsible parties: {{.Parties}}
{{if .SectionHint}}
The clause appears under the heading: {{.SectionHint}}
{{end}}
Clause:
"""
{{.Text}}
"""

Reply with one JSON object and nothing else:
{"topic": "<one allowed topic>", "responsible_party": "<one allowed party>", "section_label": "<short heading or empty>", "confidence": <number between 0 and 1>}

Use OTHER when no topic fits and UNKNOWN when the clause does not assign the obligation to anyone. Use SHARED only when both landlord and tenant carry part of the obligation.`,

	driven.PromptAnswerQuestion: `You answer questions about commercial leases using only the numbered clauses below.
{{if .Portfolio}}
The clauses come from several leases. Group your answer by property and tenant, and say when leases differ.
{{end}}
Lease details:
{{.Metadata}}

Clauses:
{{.Context}}

Question: {{.Question}}

Cite clauses by their number in square brackets, for example [2]. If the clauses do not answer the question, say so plainly.
{{if .AsksResponsibility}}
End your answer with a final line of the form "Responsible Party: LANDLORD", "Responsible Party: TENANT", "Responsible Party: SHARED" or "Responsible Party: UNKNOWN".
{{end}}`,

	driven.PromptAnswerDocument: `You answer questions about the document "{{.Title}}" using only the numbered excerpts below.

Excerpts:
{{.Context}}

Question: {{.Question}}

Cite excerpts by their number in square brackets. If the excerpts do not answer the question, say so plainly. When the answer names who is responsible, end with a line of the form "Responsible Party: LANDLORD", "Responsible Party: TENANT", "Responsible Party: SHARED" or "Responsible Party: UNKNOWN".`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to HomeDir()/prompts.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := HomeDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(home, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# leaserag Prompts

This directory contains customisable prompts used by leaserag's LLM features.

## Files

- ` + "`classify_clause.txt`" + ` - Labels a lease clause with topic and responsible party
- ` + "`answer_question.txt`" + ` - Answers a question from retrieved lease clauses
- ` + "`answer_document.txt`" + ` - Answers a question from a single imported document

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command or after restarting the chat.

## Template Fields

Prompts are Go text/template documents. Available fields:
- classify_clause: ` + "`{{.Text}}`, `{{.SectionHint}}`, `{{.Topics}}`, `{{.Parties}}`" + `
- answer_question: ` + "`{{.Question}}`, `{{.Context}}`, `{{.Metadata}}`, `{{.Portfolio}}`, `{{.AsksResponsibility}}`" + `
- answer_document: ` + "`{{.Question}}`, `{{.Context}}`, `{{.Title}}`" + `

The classifier expects a JSON reply and answers are scanned for a final
"Responsible Party:" line, so keep those instructions in place.
`
	return os.WriteFile(path, []byte(content), 0600)
}
