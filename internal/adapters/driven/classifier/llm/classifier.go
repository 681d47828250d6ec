// Package llm classifies lease clauses by prompting an LLM for a JSON
// object with topic and responsible party labels.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.ClassificationService = (*Classifier)(nil)

const (
	systemPrompt = "You label commercial lease clauses. Answer only with JSON."
	maxTokens    = 200
)

// errNoJSON is returned when the reply holds no JSON object.
var errNoJSON = errors.New("no JSON object in reply")

// Classifier asks an LLM to label clause text.
type Classifier struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// New creates an LLM-backed classifier.
func New(llm driven.LLMService, prompts driven.PromptStore) *Classifier {
	return &Classifier{llm: llm, prompts: prompts}
}

type promptData struct {
	Text        string
	SectionHint string
	Topics      string
	Parties     string
}

type reply struct {
	Topic            string  `json:"topic"`
	ResponsibleParty string  `json:"responsible_party"`
	SectionLabel     string  `json:"section_label"`
	Confidence       confidence `json:"confidence"`
}

// confidence decodes a number, a quoted number or null. Anything else
// decodes as zero instead of failing the whole reply.
type confidence float64

func (c *confidence) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*c = 0
		return nil
	}
	*c = confidence(v)
	return nil
}

// Classify renders the classify_clause prompt and parses the model's JSON
// reply. Field values are returned unvalidated.
func (c *Classifier) Classify(ctx context.Context, text, sectionHint string) (*driven.RawClassification, error) {
	if c.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	prompt, err := c.render(promptData{
		Text:        text,
		SectionHint: sectionHint,
		Topics:      joinTopics(domain.AllTopics()),
		Parties:     joinParties(domain.AllParties()),
	})
	if err != nil {
		return nil, err
	}

	out, err := c.llm.Generate(ctx, prompt, driven.GenerateOptions{
		System:    systemPrompt,
		MaxTokens: maxTokens,
		JSON:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("classify clause: %w", err)
	}

	raw, err := extractJSON(out)
	if err != nil {
		return nil, fmt.Errorf("parse classification: %w", err)
	}
	var r reply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("parse classification: %w", err)
	}

	return &driven.RawClassification{
		Topic:            r.Topic,
		ResponsibleParty: r.ResponsibleParty,
		SectionLabel:     r.SectionLabel,
		Confidence:       float64(r.Confidence),
	}, nil
}

// Name identifies the classifier.
func (c *Classifier) Name() string {
	if c.llm == nil {
		return "llm"
	}
	return "llm:" + c.llm.ModelName()
}

func (c *Classifier) render(data promptData) (string, error) {
	if c.prompts == nil {
		return "", fmt.Errorf("render prompt %s: no prompt store", driven.PromptClassifyClause)
	}
	text, err := c.prompts.Load(driven.PromptClassifyClause)
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", driven.PromptClassifyClause, err)
	}
	tmpl, err := template.New(driven.PromptClassifyClause).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse prompt %s: %w", driven.PromptClassifyClause, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", driven.PromptClassifyClause, err)
	}
	return buf.String(), nil
}

// extractJSON trims anything around the outermost braces. Models often
// wrap JSON in prose or markdown fences.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end < start {
		return "", errNoJSON
	}
	return s[start : end+1], nil
}

func joinTopics(topics []domain.Topic) string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

func joinParties(parties []domain.ResponsibleParty) string {
	names := make([]string, len(parties))
	for i, p := range parties {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}
