package services

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// renderPrompt loads a named template and executes it with data.
func renderPrompt(store driven.PromptStore, name string, data any) (string, error) {
	if store == nil {
		return "", fmt.Errorf("render prompt %s: no prompt store", name)
	}
	text, err := store.Load(name)
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", name, err)
	}
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse prompt %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}
