// internal/core/ports/suggester.go
package ports

import "context"

// ListingSuggestion is a partial set of catalog fields inferred from
// product photos. Every field is optional: the model may fail to identify
// any of them, and callers must treat an empty field as "no suggestion."
type ListingSuggestion struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Maker       string `json:"maker,omitempty"`
	Condition   string `json:"condition,omitempty"`
}

// Suggester is the port for the AI cataloging collaborator.
type Suggester interface {
	Suggest(ctx context.Context, images [][]byte) (*ListingSuggestion, error)
}
