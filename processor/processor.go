// Package processor translates structured content through a Resolver.
package processor

import "context"

// Resolver turns one piece of source text into the target language, waiting
// for a queued translation if needed. *agrilingo.Service implements it.
type Resolver interface {
	Await(ctx context.Context, text, lang string) (string, error)
}

// TextNode is a unique piece of translatable text found in a document.
type TextNode struct {
	ID       string            // Position among unique texts, "node-N"
	Text     string            // Text content, trimmed
	Hash     string            // SHA-256 of Text
	Metadata map[string]string // Parent tag and similar hints
}

// Result reports what a translation pass did.
type Result struct {
	Content    string `json:"content"`
	Nodes      int    `json:"nodes"`
	Translated int    `json:"translated"`
}
