// Package llm defines the injectable text-generation capability used by
// the section generators, plus concrete OpenAI-compatible and Ollama
// backends. Generators call Complete at most once per section.
package llm

import "context"

// Client is the single-method generation capability. Tests substitute a
// function-field fake; production wires an OpenAI or Ollama backend.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Settings configures a concrete backend.
type Settings struct {
	Provider string `json:"provider"` // "openai" | "ollama"
	Model    string `json:"model"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}
