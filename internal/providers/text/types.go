// Package text abstracts the language-model collaborator used for all
// narrative generation.
package text

import "context"

// Generator submits a single system+user exchange and returns the raw model
// text. No conversation history, no retries, no streaming. model may be empty
// to use the provider's configured default.
type Generator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt, model string) (string, error)
}
