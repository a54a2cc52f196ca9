package generator

import "context"

// Generator sends a single-turn prompt to a language model and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
